package controller

import (
	"errors"

	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"
	"ai-assistant-be/pkg/analysis"

	"github.com/gofiber/fiber/v2"
)

// writeServiceError maps known service errors to responses; anything else
// is left to the error handler middleware.
func writeServiceError(ctx *fiber.Ctx, err error) error {
	var limitErr *dto.LimitExceededError
	switch {
	case errors.As(err, &limitErr):
		return ctx.Status(fiber.StatusTooManyRequests).JSON(dto.NewLimitExceededResponse(limitErr))
	case errors.Is(err, service.ErrMissingIdentity):
		return ctx.Status(fiber.StatusUnauthorized).JSON(serverutils.ErrorResponse(401, "missing or invalid authorization"))
	case errors.Is(err, analysis.ErrUnsupportedDocumentType):
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, err.Error()))
	case errors.Is(err, service.ErrStubUpgradeDisabled):
		return ctx.Status(fiber.StatusNotFound).JSON(serverutils.ErrorResponse(404, err.Error()))
	}
	return err
}
