package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IJobController interface {
	RegisterRoutes(api fiber.Router, authMiddleware fiber.Handler)
	Match(ctx *fiber.Ctx) error
}

type jobController struct {
	service service.IJobService
}

func NewJobController(service service.IJobService) IJobController {
	return &jobController{service: service}
}

func (c *jobController) RegisterRoutes(api fiber.Router, authMiddleware fiber.Handler) {
	h := api.Group("/v1/jobs", authMiddleware)
	h.Post("/match", c.Match)
}

func (c *jobController) Match(ctx *fiber.Ctx) error {
	var req dto.JobMatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Match(ctx.UserContext(), serverutils.PrincipalFrom(ctx), &req)
	if err != nil {
		return writeServiceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success match jobs", res))
}
