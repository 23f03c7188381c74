package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IQuotaController interface {
	RegisterRoutes(api fiber.Router, authMiddleware fiber.Handler)
	Status(ctx *fiber.Ctx) error
	StubUpgrade(ctx *fiber.Ctx) error
}

type quotaController struct {
	service service.IQuotaService
}

func NewQuotaController(service service.IQuotaService) IQuotaController {
	return &quotaController{service: service}
}

func (c *quotaController) RegisterRoutes(api fiber.Router, authMiddleware fiber.Handler) {
	api.Get("/v1/quota", authMiddleware, c.Status)
	// Local stand-in for the payment webhook; disabled in production.
	api.Post("/v1/webhooks/stub-upgrade", c.StubUpgrade)
}

func (c *quotaController) Status(ctx *fiber.Ctx) error {
	res, err := c.service.Status(ctx.UserContext(), serverutils.PrincipalFrom(ctx))
	if err != nil {
		return writeServiceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get quota", res))
}

func (c *quotaController) StubUpgrade(ctx *fiber.Ctx) error {
	var req dto.StubUpgradeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	if err := c.service.StubUpgrade(ctx.UserContext(), &req); err != nil {
		return writeServiceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Tier updated", fiber.Map{"user_id": req.UserID, "tier": req.Tier}))
}
