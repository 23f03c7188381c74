package controller

import (
	"ai-assistant-be/internal/dto"
	"ai-assistant-be/internal/pkg/serverutils"
	"ai-assistant-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentController interface {
	RegisterRoutes(api fiber.Router, authMiddleware fiber.Handler)
	Analyze(ctx *fiber.Ctx) error
}

type documentController struct {
	service service.IDocumentService
}

func NewDocumentController(service service.IDocumentService) IDocumentController {
	return &documentController{service: service}
}

func (c *documentController) RegisterRoutes(api fiber.Router, authMiddleware fiber.Handler) {
	h := api.Group("/v1/documents", authMiddleware)
	h.Post("/analyze", c.Analyze)
}

func (c *documentController) Analyze(ctx *fiber.Ctx) error {
	var req dto.DocumentAnalyzeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if req.DocumentType == "" {
		req.DocumentType = "resume"
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.Analyze(ctx.UserContext(), serverutils.PrincipalFrom(ctx), &req)
	if err != nil {
		return writeServiceError(ctx, err)
	}
	return ctx.JSON(serverutils.SuccessResponse("Success analyze document", res))
}
