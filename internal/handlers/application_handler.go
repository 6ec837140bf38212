package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/middleware"
	"github.com/morocclubs/clubs-api/internal/services"
)

type ApplicationHandler struct {
	applicationService *services.ApplicationService
}

func NewApplicationHandler(applicationService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{applicationService: applicationService}
}

// Submit is public: prospective members apply without an account.
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	var req dto.ApplicationCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	app, err := h.applicationService.Submit(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(app)
}

func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	apps, total, err := h.applicationService.List(
		c.UserContext(), c.Query("status"), c.QueryInt("limit", 20), c.QueryInt("offset", 0),
	)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ApplicationListResponse{Applications: apps, Total: total})
}

func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	app, err := h.applicationService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(app)
}

func (h *ApplicationHandler) Review(c *fiber.Ctx) error {
	reviewer, found := middleware.CurrentPrincipal(c)
	if !found {
		return middleware.Unauthorized(c)
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req dto.ApplicationReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	app, err := h.applicationService.Review(c.UserContext(), id, reviewer, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(app)
}
