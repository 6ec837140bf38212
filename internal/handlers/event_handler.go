package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/services"
)

type EventHandler struct {
	eventService *services.EventService
}

func NewEventHandler(eventService *services.EventService) *EventHandler {
	return &EventHandler{eventService: eventService}
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	clubID := c.QueryInt("club_id", 0)
	if clubID < 0 {
		clubID = 0
	}
	events, err := h.eventService.List(c.UserContext(), services.EventFilter{
		Status: c.Query("status"),
		ClubID: uint(clubID),
		Limit:  c.QueryInt("limit", 20),
		Offset: c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

func (h *EventHandler) ClubEvents(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	events, err := h.eventService.ClubEvents(c.UserContext(), id, c.QueryBool("upcoming", false))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(events)
}

func (h *EventHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	event, err := h.eventService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	var req dto.EventCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	event, err := h.eventService.Create(c.UserContext(), principalUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(event)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req dto.EventUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	event, err := h.eventService.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(event)
}

func (h *EventHandler) Register(c *fiber.Ctx) error {
	userID, ok := userPrincipal(c)
	if !ok {
		return nil
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	participant, err := h.eventService.Register(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(participant)
}

func (h *EventHandler) Unregister(c *fiber.Ctx) error {
	userID, ok := userPrincipal(c)
	if !ok {
		return nil
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	if err := h.eventService.Unregister(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Registration cancelled"})
}

func (h *EventHandler) Participants(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	participants, err := h.eventService.Participants(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(participants)
}
