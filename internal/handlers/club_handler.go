package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/services"
)

type ClubHandler struct {
	clubService *services.ClubService
}

func NewClubHandler(clubService *services.ClubService) *ClubHandler {
	return &ClubHandler{clubService: clubService}
}

func (h *ClubHandler) List(c *fiber.Ctx) error {
	clubs, total, err := h.clubService.List(c.UserContext(), services.ClubFilter{
		Location: c.Query("location"),
		Query:    c.Query("q"),
		Limit:    c.QueryInt("limit", 20),
		Offset:   c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.ClubListResponse{Clubs: clubs, Total: total})
}

func (h *ClubHandler) Get(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	club, err := h.clubService.Get(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(club)
}

func (h *ClubHandler) Create(c *fiber.Ctx) error {
	var req dto.ClubCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	club, err := h.clubService.Create(c.UserContext(), principalUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(club)
}

func (h *ClubHandler) Update(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req dto.ClubUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	club, err := h.clubService.Update(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(club)
}

func (h *ClubHandler) Delete(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	if err := h.clubService.Delete(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Club deactivated"})
}

func (h *ClubHandler) Join(c *fiber.Ctx) error {
	userID, ok := userPrincipal(c)
	if !ok {
		return nil
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	membership, err := h.clubService.Join(c.UserContext(), userID, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(membership)
}

func (h *ClubHandler) Leave(c *fiber.Ctx) error {
	userID, ok := userPrincipal(c)
	if !ok {
		return nil
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	if err := h.clubService.Leave(c.UserContext(), userID, id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(dto.MessageResponse{Message: "Left club"})
}

func (h *ClubHandler) Members(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	members, err := h.clubService.Members(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(members)
}

func (h *ClubHandler) MyMemberships(c *fiber.Ctx) error {
	userID, ok := userPrincipal(c)
	if !ok {
		return nil
	}
	memberships, err := h.clubService.UserMemberships(c.UserContext(), userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(memberships)
}

func (h *ClubHandler) Reviews(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	reviews, err := h.clubService.Reviews(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(reviews)
}

func (h *ClubHandler) AddReview(c *fiber.Ctx) error {
	userID, ok := userPrincipal(c)
	if !ok {
		return nil
	}
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req dto.ReviewCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	review, err := h.clubService.AddReview(c.UserContext(), userID, id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(review)
}

func (h *ClubHandler) Gallery(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	images, err := h.clubService.Gallery(c.UserContext(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(images)
}

func (h *ClubHandler) AddGalleryImage(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req dto.GalleryCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	image, err := h.clubService.AddGalleryImage(c.UserContext(), principalUserID(c), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(image)
}
