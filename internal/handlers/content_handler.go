package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/services"
)

type ContentHandler struct {
	contentService *services.ContentService
}

func NewContentHandler(contentService *services.ContentService) *ContentHandler {
	return &ContentHandler{contentService: contentService}
}

func (h *ContentHandler) Landing(c *fiber.Ctx) error {
	sections, err := h.contentService.LandingSections(c.UserContext(), c.Query("locale"), false)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sections)
}

func (h *ContentHandler) AdminLanding(c *fiber.Ctx) error {
	sections, err := h.contentService.LandingSections(c.UserContext(), c.Query("locale"), true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(sections)
}

func (h *ContentHandler) CreateSection(c *fiber.Ctx) error {
	var req dto.LandingSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	section, err := h.contentService.CreateSection(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(section)
}

func (h *ContentHandler) UpdateSection(c *fiber.Ctx) error {
	var req dto.LandingSectionUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	section, err := h.contentService.UpdateSection(c.UserContext(), c.Params("key"), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(section)
}

func (h *ContentHandler) DeleteSection(c *fiber.Ctx) error {
	if err := h.contentService.DeleteSection(c.UserContext(), c.Params("key")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ContentHandler) News(c *fiber.Ctx) error {
	articles, err := h.contentService.ListNews(c.UserContext(), services.NewsFilter{
		Category:     c.Query("category"),
		FeaturedOnly: c.QueryBool("featured", false),
		Limit:        c.QueryInt("limit", 20),
		Offset:       c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(articles)
}

// AdminNews also lists drafts.
func (h *ContentHandler) AdminNews(c *fiber.Ctx) error {
	articles, err := h.contentService.ListNews(c.UserContext(), services.NewsFilter{
		Category:           c.Query("category"),
		IncludeUnpublished: true,
		Limit:              c.QueryInt("limit", 20),
		Offset:             c.QueryInt("offset", 0),
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(articles)
}

func (h *ContentHandler) Article(c *fiber.Ctx) error {
	article, err := h.contentService.GetNewsBySlug(c.UserContext(), c.Params("slug"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(article)
}

func (h *ContentHandler) CreateNews(c *fiber.Ctx) error {
	var req dto.NewsCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	article, err := h.contentService.CreateNews(c.UserContext(), principalUserID(c), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(article)
}

func (h *ContentHandler) UpdateNews(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	var req dto.NewsUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	article, err := h.contentService.UpdateNews(c.UserContext(), id, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(article)
}

func (h *ContentHandler) DeleteNews(c *fiber.Ctx) error {
	id, ok := paramID(c, "id")
	if !ok {
		return nil
	}
	if err := h.contentService.DeleteNews(c.UserContext(), id); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *ContentHandler) JoinConfig(c *fiber.Ctx) error {
	cfg, err := h.contentService.JoinConfig(c.UserContext())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}

func (h *ContentHandler) SaveJoinConfig(c *fiber.Ctx) error {
	var req dto.JoinConfigRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}
	cfg, err := h.contentService.SaveJoinConfig(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(cfg)
}
