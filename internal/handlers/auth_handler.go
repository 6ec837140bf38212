package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/middleware"
	"github.com/morocclubs/clubs-api/internal/services"
)

type AuthHandler struct {
	authService *services.AuthService
}

func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.Login(c.UserContext(), &req)
	if err != nil {
		return loginError(c, err)
	}
	return c.JSON(resp)
}

func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	resp, err := h.authService.AdminLogin(&req)
	if err != nil {
		return loginError(c, err)
	}
	return c.JSON(resp)
}

func loginError(c *fiber.Ctx, err error) error {
	if errors.Is(err, services.ErrInvalidCredentials) {
		c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
			Error: true, Message: "Incorrect email or password",
		})
	}
	return respondError(c, err)
}

// Me returns the caller's profile. The admin principal has no users row and
// gets a profile built from configuration.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.Unauthorized(c)
	}
	if p.IsAdmin() {
		return c.JSON(h.authService.AdminProfile())
	}
	return c.JSON(p.User)
}

func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	p, ok := middleware.CurrentPrincipal(c)
	if !ok {
		return middleware.Unauthorized(c)
	}
	return c.JSON(h.authService.Logout(p))
}

func (h *AuthHandler) UpdateMe(c *fiber.Ctx) error {
	userID, ok := userPrincipal(c)
	if !ok {
		return nil
	}
	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.authService.UpdateProfile(c.UserContext(), userID, &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

func (h *AuthHandler) CreateUser(c *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return badBody(c)
	}

	user, err := h.authService.CreateUser(c.UserContext(), &req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}
