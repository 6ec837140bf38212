package middleware

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/morocclubs/clubs-api/internal/dto"
)

// AdminRequired lets through the admin principal and users flagged is_admin.
// It must run after Authenticate.
func AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, ok := CurrentPrincipal(c)
		if !ok {
			return Unauthorized(c)
		}
		if !p.CanAdminister() {
			slog.Warn("admin access denied", "user_id", p.Subject(), "path", c.Path(), "request_id", requestID(c))
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Admin access required",
			})
		}
		return c.Next()
	}
}
