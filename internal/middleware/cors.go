package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/morocclubs/clubs-api/internal/config"
)

// CORS allows the configured front-end origins to call the API with a
// bearer token. Tokens travel in the Authorization header, never in cookies.
func CORS(cfg *config.Config) fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     "GET, POST, PUT, DELETE, OPTIONS",
		AllowHeaders:     "Origin, Content-Type, Accept, " + fiber.HeaderAuthorization,
		ExposeHeaders:    fiber.HeaderXRequestID + ", " + fiber.HeaderWWWAuthenticate,
		AllowCredentials: false,
		MaxAge:           600,
	})
}
