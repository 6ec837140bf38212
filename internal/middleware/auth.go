package middleware

import (
	"context"
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/golang-jwt/jwt/v5"
	"github.com/morocclubs/clubs-api/internal/auth"
	"github.com/morocclubs/clubs-api/internal/config"
	"github.com/morocclubs/clubs-api/internal/database"
	"github.com/morocclubs/clubs-api/internal/dto"

	jwtware "github.com/gofiber/contrib/jwt"
)

const (
	tokenKey     = "jwt"
	principalKey = "principal"

	unauthenticatedMessage = "Could not validate credentials"
)

// PrincipalResolver maps validated claims to the caller.
type PrincipalResolver interface {
	Resolve(ctx context.Context, claims *auth.Claims) (auth.Principal, error)
}

// Authenticate requires a bearer token. The signature is checked while the
// token is extracted, then the token service re-validates it (algorithm,
// required exp) and the resolver attaches the principal to the request.
func Authenticate(cfg *config.Config, tokens *auth.TokenService, resolver PrincipalResolver) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey:  jwtware.SigningKey{JWTAlg: cfg.JWTAlgorithm, Key: []byte(cfg.SecretKey)},
		ContextKey:  tokenKey,
		TokenLookup: "header:" + fiber.HeaderAuthorization,
		AuthScheme:  "Bearer",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Warn("authentication failed", "reason", err.Error(), "request_id", requestID(c))
			return Unauthorized(c)
		},
		SuccessHandler: func(c *fiber.Ctx) error {
			token, ok := c.Locals(tokenKey).(*jwt.Token)
			if !ok || token == nil {
				return Unauthorized(c)
			}
			claims, err := tokens.Validate(token.Raw)
			if err != nil {
				slog.Warn("authentication failed", "reason", err.Error(), "request_id", requestID(c))
				return Unauthorized(c)
			}

			principal, err := resolver.Resolve(c.UserContext(), claims)
			if err != nil {
				if errors.Is(err, auth.ErrInvalidToken) {
					slog.Warn("authentication failed", "reason", err.Error(), "request_id", requestID(c))
					return Unauthorized(c)
				}
				slog.Error("principal lookup failed", "error", err.Error(), "request_id", requestID(c))
				if database.IsTransient(err) {
					return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
						Error: true, Message: "Service temporarily unavailable, please retry",
					})
				}
				return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
					Error: true, Message: "Internal server error",
				})
			}

			c.Locals(principalKey, principal)
			return c.Next()
		},
	})
}

// Unauthorized writes the uniform 401 response.
func Unauthorized(c *fiber.Ctx) error {
	c.Set(fiber.HeaderWWWAuthenticate, "Bearer")
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: unauthenticatedMessage,
	})
}

// CurrentPrincipal returns the principal attached by Authenticate.
func CurrentPrincipal(c *fiber.Ctx) (auth.Principal, bool) {
	p, ok := c.Locals(principalKey).(auth.Principal)
	return p, ok && p.Kind != 0
}

func requestID(c *fiber.Ctx) string {
	return utils.CopyString(c.GetRespHeader(fiber.HeaderXRequestID))
}
