package handlers

import (
	"errors"
	"log/slog"
	"strconv"

	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/morocclubs/clubs-api/internal/database"
	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/middleware"
	"github.com/morocclubs/clubs-api/internal/services"
	"github.com/morocclubs/clubs-api/internal/validation"
)

var errorStatus = []struct {
	err    error
	status int
}{
	{services.ErrInvalidCredentials, fiber.StatusUnauthorized},
	{services.ErrUserPrincipalRequired, fiber.StatusForbidden},

	{services.ErrUserNotFound, fiber.StatusNotFound},
	{services.ErrClubNotFound, fiber.StatusNotFound},
	{services.ErrEventNotFound, fiber.StatusNotFound},
	{services.ErrApplicationNotFound, fiber.StatusNotFound},
	{services.ErrSectionNotFound, fiber.StatusNotFound},
	{services.ErrArticleNotFound, fiber.StatusNotFound},
	{services.ErrJoinConfigNotFound, fiber.StatusNotFound},
	{services.ErrNotMember, fiber.StatusNotFound},
	{services.ErrNotRegistered, fiber.StatusNotFound},

	{services.ErrEmailTaken, fiber.StatusConflict},
	{services.ErrAlreadyMember, fiber.StatusConflict},
	{services.ErrAlreadyRegistered, fiber.StatusConflict},
	{services.ErrEventFull, fiber.StatusConflict},
	{services.ErrEventClosed, fiber.StatusConflict},
	{services.ErrInvalidTransition, fiber.StatusConflict},
	{services.ErrCapacityBelowSignup, fiber.StatusConflict},
	{services.ErrSectionKeyTaken, fiber.StatusConflict},
}

// respondError maps a service error to a status and the standard error body.
// Unexpected errors are logged and reported without detail.
func respondError(c *fiber.Ctx, err error) error {
	var ve *validation.Error
	if errors.As(err, &ve) {
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
			Error: true, Message: "Validation failed", Fields: ve.Fields,
		})
	}

	for _, m := range errorStatus {
		if errors.Is(err, m.err) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Error: true, Message: m.err.Error()})
		}
	}

	switch {
	case errors.Is(err, database.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: true, Message: "Not found"})
	case errors.Is(err, database.ErrIntegrity):
		return c.Status(fiber.StatusConflict).JSON(dto.ErrorResponse{
			Error: true, Message: "Request conflicts with existing data",
		})
	case errors.Is(err, database.ErrTransient):
		slog.Warn("transient database failure", "error", err.Error(), "request_id", requestID(c), "action", c.Route().Path)
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{
			Error: true, Message: "Service temporarily unavailable, please retry",
		})
	}

	// Let the app error handler log it and report it to Sentry.
	return err
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
		Error: true, Message: "Invalid request body",
	})
}

// paramID parses a positive integer path parameter. On failure the 400
// response has already been written and ok is false.
func paramID(c *fiber.Ctx, name string) (id uint, ok bool) {
	n, err := strconv.ParseUint(c.Params(name), 10, 64)
	if err != nil || n == 0 {
		_ = c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid " + name,
		})
		return 0, false
	}
	return uint(n), true
}

// userPrincipal returns the id of the stored user behind the request. The
// admin pseudo-principal is refused with 403; ok is false once a response
// has been written.
func userPrincipal(c *fiber.Ctx) (id string, ok bool) {
	p, found := middleware.CurrentPrincipal(c)
	if !found {
		_ = middleware.Unauthorized(c)
		return "", false
	}
	uid := p.UserID()
	if uid == nil {
		_ = respondError(c, services.ErrUserPrincipalRequired)
		return "", false
	}
	return *uid, true
}

// principalUserID is the acting user's id, or nil for the admin principal.
func principalUserID(c *fiber.Ctx) *string {
	p, _ := middleware.CurrentPrincipal(c)
	return p.UserID()
}

func requestID(c *fiber.Ctx) string {
	return utils.CopyString(c.GetRespHeader(fiber.HeaderXRequestID))
}

// ErrorHandler is the app-wide fallback for errors returned by handlers.
// Details of 5xx errors are logged and sent to Sentry, never to the client.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal server error"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		message = fe.Message
	}

	if code >= fiber.StatusInternalServerError {
		slog.Error("unhandled server error",
			"method", c.Method(), "path", c.Path(), "error", err.Error(), "request_id", requestID(c))
		if hub := sentryfiber.GetHubFromContext(c); hub != nil {
			hub.CaptureException(err)
		}
		message = "Internal server error"
	}

	return c.Status(code).JSON(dto.ErrorResponse{Error: true, Message: message})
}
