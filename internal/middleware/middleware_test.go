package middleware_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/morocclubs/clubs-api/internal/auth"
	"github.com/morocclubs/clubs-api/internal/config"
	"github.com/morocclubs/clubs-api/internal/database"
	"github.com/morocclubs/clubs-api/internal/metrics"
	"github.com/morocclubs/clubs-api/internal/middleware"
	"github.com/morocclubs/clubs-api/internal/models"
)

type resolverFunc func(ctx context.Context, claims *auth.Claims) (auth.Principal, error)

func (f resolverFunc) Resolve(ctx context.Context, claims *auth.Claims) (auth.Principal, error) {
	return f(ctx, claims)
}

var testCfg = &config.Config{
	SecretKey:    "middleware-test-secret-middleware-test",
	JWTAlgorithm: "HS256",
	TokenTTL:     10 * time.Minute,
}

func newTokens(t *testing.T) *auth.TokenService {
	t.Helper()
	tokens, err := auth.NewTokenService(testCfg)
	require.NoError(t, err)
	return tokens
}

// stubResolver treats every non-admin subject as a user with that id.
func stubResolver(isAdmin bool) middleware.PrincipalResolver {
	return resolverFunc(func(_ context.Context, claims *auth.Claims) (auth.Principal, error) {
		kind, err := auth.KindOf(claims)
		if err != nil {
			return auth.Principal{}, err
		}
		if kind == auth.KindAdmin {
			return auth.AdminPrincipal(), nil
		}
		return auth.UserPrincipal(&models.User{ID: claims.Subject, IsAdmin: isAdmin}), nil
	})
}

func newApp(tokens *auth.TokenService, resolver middleware.PrincipalResolver) *fiber.App {
	app := fiber.New()
	app.Get("/whoami", middleware.Authenticate(testCfg, tokens, resolver), func(c *fiber.Ctx) error {
		p, ok := middleware.CurrentPrincipal(c)
		if !ok {
			return fiber.ErrInternalServerError
		}
		return c.SendString(p.Kind.String() + ":" + p.Subject())
	})
	app.Get("/admin",
		middleware.Authenticate(testCfg, tokens, resolver),
		middleware.AdminRequired(),
		func(c *fiber.Ctx) error { return c.SendString("ok") })
	return app
}

func get(t *testing.T, app *fiber.App, path, header string) (*http.Response, string) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if header != "" {
		req.Header.Set(fiber.HeaderAuthorization, header)
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())
	return resp, string(raw)
}

func TestAuthenticateAttachesPrincipal(t *testing.T) {
	tokens := newTokens(t)
	app := newApp(tokens, stubResolver(false))

	userToken, err := tokens.Issue("user-1", nil, 0)
	require.NoError(t, err)
	resp, body := get(t, app, "/whoami", "Bearer "+userToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "user:user-1", body)

	adminToken, err := tokens.IssueAdmin()
	require.NoError(t, err)
	resp, body = get(t, app, "/whoami", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "admin:admin", body)
}

func TestAuthenticateRejects(t *testing.T) {
	tokens := newTokens(t)
	app := newApp(tokens, stubResolver(false))

	valid, err := tokens.Issue("user-1", nil, 0)
	require.NoError(t, err)
	forgedAdmin, err := tokens.Issue("user-1", map[string]any{"admin": true}, 0)
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
	}{
		{"no header", ""},
		{"wrong scheme", "Basic " + valid},
		{"empty bearer", "Bearer "},
		{"malformed", "Bearer abc.def"},
		{"admin claim on user subject", "Bearer " + forgedAdmin},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := get(t, app, "/whoami", tt.header)
			assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
			assert.Equal(t, "Bearer", resp.Header.Get(fiber.HeaderWWWAuthenticate))
			assert.JSONEq(t, `{"error":true,"message":"Could not validate credentials"}`, body)
		})
	}
}

func TestAuthenticateRejectsTokenWithoutExpiry(t *testing.T) {
	tokens := newTokens(t)
	app := newApp(tokens, stubResolver(false))

	raw, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": "user-1"}).
		SignedString([]byte(testCfg.SecretKey))
	require.NoError(t, err)

	resp, _ := get(t, app, "/whoami", "Bearer "+raw)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestAuthenticateLookupFailures(t *testing.T) {
	tokens := newTokens(t)
	token, err := tokens.Issue("user-1", nil, 0)
	require.NoError(t, err)

	transient := resolverFunc(func(context.Context, *auth.Claims) (auth.Principal, error) {
		return auth.Principal{}, database.Classify(fmt.Errorf("load user: %w", driver.ErrBadConn))
	})
	resp, _ := get(t, newApp(tokens, transient), "/whoami", "Bearer "+token)
	assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)

	broken := resolverFunc(func(context.Context, *auth.Claims) (auth.Principal, error) {
		return auth.Principal{}, errors.New("boom")
	})
	resp, body := get(t, newApp(tokens, broken), "/whoami", "Bearer "+token)
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.NotContains(t, body, "boom")
}

func TestAdminRequired(t *testing.T) {
	tokens := newTokens(t)
	userToken, err := tokens.Issue("user-1", nil, 0)
	require.NoError(t, err)
	adminToken, err := tokens.IssueAdmin()
	require.NoError(t, err)

	resp, body := get(t, newApp(tokens, stubResolver(false)), "/admin", "Bearer "+userToken)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	assert.Contains(t, body, "Admin access required")

	resp, _ = get(t, newApp(tokens, stubResolver(true)), "/admin", "Bearer "+userToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = get(t, newApp(tokens, stubResolver(false)), "/admin", "Bearer "+adminToken)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestAdminRequiredWithoutAuthenticate(t *testing.T) {
	app := fiber.New()
	app.Get("/admin", middleware.AdminRequired(), func(c *fiber.Ctx) error { return c.SendString("ok") })

	resp, _ := get(t, app, "/admin", "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestMetricsMiddleware(t *testing.T) {
	m := metrics.New()
	app := fiber.New()
	app.Use(middleware.Metrics(m))
	app.Get("/api/clubs/:id", func(c *fiber.Ctx) error { return c.SendStatus(fiber.StatusNoContent) })

	get(t, app, "/api/clubs/1", "")
	get(t, app, "/api/clubs/2", "")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RequestsTotal.WithLabelValues("GET", "/api/clubs/:id", "204")))
}

func TestCORSPreflight(t *testing.T) {
	app := fiber.New()
	app.Use(middleware.CORS(&config.Config{CORSOrigins: "http://localhost:5000"}))
	app.Get("/api/clubs", func(c *fiber.Ctx) error { return c.SendString("[]") })

	req := httptest.NewRequest(http.MethodOptions, "/api/clubs", nil)
	req.Header.Set(fiber.HeaderOrigin, "http://localhost:5000")
	req.Header.Set(fiber.HeaderAccessControlRequestMethod, http.MethodGet)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	require.NoError(t, resp.Body.Close())

	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
	assert.Equal(t, "http://localhost:5000", resp.Header.Get(fiber.HeaderAccessControlAllowOrigin))
	assert.Contains(t, resp.Header.Get(fiber.HeaderAccessControlAllowHeaders), fiber.HeaderAuthorization)
}
