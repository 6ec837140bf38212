package handlers_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/morocclubs/clubs-api/internal/auth"
	"github.com/morocclubs/clubs-api/internal/config"
	"github.com/morocclubs/clubs-api/internal/handlers"
	"github.com/morocclubs/clubs-api/internal/metrics"
	"github.com/morocclubs/clubs-api/internal/models"
	"github.com/morocclubs/clubs-api/internal/routes"
	"github.com/morocclubs/clubs-api/internal/services"
	"github.com/morocclubs/clubs-api/internal/testutil"
)

const (
	adminEmail    = "admin@morocclubs.com"
	adminPassword = "admin-pass-123"
	userPassword  = "member-password"
)

type testApp struct {
	t         *testing.T
	app       *fiber.App
	db        *gorm.DB
	cfg       *config.Config
	tokens    *auth.TokenService
	passwords *auth.BcryptVerifier
	faker     *gofakeit.Faker
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		SecretKey:     "handler-test-secret-handler-test-secret",
		JWTAlgorithm:  "HS256",
		TokenTTL:      30 * time.Minute,
		AdminEmail:    adminEmail,
		AdminPassword: adminPassword,
		BcryptCost:    bcrypt.MinCost,
	}
	tokens, err := auth.NewTokenService(cfg)
	require.NoError(t, err)
	passwords := auth.NewBcryptVerifier(bcrypt.MinCost)
	m := metrics.New()
	authService := services.NewAuthService(db, cfg, tokens, passwords, m)

	app := fiber.New(fiber.Config{ErrorHandler: handlers.ErrorHandler})
	routes.Setup(app, cfg, tokens, authService, m, routes.Handlers{
		Auth:        handlers.NewAuthHandler(authService),
		Health:      handlers.NewHealthHandler(db),
		Clubs:       handlers.NewClubHandler(services.NewClubService(db)),
		Events:      handlers.NewEventHandler(services.NewEventService(db)),
		Application: handlers.NewApplicationHandler(services.NewApplicationService(db)),
		Content:     handlers.NewContentHandler(services.NewContentService(db)),
		Analytics:   handlers.NewAnalyticsHandler(services.NewAnalyticsService(db)),
	})

	return &testApp{t: t, app: app, db: db, cfg: cfg, tokens: tokens, passwords: passwords, faker: testutil.Faker()}
}

// createUser stores a user whose password is userPassword.
func (a *testApp) createUser(isAdmin bool) *models.User {
	a.t.Helper()
	hash, err := a.passwords.Hash(userPassword)
	require.NoError(a.t, err)
	u := testutil.CreateUser(a.t, a.db, a.faker, hash)
	if isAdmin {
		require.NoError(a.t, a.db.Model(u).Update("is_admin", true).Error)
		u.IsAdmin = true
	}
	return u
}

func (a *testApp) createClub() *models.Club {
	a.t.Helper()
	return testutil.CreateClub(a.t, a.db, a.faker)
}

func (a *testApp) userToken(u *models.User) string {
	a.t.Helper()
	token, err := a.tokens.Issue(u.ID, nil, 0)
	require.NoError(a.t, err)
	return token
}

func (a *testApp) adminToken() string {
	a.t.Helper()
	token, err := a.tokens.IssueAdmin()
	require.NoError(a.t, err)
	return token
}

type response struct {
	status int
	header http.Header
	body   []byte
}

func (r response) json(t *testing.T) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(r.body, &out), string(r.body))
	return out
}

func (r response) list(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	require.NoError(t, json.Unmarshal(r.body, &out), string(r.body))
	return out
}

func readAll(t *testing.T, resp *http.Response) string {
	t.Helper()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(raw)
}

// do sends a request. body may be nil, a string sent verbatim, or a value
// encoded as JSON.
func (a *testApp) do(method, path string, body any, token string) response {
	a.t.Helper()

	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(a.t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := a.app.Test(req, -1)
	require.NoError(a.t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(a.t, err)
	return response{status: resp.StatusCode, header: resp.Header, body: raw}
}
