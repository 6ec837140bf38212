package services_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/morocclubs/clubs-api/internal/auth"
	"github.com/morocclubs/clubs-api/internal/config"
	"github.com/morocclubs/clubs-api/internal/metrics"
	"github.com/morocclubs/clubs-api/internal/services"
	"github.com/morocclubs/clubs-api/internal/testutil"
)

const (
	adminEmail    = "admin@morocclubs.com"
	adminPassword = "admin-pass-123"
)

type authFixture struct {
	db        *gorm.DB
	cfg       *config.Config
	tokens    *auth.TokenService
	passwords *auth.BcryptVerifier
	metrics   *metrics.Metrics
	svc       *services.AuthService
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	db := testutil.NewDB(t)
	cfg := &config.Config{
		SecretKey:     "service-test-secret-service-test-secret",
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

	return &authFixture{
		db:        db,
		cfg:       cfg,
		tokens:    tokens,
		passwords: passwords,
		metrics:   m,
		svc:       services.NewAuthService(db, cfg, tokens, passwords, m),
	}
}
