package services

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/morocclubs/clubs-api/internal/auth"
	"github.com/morocclubs/clubs-api/internal/config"
	"github.com/morocclubs/clubs-api/internal/database"
	"github.com/morocclubs/clubs-api/internal/dto"
	"github.com/morocclubs/clubs-api/internal/metrics"
	"github.com/morocclubs/clubs-api/internal/models"
	"github.com/morocclubs/clubs-api/internal/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const TokenType = "bearer"

// AuthService is the authentication gateway: password and admin login,
// principal resolution for the access-control middleware, and account
// management.
type AuthService struct {
	db        *gorm.DB
	cfg       *config.Config
	tokens    *auth.TokenService
	passwords auth.PasswordVerifier
	metrics   *metrics.Metrics

	dummyOnce sync.Once
	dummyHash string
}

func NewAuthService(db *gorm.DB, cfg *config.Config, tokens *auth.TokenService, passwords auth.PasswordVerifier, m *metrics.Metrics) *AuthService {
	return &AuthService{
		db:        db,
		cfg:       cfg,
		tokens:    tokens,
		passwords: passwords,
		metrics:   m,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Login verifies an email/password pair against the users table. Unknown
// emails and wrong passwords fail identically.
func (s *AuthService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", normalizeEmail(req.Email)).First(&user).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, dbError("login lookup", err)
		}
		// Spend the same bcrypt work as a real mismatch.
		s.passwords.Verify(s.dummy(), req.Password)
		slog.Warn("login failed", "reason", "unknown email")
		s.metrics.LoginAttempt("user", false)
		return nil, ErrInvalidCredentials
	}

	if !s.passwords.Verify(user.PasswordHash, req.Password) {
		slog.Warn("login failed", "reason", "password mismatch", "user_id", user.ID)
		s.metrics.LoginAttempt("user", false)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID, nil, 0)
	if err != nil {
		return nil, err
	}
	s.metrics.LoginAttempt("user", true)
	return &dto.TokenResponse{AccessToken: token, TokenType: TokenType}, nil
}

func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.passwords.Hash("clubs-api-dummy-password")
		if err == nil {
			s.dummyHash = h
		}
	})
	return s.dummyHash
}

// AdminLogin checks the fixed admin credentials from configuration. No user
// row is read or written. It always fails when no admin password is set.
func (s *AuthService) AdminLogin(req *dto.LoginRequest) (*dto.TokenResponse, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	emailOK := subtle.ConstantTimeCompare([]byte(req.Email), []byte(s.cfg.AdminEmail)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(s.cfg.AdminPassword)) == 1
	if !s.cfg.AdminLoginEnabled() || !emailOK || !passOK {
		slog.Warn("admin login failed", "reason", "credentials mismatch")
		s.metrics.LoginAttempt("admin", false)
		return nil, ErrInvalidCredentials
	}

	token, err := s.tokens.IssueAdmin()
	if err != nil {
		return nil, err
	}
	s.metrics.LoginAttempt("admin", true)
	return &dto.TokenResponse{AccessToken: token, TokenType: TokenType}, nil
}

// Resolve turns validated claims into a principal. A user token whose
// subject no longer exists yields auth.ErrInvalidToken.
func (s *AuthService) Resolve(ctx context.Context, claims *auth.Claims) (auth.Principal, error) {
	kind, err := auth.KindOf(claims)
	if err != nil {
		return auth.Principal{}, err
	}
	if kind == auth.KindAdmin {
		return auth.AdminPrincipal(), nil
	}

	user, err := s.CurrentUser(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return auth.Principal{}, fmt.Errorf("%w: subject %q has no user", auth.ErrInvalidToken, claims.Subject)
		}
		return auth.Principal{}, err
	}
	return auth.UserPrincipal(user), nil
}

// CurrentUser loads the full profile for a token subject.
func (s *AuthService) CurrentUser(ctx context.Context, subject string) (*models.User, error) {
	if subject == models.AdminSubject {
		return nil, ErrUserNotFound
	}
	var user models.User
	if err := s.db.WithContext(ctx).Where("id = ?", subject).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, dbError("load user", err)
	}
	return &user, nil
}

// AdminProfile describes the admin principal from configuration.
func (s *AuthService) AdminProfile() dto.AdminProfileResponse {
	return dto.AdminProfileResponse{
		ID:        models.AdminSubject,
		Email:     s.cfg.AdminEmail,
		IsAdmin:   true,
		Principal: auth.KindAdmin.String(),
	}
}

// Logout does nothing server-side: tokens stay valid until they expire.
func (s *AuthService) Logout(p auth.Principal) dto.MessageResponse {
	slog.Info("logout", "user_id", p.Subject())
	return dto.MessageResponse{Message: "Successfully logged out"}
}

func (s *AuthService) CreateUser(ctx context.Context, req *dto.CreateUserRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	hash, err := s.passwords.Hash(req.Password)
	if err != nil {
		return nil, validation.Field("password", err.Error())
	}

	interests := req.Interests
	if interests == nil {
		interests = []string{}
	}
	user := models.User{
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Location:     req.Location,
		Interests:    datatypes.JSONSlice[string](interests),
		IsAdmin:      req.IsAdmin,
	}
	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		if database.IsIntegrity(err) {
			return nil, ErrEmailTaken
		}
		return nil, dbError("create user", err)
	}
	return &user, nil
}

// SetPassword replaces a user's password hash.
func (s *AuthService) SetPassword(ctx context.Context, email, password string) error {
	hash, err := s.passwords.Hash(password)
	if err != nil {
		return validation.Field("password", err.Error())
	}
	result := s.db.WithContext(ctx).Model(&models.User{}).
		Where("email = ?", normalizeEmail(email)).
		Update("password_hash", hash)
	if result.Error != nil {
		return dbError("set password", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, req *dto.UpdateProfileRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	user, err := s.CurrentUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	setString := func(col string, v *string) {
		if v != nil {
			updates[col] = strings.TrimSpace(*v)
		}
	}
	setString("first_name", req.FirstName)
	setString("last_name", req.LastName)
	setString("profile_image_url", req.ProfileImageURL)
	setString("bio", req.Bio)
	setString("phone", req.Phone)
	setString("location", req.Location)
	if req.Interests != nil {
		updates["interests"] = datatypes.JSONSlice[string](*req.Interests)
	}
	if len(updates) == 0 {
		return user, nil
	}

	if err := s.db.WithContext(ctx).Model(user).Updates(updates).Error; err != nil {
		return nil, dbError("update profile", err)
	}
	return s.CurrentUser(ctx, userID)
}
