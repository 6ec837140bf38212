package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/morocclubs/clubs-api/internal/config"
)

// ErrInvalidToken is returned for every token that fails validation. The
// wrapped cause is for logs only.
var ErrInvalidToken = errors.New("invalid token")

const (
	claimSubject  = "sub"
	claimIssuedAt = "iat"
	claimExpires  = "exp"
	claimAdmin    = "admin"
)

// Claims is the validated content of a token.
type Claims struct {
	Subject   string
	Admin     bool
	IssuedAt  time.Time
	ExpiresAt time.Time
	Extra     map[string]any
}

// TokenService issues and validates signed bearer tokens. The key and
// algorithm are fixed at construction.
type TokenService struct {
	key    []byte
	method jwt.SigningMethod
	ttl    time.Duration
	now    func() time.Time
}

type Option func(*TokenService)

// WithClock replaces time.Now for issuing and expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *TokenService) {
		s.now = now
	}
}

func NewTokenService(cfg *config.Config, opts ...Option) (*TokenService, error) {
	if cfg.SecretKey == "" {
		return nil, errors.New("token service: signing key is empty")
	}
	method := jwt.GetSigningMethod(cfg.JWTAlgorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("token service: unsupported algorithm %q", cfg.JWTAlgorithm)
	}

	s := &TokenService{
		key:    []byte(cfg.SecretKey),
		method: method,
		ttl:    cfg.TokenTTL,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Algorithm returns the JWS algorithm name tokens are signed with.
func (s *TokenService) Algorithm() string {
	return s.method.Alg()
}

// Issue signs a token for subject. A ttl <= 0 selects the configured default.
// Entries in extra never override sub, iat or exp.
func (s *TokenService) Issue(subject string, extra map[string]any, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("token subject is required")
	}
	if ttl <= 0 {
		ttl = s.ttl
	}

	now := s.now()
	claims := jwt.MapClaims{}
	for k, v := range extra {
		claims[k] = v
	}
	claims[claimSubject] = subject
	claims[claimIssuedAt] = now.Unix()
	claims[claimExpires] = expiryUnix(now, ttl)

	signed, err := jwt.NewWithClaims(s.method, claims).SignedString(s.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// expiryUnix rounds now+ttl up to a whole second. exp has second precision,
// so truncating would let a sub-second ttl expire before it is issued.
func expiryUnix(now time.Time, ttl time.Duration) int64 {
	exp := now.Add(ttl)
	if whole := exp.Truncate(time.Second); whole.Before(exp) {
		return whole.Add(time.Second).Unix()
	}
	return exp.Unix()
}

// IssueAdmin signs a token for the admin pseudo-principal.
func (s *TokenService) IssueAdmin() (string, error) {
	return s.Issue(AdminSubject, map[string]any{claimAdmin: true}, 0)
}

// Validate checks signature, algorithm and expiry. A token is rejected once
// the clock reaches its exp.
func (s *TokenService) Validate(raw string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{s.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	)

	token, err := parser.Parse(raw, func(*jwt.Token) (interface{}, error) {
		return s.key, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	mc, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}

	sub, err := mc.GetSubject()
	if err != nil || sub == "" {
		return nil, fmt.Errorf("%w: missing subject", ErrInvalidToken)
	}

	claims := &Claims{Subject: sub, Extra: map[string]any{}}
	if exp, err := mc.GetExpirationTime(); err == nil && exp != nil {
		claims.ExpiresAt = exp.Time
	}
	if iat, err := mc.GetIssuedAt(); err == nil && iat != nil {
		claims.IssuedAt = iat.Time
	}
	if v, present := mc[claimAdmin]; present {
		admin, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("%w: admin claim is not a boolean", ErrInvalidToken)
		}
		claims.Admin = admin
	}
	for k, v := range mc {
		switch k {
		case claimSubject, claimIssuedAt, claimExpires, claimAdmin:
		default:
			claims.Extra[k] = v
		}
	}
	return claims, nil
}
