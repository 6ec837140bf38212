package auth

import (
	"fmt"

	"github.com/morocclubs/clubs-api/internal/models"
)

// AdminSubject is the subject carried by admin tokens.
const AdminSubject = models.AdminSubject

type Kind int

const (
	KindUser Kind = iota + 1
	KindAdmin
)

func (k Kind) String() string {
	switch k {
	case KindUser:
		return "user"
	case KindAdmin:
		return "admin"
	default:
		return "unknown"
	}
}

// Principal is the authenticated caller of a request: either a stored user
// or the configuration-backed admin, which has no User row.
type Principal struct {
	Kind Kind
	User *models.User
}

func UserPrincipal(u *models.User) Principal {
	return Principal{Kind: KindUser, User: u}
}

func AdminPrincipal() Principal {
	return Principal{Kind: KindAdmin}
}

func (p Principal) IsAdmin() bool {
	return p.Kind == KindAdmin
}

// CanAdminister is true for the admin principal and for users flagged is_admin.
func (p Principal) CanAdminister() bool {
	if p.Kind == KindAdmin {
		return true
	}
	return p.Kind == KindUser && p.User != nil && p.User.IsAdmin
}

// Subject returns the token subject this principal was resolved from.
func (p Principal) Subject() string {
	if p.Kind == KindAdmin {
		return AdminSubject
	}
	if p.User != nil {
		return p.User.ID
	}
	return ""
}

// UserID returns the stored user's id, or nil for the admin principal. It is
// the value recorded in nullable owner/reviewer columns.
func (p Principal) UserID() *string {
	if p.Kind != KindUser || p.User == nil {
		return nil
	}
	id := p.User.ID
	return &id
}

// KindOf decides which principal a validated token names. The admin claim is
// honoured only together with the admin subject, and the admin subject only
// together with the claim.
func KindOf(c *Claims) (Kind, error) {
	switch {
	case c.Admin && c.Subject == AdminSubject:
		return KindAdmin, nil
	case c.Admin:
		return 0, fmt.Errorf("%w: admin claim on subject %q", ErrInvalidToken, c.Subject)
	case c.Subject == AdminSubject:
		return 0, fmt.Errorf("%w: admin subject without admin claim", ErrInvalidToken)
	default:
		return KindUser, nil
	}
}
