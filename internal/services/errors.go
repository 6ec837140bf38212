package services

import (
	"errors"
	"fmt"

	"github.com/morocclubs/clubs-api/internal/database"
)

var (
	ErrInvalidCredentials = errors.New("incorrect email or password")
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	// ErrUserPrincipalRequired is returned when the admin pseudo-principal
	// attempts an action that needs a stored user (joining, reviewing, ...).
	ErrUserPrincipalRequired = errors.New("this action requires a user account")

	ErrClubNotFound  = errors.New("club not found")
	ErrAlreadyMember = errors.New("already a member of this club")
	ErrNotMember     = errors.New("not a member of this club")

	ErrEventNotFound       = errors.New("event not found")
	ErrEventClosed         = errors.New("event is not open for registration")
	ErrEventFull           = errors.New("event is full")
	ErrAlreadyRegistered   = errors.New("already registered for this event")
	ErrNotRegistered       = errors.New("not registered for this event")
	ErrCapacityBelowSignup = errors.New("max_participants cannot be below current participants")

	ErrApplicationNotFound = errors.New("application not found")
	ErrInvalidTransition   = errors.New("application status change not allowed")

	ErrSectionNotFound    = errors.New("landing section not found")
	ErrSectionKeyTaken    = errors.New("landing section key already exists")
	ErrArticleNotFound    = errors.New("article not found")
	ErrJoinConfigNotFound = errors.New("join configuration not found")
)

// dbError wraps a persistence failure with the operation name after
// classifying it as not-found, integrity or transient.
func dbError(op string, err error) error {
	return fmt.Errorf("%s: %w", op, database.Classify(err))
}

func clampPage(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset
}
