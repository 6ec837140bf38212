package auth

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrEmptyPassword   = errors.New("password cannot be empty")
	ErrPasswordTooLong = errors.New("password must be at most 72 bytes")
)

// PasswordVerifier hashes new passwords and checks plaintext against a stored hash.
type PasswordVerifier interface {
	Hash(plain string) (string, error)
	Verify(hash, plain string) bool
}

// BcryptVerifier is a PasswordVerifier backed by bcrypt. The salt and cost
// are embedded in each hash, so hashes made at an older cost still verify.
type BcryptVerifier struct {
	Cost int
}

func NewBcryptVerifier(cost int) *BcryptVerifier {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptVerifier{Cost: cost}
}

func (b *BcryptVerifier) Hash(plain string) (string, error) {
	if plain == "" {
		return "", ErrEmptyPassword
	}
	// bcrypt ignores everything past 72 bytes; refuse rather than truncate.
	if len(plain) > 72 {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), b.Cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(hash), nil
}

// Verify returns false for a mismatch and for any stored value that is not a
// usable bcrypt hash.
func (b *BcryptVerifier) Verify(hash, plain string) bool {
	if hash == "" || plain == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
