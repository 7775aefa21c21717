// Package domain defines the account and recovery domain models.
//
// Every user carries a 32-byte field encryption key generated at registration.
// The key encrypts the sensitive attributes of the user's credentials and is
// never rotated: rotating it would orphan every ciphertext written under it.
package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/voltpass/volt/internal/errors"
)

// User represents a registered account.
type User struct {
	ID       uuid.UUID
	Name     string
	Email    string
	Password string // Argon2id hash, never plaintext

	// SecretKey is the user's field encryption key stored as a 64-character
	// lowercase hex string. Generated once at registration.
	SecretKey string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Domain-specific errors for account operations.
var (
	// ErrUserNotFound indicates the requested user does not exist.
	ErrUserNotFound = apperrors.Wrap(apperrors.ErrNotFound, "user not found")

	// ErrUserAlreadyExists indicates a user with the same email already exists.
	ErrUserAlreadyExists = apperrors.Wrap(apperrors.ErrConflict, "user already exists")

	// ErrInvalidCredentials indicates a failed login. The same error covers an
	// unknown email and a wrong password so responses don't reveal which.
	ErrInvalidCredentials = apperrors.Wrap(apperrors.ErrUnauthorized, "invalid credentials")
)
