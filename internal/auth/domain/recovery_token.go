package domain

import (
	"time"

	"github.com/google/uuid"

	apperrors "github.com/voltpass/volt/internal/errors"
)

// RecoveryToken is a single-use, time-bounded password reset grant. Only the
// SHA-256 hash of the token travels to storage; the plain token exists in the
// recovery e-mail and nowhere else.
type RecoveryToken struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash string
	ExpiresAt time.Time
	UsedAt    *time.Time
	CreatedAt time.Time
}

// Used reports whether the token has already been consumed.
func (t *RecoveryToken) Used() bool {
	return t.UsedAt != nil
}

// Expired reports whether the token's validity window has passed.
func (t *RecoveryToken) Expired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

// Recovery token errors map to distinct HTTP statuses: an unknown token is a
// 404, a consumed token a 409, an expired token a 401.
var (
	// ErrRecoveryTokenNotFound indicates no stored token matches the hash.
	ErrRecoveryTokenNotFound = apperrors.Wrap(apperrors.ErrNotFound, "recovery token not found")

	// ErrRecoveryTokenUsed indicates the token was already consumed.
	ErrRecoveryTokenUsed = apperrors.Wrap(apperrors.ErrConflict, "recovery token already used")

	// ErrRecoveryTokenExpired indicates the token's validity window has passed.
	ErrRecoveryTokenExpired = apperrors.Wrap(apperrors.ErrTokenExpired, "recovery token expired")
)
