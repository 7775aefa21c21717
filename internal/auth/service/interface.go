// Package service provides authentication-related services: Argon2id password
// hashing, JWT session tokens and recovery token generation.
package service

import (
	"time"

	"github.com/google/uuid"
)

// PasswordService defines password hashing operations.
type PasswordService interface {
	// HashPassword hashes a plain text password using Argon2id.
	HashPassword(plainPassword string) (string, error)

	// ComparePassword performs a constant-time comparison between a plain
	// password and its hash.
	ComparePassword(plainPassword string, hashedPassword string) bool
}

// TokenKind distinguishes the two JWT flavors issued by the session layer.
type TokenKind string

const (
	// AccessToken is the short-lived token carried on API requests.
	AccessToken TokenKind = "access"
	// RefreshToken is the long-lived token exchanged for new access tokens.
	RefreshToken TokenKind = "refresh"
)

// JWTService defines session token operations. Access and refresh tokens are
// signed with distinct secrets so one kind can never stand in for the other.
type JWTService interface {
	// Issue creates a signed token of the given kind for the user.
	Issue(kind TokenKind, userID uuid.UUID) (string, error)

	// Verify validates a token of the given kind and returns the user ID it
	// was issued for. Returns ErrTokenExpired for expired tokens and
	// ErrUnauthorized for every other defect.
	Verify(kind TokenKind, tokenString string) (uuid.UUID, error)

	// TTL returns the validity duration for the given token kind.
	TTL(kind TokenKind) time.Duration
}

// RecoveryTokenService defines recovery token generation and hashing.
type RecoveryTokenService interface {
	// GenerateToken creates a new cryptographically secure random token.
	// Returns the plain token and its SHA-256 hash.
	GenerateToken() (plainToken string, tokenHash string, err error)

	// HashToken hashes a plain text token using SHA-256.
	HashToken(plainToken string) string
}
