package service

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"

	apperrors "github.com/voltpass/volt/internal/errors"
)

// recoveryTokenService implements RecoveryTokenService using SHA-256 for token hashing.
type recoveryTokenService struct{}

// GenerateToken creates a new cryptographically secure 32-byte random token.
// The token is base64 URL-encoded so it survives a reset link unescaped.
// Returns the plain token and its SHA-256 hash.
func (t *recoveryTokenService) GenerateToken() (plainToken string, tokenHash string, err error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", "", apperrors.Wrap(err, "failed to generate random token")
	}

	plainToken = base64.URLEncoding.EncodeToString(randomBytes)
	tokenHash = t.HashToken(plainToken)

	return plainToken, tokenHash, nil
}

// HashToken hashes a plain text token using SHA-256.
// Returns the hash as a hexadecimal string.
func (t *recoveryTokenService) HashToken(plainToken string) string {
	hash := sha256.Sum256([]byte(plainToken))
	return hex.EncodeToString(hash[:])
}

// NewRecoveryTokenService creates a new RecoveryTokenService instance.
func NewRecoveryTokenService() RecoveryTokenService {
	return &recoveryTokenService{}
}
