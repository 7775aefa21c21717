package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// KeySize is the field encryption key length in bytes.
const KeySize = 32

// GenerateSecretKey creates a new 32-byte random field encryption key and
// returns it as a 64-character lowercase hex string, the form stored on the
// user row. It is generated exactly once at registration and never rotated.
func GenerateSecretKey() (string, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return "", fmt.Errorf("failed to generate secret key: %w", err)
	}
	return hex.EncodeToString(key), nil
}

// DecodeSecretKey decodes the stored hex form of a secret key into raw bytes.
func DecodeSecretKey(encoded string) ([]byte, error) {
	key, err := hex.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("failed to decode secret key: %w", err)
	}
	if len(key) != KeySize {
		return nil, ErrInvalidKeySize
	}
	return key, nil
}

// Zero overwrites a byte slice with zeros. Used to scrub decrypted key
// material from memory after use.
func Zero(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
