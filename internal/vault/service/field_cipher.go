package service

import (
	"encoding/base64"

	apperrors "github.com/voltpass/volt/internal/errors"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

// FieldCipher encrypts and decrypts a single string attribute value under a
// caller-supplied key. Ciphertext is serialized as base64(nonce || sealed),
// so the randomness travels with the value and two encryptions of identical
// plaintext never collide.
//
// FieldCipher is a pure function over its inputs and safe for concurrent use.
type FieldCipher struct {
	manager   AEADManager
	algorithm vaultDomain.Algorithm
}

// NewFieldCipher creates a FieldCipher using the given AEAD algorithm.
func NewFieldCipher(manager AEADManager, algorithm vaultDomain.Algorithm) *FieldCipher {
	return &FieldCipher{manager: manager, algorithm: algorithm}
}

// Encrypt seals a single attribute value under key. An empty value is a
// validation error: absent attributes are skipped by the codec, never
// encrypted as empty strings.
func (f *FieldCipher) Encrypt(value string, key []byte) (string, error) {
	if value == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "no data to encrypt")
	}

	cipher, err := f.manager.CreateCipher(key, f.algorithm)
	if err != nil {
		return "", err
	}

	ciphertext, nonce, err := cipher.Encrypt([]byte(value), nil)
	if err != nil {
		return "", apperrors.Wrap(err, "failed to encrypt field")
	}

	buf := make([]byte, 0, len(nonce)+len(ciphertext))
	buf = append(buf, nonce...)
	buf = append(buf, ciphertext...)
	return base64.StdEncoding.EncodeToString(buf), nil
}

// Decrypt opens a value produced by Encrypt. Any failure mode of the stored
// form (bad encoding, truncated buffer, failed authentication) and a
// decryption that yields an empty string all report ErrDecryptionFailed:
// an empty result means the key did not match, never a valid empty value.
func (f *FieldCipher) Decrypt(encoded string, key []byte) (string, error) {
	if encoded == "" {
		return "", apperrors.Wrap(apperrors.ErrInvalidInput, "no data to decrypt")
	}

	cipher, err := f.manager.CreateCipher(key, f.algorithm)
	if err != nil {
		return "", err
	}

	raw, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", vaultDomain.ErrDecryptionFailed
	}

	const nonceSize = 12
	if len(raw) <= nonceSize {
		return "", vaultDomain.ErrDecryptionFailed
	}

	plaintext, err := cipher.Decrypt(raw[nonceSize:], raw[:nonceSize], nil)
	if err != nil {
		return "", vaultDomain.ErrDecryptionFailed
	}
	if len(plaintext) == 0 {
		return "", vaultDomain.ErrDecryptionFailed
	}

	return string(plaintext), nil
}
