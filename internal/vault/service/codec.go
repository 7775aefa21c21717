package service

import (
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

// CredentialCodec applies the variant table to a credential's fields: the
// sensitive set is passed through the field cipher on write and read, plain
// attributes are untouched. One generic codec replaces the per-variant
// encrypt/decrypt function pairs of earlier iterations of this service.
type CredentialCodec struct {
	cipher *FieldCipher
}

// NewCredentialCodec creates a codec backed by the given field cipher.
func NewCredentialCodec(cipher *FieldCipher) *CredentialCodec {
	return &CredentialCodec{cipher: cipher}
}

// Encode returns a copy of fields with every present, non-empty sensitive
// attribute replaced by its ciphertext. Plain attributes and absent optional
// attributes pass through unchanged. An unknown variant is a configuration
// error.
func (c *CredentialCodec) Encode(
	variant vaultDomain.Variant,
	fields map[string]string,
	key []byte,
) (map[string]string, error) {
	if !variant.Valid() {
		return nil, vaultDomain.ErrUnknownVariant
	}

	out := make(map[string]string, len(fields))
	for name, value := range fields {
		if variant.IsSensitive(name) && value != "" {
			encrypted, err := c.cipher.Encrypt(value, key)
			if err != nil {
				return nil, err
			}
			out[name] = encrypted
			continue
		}
		out[name] = value
	}

	return out, nil
}

// Decode is the inverse of Encode. A failure to decrypt any sensitive
// attribute propagates ErrDecryptionFailed.
func (c *CredentialCodec) Decode(
	variant vaultDomain.Variant,
	fields map[string]string,
	key []byte,
) (map[string]string, error) {
	if !variant.Valid() {
		return nil, vaultDomain.ErrUnknownVariant
	}

	out := make(map[string]string, len(fields))
	for name, value := range fields {
		if variant.IsSensitive(name) && value != "" {
			decrypted, err := c.cipher.Decrypt(value, key)
			if err != nil {
				return nil, err
			}
			out[name] = decrypted
			continue
		}
		out[name] = value
	}

	return out, nil
}
