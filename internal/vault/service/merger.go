package service

import (
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

// UpdateMerger builds the sparse storage patch for a partial credential
// update. Only attributes already present on the stored record are accepted,
// so a patch cannot introduce fields outside the record's shape.
type UpdateMerger struct {
	cipher *FieldCipher
}

// NewUpdateMerger creates a merger backed by the given field cipher.
func NewUpdateMerger(cipher *FieldCipher) *UpdateMerger {
	return &UpdateMerger{cipher: cipher}
}

// Merge returns the set of attributes to overwrite on the stored record.
// Empty patch values are skipped, names absent from existing are dropped,
// and sensitive attributes are re-encrypted with a fresh nonce. An empty
// patch yields an empty map.
func (m *UpdateMerger) Merge(
	variant vaultDomain.Variant,
	patch map[string]string,
	existing map[string]string,
	key []byte,
) (map[string]string, error) {
	if !variant.Valid() {
		return nil, vaultDomain.ErrUnknownVariant
	}

	out := make(map[string]string, len(patch))
	for name, value := range patch {
		if value == "" {
			continue
		}
		if _, ok := existing[name]; !ok {
			continue
		}
		if variant.IsSensitive(name) {
			encrypted, err := m.cipher.Encrypt(value, key)
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
