// Package domain defines the core domain models for the credential vault.
// A credential is a variant-typed bag of named attributes owned by a single
// user; each variant declares which attributes are sensitive (ciphertext at
// rest) and which are stored verbatim.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Variant identifies the shape of a credential record.
type Variant string

const (
	// VariantAddress is a postal address record.
	VariantAddress Variant = "address"
	// VariantLogin is a service login (username/password) record.
	VariantLogin Variant = "login"
	// VariantPayment is a payment card record.
	VariantPayment Variant = "payment"
	// VariantSecret is the generic secret record that unified the older
	// per-resource variants.
	VariantSecret Variant = "secret"
)

// fieldLayout partitions a variant's attributes into sensitive and plain sets.
type fieldLayout struct {
	sensitive []string
	plain     []string
}

// variantTable is the single declarative mapping consumed by the codec and
// the merger. Adding a variant here is the only change needed to support a
// new record shape.
var variantTable = map[Variant]fieldLayout{
	VariantAddress: {
		sensitive: []string{"city", "street", "zip_code"},
		plain:     []string{"label", "state", "town"},
	},
	VariantLogin: {
		sensitive: []string{"service_user_id", "password"},
		plain:     []string{"service", "notes"},
	},
	VariantPayment: {
		sensitive: []string{"card_number", "card_expiry", "security_code"},
		plain:     []string{"card_holder", "card_type", "notes"},
	},
	VariantSecret: {
		sensitive: []string{"service_user_id", "password"},
		plain:     []string{"service", "notes"},
	},
}

// Variants returns all known credential variants.
func Variants() []Variant {
	return []Variant{VariantAddress, VariantLogin, VariantPayment, VariantSecret}
}

// Valid reports whether the variant is known.
func (v Variant) Valid() bool {
	_, ok := variantTable[v]
	return ok
}

// SensitiveFields returns the ordered set of attribute names encrypted at rest.
func (v Variant) SensitiveFields() []string {
	return variantTable[v].sensitive
}

// PlainFields returns the attribute names stored verbatim.
func (v Variant) PlainFields() []string {
	return variantTable[v].plain
}

// IsSensitive reports whether the named attribute is encrypted at rest for
// this variant. Unknown attribute names are not sensitive.
func (v Variant) IsSensitive(name string) bool {
	for _, f := range variantTable[v].sensitive {
		if f == name {
			return true
		}
	}
	return false
}

// KnownField reports whether the named attribute belongs to this variant.
func (v Variant) KnownField(name string) bool {
	if v.IsSensitive(name) {
		return true
	}
	for _, f := range variantTable[v].plain {
		if f == name {
			return true
		}
	}
	return false
}

// Credential represents a user-owned record with field-level encryption.
// Fields maps attribute name to value; sensitive attributes hold
// base64(nonce||ciphertext) at rest and plaintext after decoding.
type Credential struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	Variant   Variant
	Fields    map[string]string
	CreatedAt time.Time
	UpdatedAt time.Time
}
