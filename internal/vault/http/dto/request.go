// Package dto provides data transfer objects for credential HTTP request and
// response handling.
package dto

import (
	validation "github.com/jellydator/validation"
)

// CreateCredentialRequest contains the parameters for storing a credential.
type CreateCredentialRequest struct {
	Variant string            `json:"variant"`
	Fields  map[string]string `json:"fields"`
}

// Validate checks if the create credential request is valid. Variant and
// attribute names are checked in depth by the use case.
func (r *CreateCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Variant, validation.Required),
		validation.Field(&r.Fields, validation.Required),
	)
}

// UpdateCredentialRequest contains the sparse attribute patch for a
// credential update.
type UpdateCredentialRequest struct {
	Fields map[string]string `json:"fields"`
}

// Validate rejects an empty patch: a request that updates nothing is a
// client error, not a no-op.
func (r *UpdateCredentialRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.Fields, validation.Required),
	)
}

// DeleteBulkRequest contains the IDs of the credentials to remove.
type DeleteBulkRequest struct {
	IDs []string `json:"ids"`
}

// Validate checks if the bulk delete request is valid.
func (r *DeleteBulkRequest) Validate() error {
	return validation.ValidateStruct(r,
		validation.Field(&r.IDs, validation.Required),
	)
}
