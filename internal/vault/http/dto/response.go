package dto

import (
	"time"

	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

// CredentialResponse represents a credential in API responses. Fields hold
// plaintext values; sensitive attributes are decrypted before mapping.
type CredentialResponse struct {
	ID        string            `json:"id"`
	Variant   string            `json:"variant"`
	Fields    map[string]string `json:"fields"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// MapCredentialToResponse converts a domain credential to an API response.
func MapCredentialToResponse(credential *vaultDomain.Credential) CredentialResponse {
	return CredentialResponse{
		ID:        credential.ID.String(),
		Variant:   string(credential.Variant),
		Fields:    credential.Fields,
		CreatedAt: credential.CreatedAt,
		UpdatedAt: credential.UpdatedAt,
	}
}

// ListCredentialsResponse represents a page of credentials in API responses.
type ListCredentialsResponse struct {
	Credentials []CredentialResponse `json:"credentials"`
}

// MapCredentialsToListResponse converts domain credentials to a list response.
func MapCredentialsToListResponse(credentials []*vaultDomain.Credential) ListCredentialsResponse {
	response := ListCredentialsResponse{
		Credentials: make([]CredentialResponse, 0, len(credentials)),
	}
	for _, credential := range credentials {
		response.Credentials = append(response.Credentials, MapCredentialToResponse(credential))
	}
	return response
}

// DeleteBulkResponse reports how many credentials a bulk delete removed.
type DeleteBulkResponse struct {
	Deleted int64 `json:"deleted"`
}
