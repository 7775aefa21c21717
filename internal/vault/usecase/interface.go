// Package usecase implements the credential business logic: variant-aware
// create, read, partial update and delete, with field-level encryption under
// the owner's secret key and an ownership guard on every record access.
package usecase

import (
	"context"

	"github.com/google/uuid"

	authDomain "github.com/voltpass/volt/internal/auth/domain"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

// CredentialRepository defines credential repository operations
type CredentialRepository interface {
	Create(ctx context.Context, credential *vaultDomain.Credential) error
	GetByID(ctx context.Context, id uuid.UUID) (*vaultDomain.Credential, error)
	ListByUser(ctx context.Context, userID uuid.UUID, variant vaultDomain.Variant) ([]*vaultDomain.Credential, error)
	Update(ctx context.Context, credential *vaultDomain.Credential) error
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteBulk(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}

// UserRepository is the slice of the account repository the vault needs: it
// resolves the caller's secret key.
type UserRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*authDomain.User, error)
}

// CredentialUseCase defines the interface for credential business logic
// operations. Every operation is scoped to the calling user; records owned
// by other users are indistinguishable from missing ones.
type CredentialUseCase interface {
	Create(ctx context.Context, userID uuid.UUID, input CreateCredentialInput) (*vaultDomain.Credential, error)
	Get(ctx context.Context, userID uuid.UUID, id uuid.UUID) (*vaultDomain.Credential, error)
	List(ctx context.Context, userID uuid.UUID, variant vaultDomain.Variant) ([]*vaultDomain.Credential, error)
	Update(ctx context.Context, userID uuid.UUID, id uuid.UUID, input UpdateCredentialInput) (*vaultDomain.Credential, error)
	Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error
	DeleteBulk(ctx context.Context, userID uuid.UUID, ids []uuid.UUID) (int64, error)
}
