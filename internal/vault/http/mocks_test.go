package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
	vaultUseCase "github.com/voltpass/volt/internal/vault/usecase"
)

// MockCredentialUseCase is a mock implementation of vaultUseCase.CredentialUseCase
type MockCredentialUseCase struct {
	mock.Mock
}

func (m *MockCredentialUseCase) Create(
	ctx context.Context,
	userID uuid.UUID,
	input vaultUseCase.CreateCredentialInput,
) (*vaultDomain.Credential, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialUseCase) Get(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
) (*vaultDomain.Credential, error) {
	args := m.Called(ctx, userID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	variant vaultDomain.Variant,
) ([]*vaultDomain.Credential, error) {
	args := m.Called(ctx, userID, variant)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialUseCase) Update(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
	input vaultUseCase.UpdateCredentialInput,
) (*vaultDomain.Credential, error) {
	args := m.Called(ctx, userID, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*vaultDomain.Credential), args.Error(1)
}

func (m *MockCredentialUseCase) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, userID, id)
	return args.Error(0)
}

func (m *MockCredentialUseCase) DeleteBulk(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
) (int64, error) {
	args := m.Called(ctx, userID, ids)
	return args.Get(0).(int64), args.Error(1)
}
