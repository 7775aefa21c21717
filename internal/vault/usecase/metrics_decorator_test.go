package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	apperrors "github.com/voltpass/volt/internal/errors"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

// MockBusinessMetrics is a mock implementation of metrics.BusinessMetrics
type MockBusinessMetrics struct {
	mock.Mock
}

func (m *MockBusinessMetrics) RecordOperation(ctx context.Context, domain, operation, status string) {
	m.Called(ctx, domain, operation, status)
}

func (m *MockBusinessMetrics) RecordDuration(
	ctx context.Context,
	domain, operation string,
	duration time.Duration,
	status string,
) {
	m.Called(ctx, domain, operation, duration, status)
}

// MockCredentialUseCase is a mock implementation of CredentialUseCase
type MockCredentialUseCase struct {
	mock.Mock
}

func (m *MockCredentialUseCase) Create(
	ctx context.Context,
	userID uuid.UUID,
	input CreateCredentialInput,
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
	input UpdateCredentialInput,
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

func TestCredentialUseCaseWithMetrics(t *testing.T) {
	ctx := context.Background()
	userID := uuid.Must(uuid.NewV7())

	t.Run("records success", func(t *testing.T) {
		next := new(MockCredentialUseCase)
		bm := new(MockBusinessMetrics)
		decorated := NewCredentialUseCaseWithMetrics(next, bm)

		credential := &vaultDomain.Credential{ID: uuid.Must(uuid.NewV7())}
		next.On("Get", mock.Anything, userID, credential.ID).Return(credential, nil)
		bm.On("RecordOperation", mock.Anything, "credentials", "credential_get", "success").Return()
		bm.On("RecordDuration", mock.Anything, "credentials", "credential_get", mock.Anything, "success").Return()

		got, err := decorated.Get(ctx, userID, credential.ID)
		assert.NoError(t, err)
		assert.Equal(t, credential, got)
		bm.AssertExpectations(t)
	})

	t.Run("records error status and propagates the error", func(t *testing.T) {
		next := new(MockCredentialUseCase)
		bm := new(MockBusinessMetrics)
		decorated := NewCredentialUseCaseWithMetrics(next, bm)

		id := uuid.Must(uuid.NewV7())
		next.On("Delete", mock.Anything, userID, id).Return(vaultDomain.ErrCredentialNotFound)
		bm.On("RecordOperation", mock.Anything, "credentials", "credential_delete", "error").Return()
		bm.On("RecordDuration", mock.Anything, "credentials", "credential_delete", mock.Anything, "error").Return()

		err := decorated.Delete(ctx, userID, id)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
		bm.AssertExpectations(t)
	})
}
