package http

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/voltpass/volt/internal/auth/domain"
	authUseCase "github.com/voltpass/volt/internal/auth/usecase"
)

// MockUserUseCase is a mock implementation of authUseCase.UserUseCase
type MockUserUseCase struct {
	mock.Mock
}

func (m *MockUserUseCase) Register(ctx context.Context, input authUseCase.RegisterInput) (*domain.User, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) Login(
	ctx context.Context,
	input authUseCase.LoginInput,
) (*domain.User, *authUseCase.SessionTokens, error) {
	args := m.Called(ctx, input)
	var user *domain.User
	var tokens *authUseCase.SessionTokens
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.User)
	}
	if args.Get(1) != nil {
		tokens = args.Get(1).(*authUseCase.SessionTokens)
	}
	return user, tokens, args.Error(2)
}

func (m *MockUserUseCase) Refresh(ctx context.Context, refreshToken string) (*authUseCase.SessionTokens, error) {
	args := m.Called(ctx, refreshToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*authUseCase.SessionTokens), args.Error(1)
}

func (m *MockUserUseCase) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) UpdateUser(
	ctx context.Context,
	id uuid.UUID,
	input authUseCase.UpdateUserInput,
) (*domain.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserUseCase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRecoveryUseCase is a mock implementation of authUseCase.RecoveryUseCase
type MockRecoveryUseCase struct {
	mock.Mock
}

func (m *MockRecoveryUseCase) RequestRecovery(ctx context.Context, email string) error {
	args := m.Called(ctx, email)
	return args.Error(0)
}

func (m *MockRecoveryUseCase) VerifyToken(ctx context.Context, plainToken string) (string, error) {
	args := m.Called(ctx, plainToken)
	return args.String(0), args.Error(1)
}

func (m *MockRecoveryUseCase) ResetPassword(
	ctx context.Context,
	plainToken string,
	email string,
	newPassword string,
) error {
	args := m.Called(ctx, plainToken, email, newPassword)
	return args.Error(0)
}
