// Package usecase implements the account business logic: registration, login,
// session refresh, profile management and password recovery.
package usecase

import (
	"context"

	"github.com/google/uuid"

	"github.com/voltpass/volt/internal/auth/domain"
	outboxDomain "github.com/voltpass/volt/internal/outbox/domain"
)

// UserRepository defines user repository operations
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// RecoveryTokenRepository defines recovery token repository operations
type RecoveryTokenRepository interface {
	Create(ctx context.Context, token *domain.RecoveryToken) error
	GetByHashForUpdate(ctx context.Context, tokenHash string) (*domain.RecoveryToken, error)
	MarkUsed(ctx context.Context, id uuid.UUID) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// OutboxEventRepository defines outbox event repository operations
type OutboxEventRepository interface {
	Create(ctx context.Context, event *outboxDomain.OutboxEvent) error
	GetPendingEvents(ctx context.Context, limit int) ([]*outboxDomain.OutboxEvent, error)
	Update(ctx context.Context, event *outboxDomain.OutboxEvent) error
}

// SessionTokens carries the token pair issued on login and refresh.
type SessionTokens struct {
	AccessToken  string
	RefreshToken string
}

// UserUseCase defines the interface for account business logic operations
type UserUseCase interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Login(ctx context.Context, input LoginInput) (*domain.User, *SessionTokens, error)
	Refresh(ctx context.Context, refreshToken string) (*SessionTokens, error)
	GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error)
	UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error)
	DeleteUser(ctx context.Context, id uuid.UUID) error
}

// RecoveryUseCase defines the interface for password recovery operations
type RecoveryUseCase interface {
	// RequestRecovery creates a recovery token and queues the reset e-mail.
	RequestRecovery(ctx context.Context, email string) error

	// VerifyToken atomically checks and consumes a recovery token, returning
	// the plain token on success.
	VerifyToken(ctx context.Context, plainToken string) (string, error)

	// ResetPassword consumes a recovery token issued for the given e-mail and
	// replaces the account password.
	ResetPassword(ctx context.Context, plainToken string, email string, newPassword string) error
}
