package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/voltpass/volt/internal/auth/domain"
	"github.com/voltpass/volt/internal/metrics"
)

// userUseCaseWithMetrics decorates UserUseCase with metrics instrumentation
// under the "auth" domain.
type userUseCaseWithMetrics struct {
	next    UserUseCase
	metrics metrics.BusinessMetrics
}

// NewUserUseCaseWithMetrics wraps a UserUseCase with metrics recording.
func NewUserUseCaseWithMetrics(useCase UserUseCase, m metrics.BusinessMetrics) UserUseCase {
	return &userUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func recordAuthOperation(
	ctx context.Context,
	m metrics.BusinessMetrics,
	domain, operation string,
	start time.Time,
	err error,
) {
	status := "success"
	if err != nil {
		status = "error"
	}

	m.RecordOperation(ctx, domain, operation, status)
	m.RecordDuration(ctx, domain, operation, time.Since(start), status)
}

func (d *userUseCaseWithMetrics) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	start := time.Now()
	user, err := d.next.Register(ctx, input)
	recordAuthOperation(ctx, d.metrics, "auth", "register", start, err)
	return user, err
}

func (d *userUseCaseWithMetrics) Login(
	ctx context.Context,
	input LoginInput,
) (*domain.User, *SessionTokens, error) {
	start := time.Now()
	user, tokens, err := d.next.Login(ctx, input)
	recordAuthOperation(ctx, d.metrics, "auth", "login", start, err)
	return user, tokens, err
}

func (d *userUseCaseWithMetrics) Refresh(ctx context.Context, refreshToken string) (*SessionTokens, error) {
	start := time.Now()
	tokens, err := d.next.Refresh(ctx, refreshToken)
	recordAuthOperation(ctx, d.metrics, "auth", "refresh", start, err)
	return tokens, err
}

func (d *userUseCaseWithMetrics) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	start := time.Now()
	user, err := d.next.GetUser(ctx, id)
	recordAuthOperation(ctx, d.metrics, "auth", "user_get", start, err)
	return user, err
}

func (d *userUseCaseWithMetrics) UpdateUser(
	ctx context.Context,
	id uuid.UUID,
	input UpdateUserInput,
) (*domain.User, error) {
	start := time.Now()
	user, err := d.next.UpdateUser(ctx, id, input)
	recordAuthOperation(ctx, d.metrics, "auth", "user_update", start, err)
	return user, err
}

func (d *userUseCaseWithMetrics) DeleteUser(ctx context.Context, id uuid.UUID) error {
	start := time.Now()
	err := d.next.DeleteUser(ctx, id)
	recordAuthOperation(ctx, d.metrics, "auth", "user_delete", start, err)
	return err
}

// recoveryUseCaseWithMetrics decorates RecoveryUseCase with metrics
// instrumentation under the "recovery" domain.
type recoveryUseCaseWithMetrics struct {
	next    RecoveryUseCase
	metrics metrics.BusinessMetrics
}

// NewRecoveryUseCaseWithMetrics wraps a RecoveryUseCase with metrics recording.
func NewRecoveryUseCaseWithMetrics(useCase RecoveryUseCase, m metrics.BusinessMetrics) RecoveryUseCase {
	return &recoveryUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (d *recoveryUseCaseWithMetrics) RequestRecovery(ctx context.Context, email string) error {
	start := time.Now()
	err := d.next.RequestRecovery(ctx, email)
	recordAuthOperation(ctx, d.metrics, "recovery", "request", start, err)
	return err
}

func (d *recoveryUseCaseWithMetrics) VerifyToken(ctx context.Context, plainToken string) (string, error) {
	start := time.Now()
	token, err := d.next.VerifyToken(ctx, plainToken)
	recordAuthOperation(ctx, d.metrics, "recovery", "verify_token", start, err)
	return token, err
}

func (d *recoveryUseCaseWithMetrics) ResetPassword(
	ctx context.Context,
	plainToken string,
	email string,
	newPassword string,
) error {
	start := time.Now()
	err := d.next.ResetPassword(ctx, plainToken, email, newPassword)
	recordAuthOperation(ctx, d.metrics, "recovery", "reset_password", start, err)
	return err
}
