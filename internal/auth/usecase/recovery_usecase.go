package usecase

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/voltpass/volt/internal/auth/domain"
	authService "github.com/voltpass/volt/internal/auth/service"
	"github.com/voltpass/volt/internal/database"
	apperrors "github.com/voltpass/volt/internal/errors"
	"github.com/voltpass/volt/internal/mailer"
	outboxDomain "github.com/voltpass/volt/internal/outbox/domain"
	appValidation "github.com/voltpass/volt/internal/validation"
)

// recoveryUseCase handles password recovery business logic
type recoveryUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	tokenRepo       RecoveryTokenRepository
	outboxRepo      OutboxEventRepository
	tokenService    authService.RecoveryTokenService
	passwordService authService.PasswordService
	tokenExpiration time.Duration
}

// NewRecoveryUseCase creates a new RecoveryUseCase
func NewRecoveryUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	tokenRepo RecoveryTokenRepository,
	outboxRepo OutboxEventRepository,
	tokenService authService.RecoveryTokenService,
	passwordService authService.PasswordService,
	tokenExpiration time.Duration,
) RecoveryUseCase {
	return &recoveryUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		tokenRepo:       tokenRepo,
		outboxRepo:      outboxRepo,
		tokenService:    tokenService,
		passwordService: passwordService,
		tokenExpiration: tokenExpiration,
	}
}

// RequestRecovery creates a recovery token for the account and records the
// reset e-mail as an outbox event in the same transaction.
func (uc *recoveryUseCase) RequestRecovery(ctx context.Context, email string) error {
	email = strings.TrimSpace(strings.ToLower(email))

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return err
	}

	plainToken, tokenHash, err := uc.tokenService.GenerateToken()
	if err != nil {
		return err
	}

	token := &domain.RecoveryToken{
		ID:        uuid.Must(uuid.NewV7()),
		UserID:    user.ID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(uc.tokenExpiration),
	}

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.tokenRepo.Create(ctx, token); err != nil {
			return err
		}

		payload := mailer.RecoveryRequestedPayload{
			UserID: user.ID.String(),
			Name:   user.Name,
			Email:  user.Email,
			Token:  plainToken,
		}
		payloadJSON, err := json.Marshal(payload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal event payload")
		}

		outboxEvent := &outboxDomain.OutboxEvent{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: outboxDomain.EventTypeRecoveryRequested,
			Payload:   string(payloadJSON),
			Status:    outboxDomain.OutboxEventStatusPending,
		}

		if err := uc.outboxRepo.Create(ctx, outboxEvent); err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}

		return nil
	})
}

// VerifyToken atomically checks and consumes a recovery token. The row lock
// taken inside the transaction serializes concurrent verifications, so
// exactly one caller wins.
func (uc *recoveryUseCase) VerifyToken(ctx context.Context, plainToken string) (string, error) {
	_, err := uc.consumeToken(ctx, plainToken)
	if err != nil {
		return "", err
	}
	return plainToken, nil
}

// ResetPassword consumes a recovery token and replaces the account password.
// The token must have been issued for the given e-mail. The consume and the
// password write commit together; a failure on either side rolls back both.
func (uc *recoveryUseCase) ResetPassword(ctx context.Context, plainToken string, email string, newPassword string) error {
	if err := (appValidation.PasswordStrength{MinLength: 8}).Validate(newPassword); err != nil {
		return appValidation.WrapValidationError(err)
	}

	hashedPassword, err := uc.passwordService.HashPassword(newPassword)
	if err != nil {
		return err
	}

	email = strings.TrimSpace(strings.ToLower(email))

	return uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		token, err := uc.lockAndValidateToken(ctx, plainToken)
		if err != nil {
			return err
		}

		user, err := uc.userRepo.GetByID(ctx, token.UserID)
		if err != nil {
			return err
		}
		if user.Email != email {
			return apperrors.Wrap(apperrors.ErrUnauthorized, "recovery token was not issued for this email")
		}

		if err := uc.tokenRepo.MarkUsed(ctx, token.ID); err != nil {
			return err
		}

		user.Password = hashedPassword
		return uc.userRepo.Update(ctx, user)
	})
}

// consumeToken runs the atomic check-and-consume inside its own transaction.
func (uc *recoveryUseCase) consumeToken(ctx context.Context, plainToken string) (*domain.RecoveryToken, error) {
	var token *domain.RecoveryToken

	err := uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		var err error
		token, err = uc.lockAndValidateToken(ctx, plainToken)
		if err != nil {
			return err
		}
		return uc.tokenRepo.MarkUsed(ctx, token.ID)
	})
	if err != nil {
		return nil, err
	}

	return token, nil
}

// lockAndValidateToken fetches the token under a row lock and checks its
// state. The used check comes before the expiry check: a consumed token
// reports conflict even after it expires.
func (uc *recoveryUseCase) lockAndValidateToken(
	ctx context.Context,
	plainToken string,
) (*domain.RecoveryToken, error) {
	tokenHash := uc.tokenService.HashToken(plainToken)

	token, err := uc.tokenRepo.GetByHashForUpdate(ctx, tokenHash)
	if err != nil {
		return nil, err
	}

	if token.Used() {
		return nil, domain.ErrRecoveryTokenUsed
	}
	if token.Expired(time.Now()) {
		return nil, domain.ErrRecoveryTokenExpired
	}

	return token, nil
}
