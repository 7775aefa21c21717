package usecase

import (
	"context"
	"encoding/json"
	"strings"

	validation "github.com/jellydator/validation"

	"github.com/google/uuid"

	authService "github.com/voltpass/volt/internal/auth/service"
	"github.com/voltpass/volt/internal/database"
	apperrors "github.com/voltpass/volt/internal/errors"
	outboxDomain "github.com/voltpass/volt/internal/outbox/domain"
	appValidation "github.com/voltpass/volt/internal/validation"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"

	"github.com/voltpass/volt/internal/auth/domain"
)

// RegisterInput contains the input data for account registration
type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginInput contains the input data for login
type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UpdateUserInput contains the input data for profile updates. Empty fields
// are left unchanged.
type UpdateUserInput struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// userUseCase handles account business logic
type userUseCase struct {
	txManager       database.TxManager
	userRepo        UserRepository
	outboxRepo      OutboxEventRepository
	passwordService authService.PasswordService
	jwtService      authService.JWTService
}

// NewUserUseCase creates a new UserUseCase
func NewUserUseCase(
	txManager database.TxManager,
	userRepo UserRepository,
	outboxRepo OutboxEventRepository,
	passwordService authService.PasswordService,
	jwtService authService.JWTService,
) UserUseCase {
	return &userUseCase{
		txManager:       txManager,
		userRepo:        userRepo,
		outboxRepo:      outboxRepo,
		passwordService: passwordService,
		jwtService:      jwtService,
	}
}

func (uc *userUseCase) validateRegisterInput(input RegisterInput) error {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Required.Error("name is required"),
			appValidation.NotBlank,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.Required.Error("email is required"),
			appValidation.Email,
		),
		validation.Field(&input.Password,
			validation.Required.Error("password is required"),
			appValidation.PasswordStrength{MinLength: 8},
		),
	)
	return appValidation.WrapValidationError(err)
}

// Register creates a new account. The user's field encryption key is
// generated here, exactly once; every credential the user ever stores is
// encrypted under it.
func (uc *userUseCase) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	if err := uc.validateRegisterInput(input); err != nil {
		return nil, err
	}

	hashedPassword, err := uc.passwordService.HashPassword(input.Password)
	if err != nil {
		return nil, err
	}

	secretKey, err := vaultDomain.GenerateSecretKey()
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		ID:        uuid.Must(uuid.NewV7()),
		Name:      strings.TrimSpace(input.Name),
		Email:     strings.TrimSpace(strings.ToLower(input.Email)),
		Password:  hashedPassword,
		SecretKey: secretKey,
	}

	err = uc.txManager.WithTx(ctx, func(ctx context.Context) error {
		if err := uc.userRepo.Create(ctx, user); err != nil {
			return err
		}

		eventPayload := map[string]interface{}{
			"user_id": user.ID,
			"name":    user.Name,
			"email":   user.Email,
		}
		payloadJSON, err := json.Marshal(eventPayload)
		if err != nil {
			return apperrors.Wrap(err, "failed to marshal event payload")
		}

		outboxEvent := &outboxDomain.OutboxEvent{
			ID:        uuid.Must(uuid.NewV7()),
			EventType: outboxDomain.EventTypeUserRegistered,
			Payload:   string(payloadJSON),
			Status:    outboxDomain.OutboxEventStatusPending,
		}

		if err := uc.outboxRepo.Create(ctx, outboxEvent); err != nil {
			return apperrors.Wrap(err, "failed to create outbox event")
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates an account and issues a session token pair. The same
// error covers an unknown email and a wrong password.
func (uc *userUseCase) Login(ctx context.Context, input LoginInput) (*domain.User, *SessionTokens, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	user, err := uc.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, nil, domain.ErrInvalidCredentials
		}
		return nil, nil, err
	}

	if !uc.passwordService.ComparePassword(input.Password, user.Password) {
		return nil, nil, domain.ErrInvalidCredentials
	}

	tokens, err := uc.issueTokens(user.ID)
	if err != nil {
		return nil, nil, err
	}

	return user, tokens, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (uc *userUseCase) Refresh(ctx context.Context, refreshToken string) (*SessionTokens, error) {
	userID, err := uc.jwtService.Verify(authService.RefreshToken, refreshToken)
	if err != nil {
		return nil, err
	}

	// The account may have been deleted since the token was issued.
	if _, err := uc.userRepo.GetByID(ctx, userID); err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.Wrap(apperrors.ErrUnauthorized, "account no longer exists")
		}
		return nil, err
	}

	return uc.issueTokens(userID)
}

// GetUser retrieves an account by ID.
func (uc *userUseCase) GetUser(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return uc.userRepo.GetByID(ctx, id)
}

// UpdateUser applies profile changes. Empty input fields are left unchanged.
func (uc *userUseCase) UpdateUser(ctx context.Context, id uuid.UUID, input UpdateUserInput) (*domain.User, error) {
	err := validation.ValidateStruct(&input,
		validation.Field(&input.Name,
			validation.Length(1, 255).Error("name must be between 1 and 255 characters"),
		),
		validation.Field(&input.Email,
			validation.When(input.Email != "", appValidation.Email),
		),
	)
	if err != nil {
		return nil, appValidation.WrapValidationError(err)
	}

	user, err := uc.userRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		user.Name = name
	}
	if email := strings.TrimSpace(strings.ToLower(input.Email)); email != "" {
		user.Email = email
	}

	if err := uc.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// DeleteUser removes an account and, through database cascades, every
// credential and recovery token it owns.
func (uc *userUseCase) DeleteUser(ctx context.Context, id uuid.UUID) error {
	return uc.userRepo.Delete(ctx, id)
}

func (uc *userUseCase) issueTokens(userID uuid.UUID) (*SessionTokens, error) {
	accessToken, err := uc.jwtService.Issue(authService.AccessToken, userID)
	if err != nil {
		return nil, err
	}

	refreshToken, err := uc.jwtService.Issue(authService.RefreshToken, userID)
	if err != nil {
		return nil, err
	}

	return &SessionTokens{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
