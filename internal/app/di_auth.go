package app

import (
	"fmt"

	authRepository "github.com/voltpass/volt/internal/auth/repository"
	authService "github.com/voltpass/volt/internal/auth/service"
	authUsecase "github.com/voltpass/volt/internal/auth/usecase"
	outboxRepository "github.com/voltpass/volt/internal/outbox/repository"
)

// PasswordService returns the Argon2id password hashing service.
func (c *Container) PasswordService() authService.PasswordService {
	c.passwordServiceInit.Do(func() {
		c.passwordService = authService.NewPasswordService()
	})
	return c.passwordService
}

// RecoveryTokenService returns the recovery token generation service.
func (c *Container) RecoveryTokenService() authService.RecoveryTokenService {
	c.recoveryTokenServiceInit.Do(func() {
		c.recoveryTokenService = authService.NewRecoveryTokenService()
	})
	return c.recoveryTokenService
}

// JWTService returns the session token service.
func (c *Container) JWTService() (authService.JWTService, error) {
	c.jwtServiceInit.Do(func() {
		service, err := authService.NewJWTService(
			c.config.JWTIssuer,
			c.config.JWTAccessSecret,
			c.config.JWTRefreshSecret,
			c.config.AccessTokenExpiration,
			c.config.RefreshTokenExpiration,
		)
		if err != nil {
			c.initErrors["jwtService"] = fmt.Errorf("failed to create jwt service: %w", err)
			return
		}
		c.jwtService = service
	})
	if storedErr, exists := c.initErrors["jwtService"]; exists {
		return nil, storedErr
	}
	return c.jwtService, nil
}

// UserRepository returns the user repository based on database driver.
func (c *Container) UserRepository() (authUsecase.UserRepository, error) {
	c.userRepoInit.Do(func() {
		repo, err := c.initUserRepository()
		if err != nil {
			c.initErrors["userRepo"] = err
			return
		}
		c.userRepo = repo
	})
	if storedErr, exists := c.initErrors["userRepo"]; exists {
		return nil, storedErr
	}
	return c.userRepo, nil
}

// RecoveryTokenRepository returns the recovery token repository based on
// database driver.
func (c *Container) RecoveryTokenRepository() (authUsecase.RecoveryTokenRepository, error) {
	c.recoveryTokenRepoInit.Do(func() {
		repo, err := c.initRecoveryTokenRepository()
		if err != nil {
			c.initErrors["recoveryTokenRepo"] = err
			return
		}
		c.recoveryTokenRepo = repo
	})
	if storedErr, exists := c.initErrors["recoveryTokenRepo"]; exists {
		return nil, storedErr
	}
	return c.recoveryTokenRepo, nil
}

// OutboxRepository returns the outbox event repository based on database
// driver.
func (c *Container) OutboxRepository() (authUsecase.OutboxEventRepository, error) {
	c.outboxRepoInit.Do(func() {
		repo, err := c.initOutboxRepository()
		if err != nil {
			c.initErrors["outboxRepo"] = err
			return
		}
		c.outboxRepo = repo
	})
	if storedErr, exists := c.initErrors["outboxRepo"]; exists {
		return nil, storedErr
	}
	return c.outboxRepo, nil
}

// initUserRepository creates the user repository instance.
func (c *Container) initUserRepository() (authUsecase.UserRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for user repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLUserRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLUserRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRecoveryTokenRepository creates the recovery token repository instance.
func (c *Container) initRecoveryTokenRepository() (authUsecase.RecoveryTokenRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for recovery token repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return authRepository.NewMySQLRecoveryTokenRepository(db), nil
	case "postgres":
		return authRepository.NewPostgreSQLRecoveryTokenRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initOutboxRepository creates the outbox event repository instance.
func (c *Container) initOutboxRepository() (authUsecase.OutboxEventRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for outbox repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return outboxRepository.NewMySQLOutboxEventRepository(db), nil
	case "postgres":
		return outboxRepository.NewPostgreSQLOutboxEventRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initUserUseCase creates the user use case with all its dependencies.
func (c *Container) initUserUseCase() (authUsecase.UserUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for user use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for user use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for user use case: %w", err)
	}

	jwtService, err := c.JWTService()
	if err != nil {
		return nil, fmt.Errorf("failed to get jwt service for user use case: %w", err)
	}

	useCase := authUsecase.NewUserUseCase(
		txManager,
		userRepo,
		outboxRepo,
		c.PasswordService(),
		jwtService,
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for user use case: %w", err)
	}

	return authUsecase.NewUserUseCaseWithMetrics(useCase, businessMetrics), nil
}

// initRecoveryUseCase creates the password recovery use case with all its
// dependencies.
func (c *Container) initRecoveryUseCase() (authUsecase.RecoveryUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for recovery use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for recovery use case: %w", err)
	}

	tokenRepo, err := c.RecoveryTokenRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get recovery token repository for recovery use case: %w", err)
	}

	outboxRepo, err := c.OutboxRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get outbox repository for recovery use case: %w", err)
	}

	useCase := authUsecase.NewRecoveryUseCase(
		txManager,
		userRepo,
		tokenRepo,
		outboxRepo,
		c.RecoveryTokenService(),
		c.PasswordService(),
		c.config.RecoveryTokenExpiration,
	)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for recovery use case: %w", err)
	}

	return authUsecase.NewRecoveryUseCaseWithMetrics(useCase, businessMetrics), nil
}
