package app

import (
	"fmt"

	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
	vaultRepository "github.com/voltpass/volt/internal/vault/repository"
	vaultService "github.com/voltpass/volt/internal/vault/service"
	vaultUsecase "github.com/voltpass/volt/internal/vault/usecase"
)

// CredentialRepository returns the credential repository based on database
// driver.
func (c *Container) CredentialRepository() (vaultUsecase.CredentialRepository, error) {
	c.credentialRepoInit.Do(func() {
		repo, err := c.initCredentialRepository()
		if err != nil {
			c.initErrors["credentialRepo"] = err
			return
		}
		c.credentialRepo = repo
	})
	if storedErr, exists := c.initErrors["credentialRepo"]; exists {
		return nil, storedErr
	}
	return c.credentialRepo, nil
}

// CredentialCodec returns the field encryption codec configured with the
// selected AEAD algorithm.
func (c *Container) CredentialCodec() (*vaultService.CredentialCodec, error) {
	if err := c.initFieldCrypto(); err != nil {
		return nil, err
	}
	return c.credentialCodec, nil
}

// UpdateMerger returns the partial update merger sharing the codec's cipher.
func (c *Container) UpdateMerger() (*vaultService.UpdateMerger, error) {
	if err := c.initFieldCrypto(); err != nil {
		return nil, err
	}
	return c.updateMerger, nil
}

// initFieldCrypto builds the field cipher, codec and merger once.
func (c *Container) initFieldCrypto() error {
	c.fieldCryptoInit.Do(func() {
		algorithm, err := vaultDomain.ParseAlgorithm(c.config.CipherAlgorithm)
		if err != nil {
			c.initErrors["fieldCrypto"] = fmt.Errorf("invalid cipher algorithm %q: %w", c.config.CipherAlgorithm, err)
			return
		}

		cipher := vaultService.NewFieldCipher(vaultService.NewAEADManager(), algorithm)
		c.credentialCodec = vaultService.NewCredentialCodec(cipher)
		c.updateMerger = vaultService.NewUpdateMerger(cipher)
	})
	if storedErr, exists := c.initErrors["fieldCrypto"]; exists {
		return storedErr
	}
	return nil
}

// initCredentialRepository creates the credential repository instance.
func (c *Container) initCredentialRepository() (vaultUsecase.CredentialRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for credential repository: %w", err)
	}

	switch c.config.DBDriver {
	case "mysql":
		return vaultRepository.NewMySQLCredentialRepository(db), nil
	case "postgres":
		return vaultRepository.NewPostgreSQLCredentialRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initCredentialUseCase creates the credential use case with all its
// dependencies.
func (c *Container) initCredentialUseCase() (vaultUsecase.CredentialUseCase, error) {
	credentialRepo, err := c.CredentialRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential repository for credential use case: %w", err)
	}

	userRepo, err := c.UserRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get user repository for credential use case: %w", err)
	}

	codec, err := c.CredentialCodec()
	if err != nil {
		return nil, fmt.Errorf("failed to get credential codec for credential use case: %w", err)
	}

	merger, err := c.UpdateMerger()
	if err != nil {
		return nil, fmt.Errorf("failed to get update merger for credential use case: %w", err)
	}

	useCase := vaultUsecase.NewCredentialUseCase(credentialRepo, userRepo, codec, merger)

	businessMetrics, err := c.BusinessMetrics()
	if err != nil {
		return nil, fmt.Errorf("failed to get business metrics for credential use case: %w", err)
	}

	return vaultUsecase.NewCredentialUseCaseWithMetrics(useCase, businessMetrics), nil
}
