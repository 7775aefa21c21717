package usecase

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	apperrors "github.com/voltpass/volt/internal/errors"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
	vaultService "github.com/voltpass/volt/internal/vault/service"
)

// CreateCredentialInput contains the input data for storing a credential
type CreateCredentialInput struct {
	Variant vaultDomain.Variant `json:"variant"`
	Fields  map[string]string   `json:"fields"`
}

// UpdateCredentialInput contains the sparse attribute patch for a credential
// update. Attribute names outside the stored record's shape are dropped.
type UpdateCredentialInput struct {
	Fields map[string]string `json:"fields"`
}

// credentialUseCase handles credential business logic
type credentialUseCase struct {
	credentialRepo CredentialRepository
	userRepo       UserRepository
	codec          *vaultService.CredentialCodec
	merger         *vaultService.UpdateMerger
}

// NewCredentialUseCase creates a new CredentialUseCase
func NewCredentialUseCase(
	credentialRepo CredentialRepository,
	userRepo UserRepository,
	codec *vaultService.CredentialCodec,
	merger *vaultService.UpdateMerger,
) CredentialUseCase {
	return &credentialUseCase{
		credentialRepo: credentialRepo,
		userRepo:       userRepo,
		codec:          codec,
		merger:         merger,
	}
}

// secretKey resolves and decodes the user's field encryption key. Callers
// must scrub the returned slice with vaultDomain.Zero when done.
func (uc *credentialUseCase) secretKey(ctx context.Context, userID uuid.UUID) ([]byte, error) {
	user, err := uc.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return vaultDomain.DecodeSecretKey(user.SecretKey)
}

func validateCreateInput(input CreateCredentialInput) error {
	if !input.Variant.Valid() {
		return apperrors.Wrap(apperrors.ErrInvalidInput,
			fmt.Sprintf("unknown credential variant %q", input.Variant))
	}
	if len(input.Fields) == 0 {
		return apperrors.Wrap(apperrors.ErrInvalidInput, "fields are required")
	}
	for name := range input.Fields {
		if !input.Variant.KnownField(name) {
			return apperrors.Wrap(apperrors.ErrInvalidInput,
				fmt.Sprintf("unknown attribute %q for variant %q", name, input.Variant))
		}
	}
	return nil
}

// checkDuplicate rejects a second record for the same service and account.
// Only variants carrying a service/service_user_id pair are checked; the
// stored service_user_id is ciphertext, so candidates matched on the plain
// service attribute are decoded before comparing.
func (uc *credentialUseCase) checkDuplicate(
	ctx context.Context,
	userID uuid.UUID,
	input CreateCredentialInput,
	key []byte,
) error {
	if !input.Variant.KnownField("service") || !input.Variant.IsSensitive("service_user_id") {
		return nil
	}

	service := input.Fields["service"]
	serviceUserID := input.Fields["service_user_id"]
	if service == "" || serviceUserID == "" {
		return nil
	}

	existing, err := uc.credentialRepo.ListByUser(ctx, userID, input.Variant)
	if err != nil {
		return err
	}

	for _, credential := range existing {
		if credential.Fields["service"] != service {
			continue
		}
		decoded, err := uc.codec.Decode(credential.Variant, credential.Fields, key)
		if err != nil {
			return err
		}
		if decoded["service_user_id"] == serviceUserID {
			return vaultDomain.ErrCredentialExists
		}
	}

	return nil
}

// Create validates, encrypts and stores a new credential. The returned
// record carries the plaintext attributes as submitted.
func (uc *credentialUseCase) Create(
	ctx context.Context,
	userID uuid.UUID,
	input CreateCredentialInput,
) (*vaultDomain.Credential, error) {
	if err := validateCreateInput(input); err != nil {
		return nil, err
	}

	key, err := uc.secretKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer vaultDomain.Zero(key)

	if err := uc.checkDuplicate(ctx, userID, input, key); err != nil {
		return nil, err
	}

	encoded, err := uc.codec.Encode(input.Variant, input.Fields, key)
	if err != nil {
		return nil, err
	}

	credential := &vaultDomain.Credential{
		ID:      uuid.Must(uuid.NewV7()),
		UserID:  userID,
		Variant: input.Variant,
		Fields:  encoded,
	}

	if err := uc.credentialRepo.Create(ctx, credential); err != nil {
		return nil, err
	}

	created := *credential
	created.Fields = input.Fields
	return &created, nil
}

// getOwned fetches a credential and enforces the ownership guard. A record
// owned by another user is reported exactly like a missing one.
func (uc *credentialUseCase) getOwned(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
) (*vaultDomain.Credential, error) {
	credential, err := uc.credentialRepo.GetByID(ctx, id)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrNotFound) {
			return nil, vaultDomain.ErrCredentialNotFound
		}
		return nil, err
	}
	if credential.UserID != userID {
		return nil, vaultDomain.ErrCredentialNotFound
	}
	return credential, nil
}

// Get retrieves a credential with its sensitive attributes decrypted.
func (uc *credentialUseCase) Get(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
) (*vaultDomain.Credential, error) {
	credential, err := uc.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	key, err := uc.secretKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer vaultDomain.Zero(key)

	decoded, err := uc.codec.Decode(credential.Variant, credential.Fields, key)
	if err != nil {
		return nil, err
	}
	credential.Fields = decoded

	return credential, nil
}

// List retrieves the user's credentials, decrypted, optionally filtered by
// variant. An empty variant matches all records.
func (uc *credentialUseCase) List(
	ctx context.Context,
	userID uuid.UUID,
	variant vaultDomain.Variant,
) ([]*vaultDomain.Credential, error) {
	if variant != "" && !variant.Valid() {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput,
			fmt.Sprintf("unknown credential variant %q", variant))
	}

	credentials, err := uc.credentialRepo.ListByUser(ctx, userID, variant)
	if err != nil {
		return nil, err
	}
	if len(credentials) == 0 {
		return credentials, nil
	}

	key, err := uc.secretKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer vaultDomain.Zero(key)

	for _, credential := range credentials {
		decoded, err := uc.codec.Decode(credential.Variant, credential.Fields, key)
		if err != nil {
			return nil, err
		}
		credential.Fields = decoded
	}

	return credentials, nil
}

// Update applies a sparse attribute patch to a stored credential. Untouched
// attributes keep their stored ciphertext; patched sensitive attributes are
// re-encrypted under a fresh nonce.
func (uc *credentialUseCase) Update(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
	input UpdateCredentialInput,
) (*vaultDomain.Credential, error) {
	credential, err := uc.getOwned(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	key, err := uc.secretKey(ctx, userID)
	if err != nil {
		return nil, err
	}
	defer vaultDomain.Zero(key)

	patch, err := uc.merger.Merge(credential.Variant, input.Fields, credential.Fields, key)
	if err != nil {
		return nil, err
	}
	for name, value := range patch {
		credential.Fields[name] = value
	}

	if err := uc.credentialRepo.Update(ctx, credential); err != nil {
		return nil, err
	}

	decoded, err := uc.codec.Decode(credential.Variant, credential.Fields, key)
	if err != nil {
		return nil, err
	}
	credential.Fields = decoded

	return credential, nil
}

// Delete removes a credential owned by the user.
func (uc *credentialUseCase) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	if _, err := uc.getOwned(ctx, userID, id); err != nil {
		return err
	}
	return uc.credentialRepo.Delete(ctx, id)
}

// DeleteBulk removes the given credentials owned by the user and reports how
// many were deleted. IDs belonging to other users are silently skipped.
func (uc *credentialUseCase) DeleteBulk(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
) (int64, error) {
	if len(ids) == 0 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "ids are required")
	}
	return uc.credentialRepo.DeleteBulk(ctx, userID, ids)
}
