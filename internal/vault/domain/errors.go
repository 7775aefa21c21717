package domain

import (
	"errors"

	apperrors "github.com/voltpass/volt/internal/errors"
)

var (
	// ErrCredentialNotFound indicates the credential does not exist or belongs
	// to another user. The two cases are reported identically.
	ErrCredentialNotFound = apperrors.Wrap(apperrors.ErrNotFound, "credential not found")

	// ErrCredentialExists indicates the user already stores a credential for
	// the same service and account.
	ErrCredentialExists = apperrors.Wrap(apperrors.ErrConflict, "credential already exists for this service and account")

	// ErrDecryptionFailed indicates ciphertext could not be authenticated and
	// decrypted, typically because the wrong key was used. Decryption failures
	// are permanent; a key mismatch cannot self-correct and is never retried.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrUnknownVariant indicates a credential variant absent from the variant
	// table. This is a configuration error, not expected at runtime once
	// request validation has run.
	ErrUnknownVariant = errors.New("unknown credential variant")

	// ErrUnsupportedAlgorithm indicates an unrecognized AEAD algorithm name.
	ErrUnsupportedAlgorithm = errors.New("unsupported algorithm")

	// ErrInvalidKeySize indicates a field encryption key that is not 32 bytes.
	ErrInvalidKeySize = errors.New("key must be exactly 32 bytes")
)
