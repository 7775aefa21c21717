package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/voltpass/volt/internal/metrics"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

// credentialUseCaseWithMetrics decorates CredentialUseCase with metrics
// instrumentation under the "credentials" domain.
type credentialUseCaseWithMetrics struct {
	next    CredentialUseCase
	metrics metrics.BusinessMetrics
}

// NewCredentialUseCaseWithMetrics wraps a CredentialUseCase with metrics recording.
func NewCredentialUseCaseWithMetrics(useCase CredentialUseCase, m metrics.BusinessMetrics) CredentialUseCase {
	return &credentialUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (d *credentialUseCaseWithMetrics) record(ctx context.Context, operation string, start time.Time, err error) {
	status := "success"
	if err != nil {
		status = "error"
	}

	d.metrics.RecordOperation(ctx, "credentials", operation, status)
	d.metrics.RecordDuration(ctx, "credentials", operation, time.Since(start), status)
}

func (d *credentialUseCaseWithMetrics) Create(
	ctx context.Context,
	userID uuid.UUID,
	input CreateCredentialInput,
) (*vaultDomain.Credential, error) {
	start := time.Now()
	credential, err := d.next.Create(ctx, userID, input)
	d.record(ctx, "credential_create", start, err)
	return credential, err
}

func (d *credentialUseCaseWithMetrics) Get(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
) (*vaultDomain.Credential, error) {
	start := time.Now()
	credential, err := d.next.Get(ctx, userID, id)
	d.record(ctx, "credential_get", start, err)
	return credential, err
}

func (d *credentialUseCaseWithMetrics) List(
	ctx context.Context,
	userID uuid.UUID,
	variant vaultDomain.Variant,
) ([]*vaultDomain.Credential, error) {
	start := time.Now()
	credentials, err := d.next.List(ctx, userID, variant)
	d.record(ctx, "credential_list", start, err)
	return credentials, err
}

func (d *credentialUseCaseWithMetrics) Update(
	ctx context.Context,
	userID uuid.UUID,
	id uuid.UUID,
	input UpdateCredentialInput,
) (*vaultDomain.Credential, error) {
	start := time.Now()
	credential, err := d.next.Update(ctx, userID, id, input)
	d.record(ctx, "credential_update", start, err)
	return credential, err
}

func (d *credentialUseCaseWithMetrics) Delete(ctx context.Context, userID uuid.UUID, id uuid.UUID) error {
	start := time.Now()
	err := d.next.Delete(ctx, userID, id)
	d.record(ctx, "credential_delete", start, err)
	return err
}

func (d *credentialUseCaseWithMetrics) DeleteBulk(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
) (int64, error) {
	start := time.Now()
	deleted, err := d.next.DeleteBulk(ctx, userID, ids)
	d.record(ctx, "credential_delete_bulk", start, err)
	return deleted, err
}
