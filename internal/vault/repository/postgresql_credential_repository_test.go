package repository

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/voltpass/volt/internal/errors"
	"github.com/voltpass/volt/internal/testutil"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

func newTestCredential(userID uuid.UUID) *vaultDomain.Credential {
	return &vaultDomain.Credential{
		ID:      uuid.Must(uuid.NewV7()),
		UserID:  userID,
		Variant: vaultDomain.VariantLogin,
		Fields: map[string]string{
			"service":         "github.com",
			"service_user_id": "ciphertext-1",
			"password":        "ciphertext-2",
		},
	}
}

func TestPostgreSQLCredentialRepository_Create(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "postgres", "jane@example.com")
	credential := newTestCredential(userID)

	err := repo.Create(ctx, credential)
	assert.NoError(t, err)

	created, err := repo.GetByID(ctx, credential.ID)
	assert.NoError(t, err)
	assert.Equal(t, credential.ID, created.ID)
	assert.Equal(t, credential.UserID, created.UserID)
	assert.Equal(t, credential.Variant, created.Variant)
	assert.Equal(t, credential.Fields, created.Fields)
	assert.False(t, created.CreatedAt.IsZero())
}

func TestPostgreSQLCredentialRepository_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	_, err := repo.GetByID(ctx, uuid.Must(uuid.NewV7()))
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestPostgreSQLCredentialRepository_ListByUser(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "postgres", "jane@example.com")
	otherID := testutil.CreateTestUser(t, db, "postgres", "other@example.com")

	login := newTestCredential(userID)
	require.NoError(t, repo.Create(ctx, login))

	address := &vaultDomain.Credential{
		ID:      uuid.Must(uuid.NewV7()),
		UserID:  userID,
		Variant: vaultDomain.VariantAddress,
		Fields:  map[string]string{"label": "home", "city": "ciphertext-3"},
	}
	require.NoError(t, repo.Create(ctx, address))

	foreign := newTestCredential(otherID)
	require.NoError(t, repo.Create(ctx, foreign))

	t.Run("all variants", func(t *testing.T) {
		credentials, err := repo.ListByUser(ctx, userID, "")
		assert.NoError(t, err)
		assert.Len(t, credentials, 2)
	})

	t.Run("filtered by variant", func(t *testing.T) {
		credentials, err := repo.ListByUser(ctx, userID, vaultDomain.VariantLogin)
		assert.NoError(t, err)
		require.Len(t, credentials, 1)
		assert.Equal(t, login.ID, credentials[0].ID)
	})

	t.Run("other user's records excluded", func(t *testing.T) {
		credentials, err := repo.ListByUser(ctx, otherID, "")
		assert.NoError(t, err)
		require.Len(t, credentials, 1)
		assert.Equal(t, foreign.ID, credentials[0].ID)
	})
}

func TestPostgreSQLCredentialRepository_Update(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "postgres", "jane@example.com")
	credential := newTestCredential(userID)
	require.NoError(t, repo.Create(ctx, credential))

	credential.Fields["password"] = "ciphertext-new"
	err := repo.Update(ctx, credential)
	assert.NoError(t, err)

	updated, err := repo.GetByID(ctx, credential.ID)
	require.NoError(t, err)
	assert.Equal(t, "ciphertext-new", updated.Fields["password"])

	t.Run("not found", func(t *testing.T) {
		missing := newTestCredential(userID)
		err := repo.Update(ctx, missing)
		assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
	})
}

func TestPostgreSQLCredentialRepository_Delete(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "postgres", "jane@example.com")
	credential := newTestCredential(userID)
	require.NoError(t, repo.Create(ctx, credential))

	err := repo.Delete(ctx, credential.ID)
	assert.NoError(t, err)

	_, err = repo.GetByID(ctx, credential.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))

	err = repo.Delete(ctx, credential.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestPostgreSQLCredentialRepository_DeleteBulk(t *testing.T) {
	db := testutil.SetupPostgresDB(t)
	defer testutil.TeardownDB(t, db)
	defer testutil.CleanupPostgresDB(t, db)

	repo := NewPostgreSQLCredentialRepository(db)
	ctx := context.Background()

	userID := testutil.CreateTestUser(t, db, "postgres", "jane@example.com")
	otherID := testutil.CreateTestUser(t, db, "postgres", "other@example.com")

	first := newTestCredential(userID)
	second := newTestCredential(userID)
	foreign := newTestCredential(otherID)
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	require.NoError(t, repo.Create(ctx, foreign))

	t.Run("empty id list", func(t *testing.T) {
		deleted, err := repo.DeleteBulk(ctx, userID, nil)
		assert.NoError(t, err)
		assert.Zero(t, deleted)
	})

	t.Run("foreign ids skipped", func(t *testing.T) {
		deleted, err := repo.DeleteBulk(ctx, userID, []uuid.UUID{first.ID, second.ID, foreign.ID})
		assert.NoError(t, err)
		assert.Equal(t, int64(2), deleted)

		// The other user's record is untouched
		_, err = repo.GetByID(ctx, foreign.ID)
		assert.NoError(t, err)
	})
}
