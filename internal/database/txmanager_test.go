package database

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockDB(t *testing.T) (*sqlTxManager, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() }) //nolint:errcheck

	return &sqlTxManager{db: db}, mock
}

func TestTxManager_WithTx(t *testing.T) {
	t.Run("commits on success", func(t *testing.T) {
		manager, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := manager.WithTx(context.Background(), func(ctx context.Context) error {
			querier := GetTx(ctx, manager.db)
			_, err := querier.ExecContext(ctx, "UPDATE users SET name = $1", "jane")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back on error", func(t *testing.T) {
		manager, mock := newMockDB(t)
		boom := errors.New("boom")

		mock.ExpectBegin()
		mock.ExpectRollback()

		err := manager.WithTx(context.Background(), func(ctx context.Context) error {
			return boom
		})
		assert.ErrorIs(t, err, boom)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("statements inside the callback share one transaction", func(t *testing.T) {
		manager, mock := newMockDB(t)

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO recovery_tokens").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectExec("INSERT INTO outbox_events").WillReturnResult(sqlmock.NewResult(0, 1))
		mock.ExpectCommit()

		err := manager.WithTx(context.Background(), func(ctx context.Context) error {
			querier := GetTx(ctx, manager.db)
			if _, err := querier.ExecContext(ctx, "INSERT INTO recovery_tokens VALUES ($1)", "a"); err != nil {
				return err
			}
			_, err := querier.ExecContext(ctx, "INSERT INTO outbox_events VALUES ($1)", "b")
			return err
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestGetTx_WithoutTransaction(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close() //nolint:errcheck

	querier := GetTx(context.Background(), db)
	assert.Equal(t, Querier(db), querier)
}
