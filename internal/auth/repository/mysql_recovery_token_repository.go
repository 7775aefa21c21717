package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"

	"github.com/voltpass/volt/internal/auth/domain"
	"github.com/voltpass/volt/internal/database"
	apperrors "github.com/voltpass/volt/internal/errors"
)

// MySQLRecoveryTokenRepository implements recovery token persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLRecoveryTokenRepository struct {
	db *sql.DB
}

// NewMySQLRecoveryTokenRepository creates a new MySQL recovery token repository.
func NewMySQLRecoveryTokenRepository(db *sql.DB) *MySQLRecoveryTokenRepository {
	return &MySQLRecoveryTokenRepository{db: db}
}

// Create inserts a new recovery token.
func (m *MySQLRecoveryTokenRepository) Create(ctx context.Context, token *domain.RecoveryToken) error {
	querier := database.GetTx(ctx, m.db)

	query := `INSERT INTO recovery_tokens (id, user_id, token_hash, expires_at, used_at, created_at)
			  VALUES (?, ?, ?, ?, ?, NOW())`

	idBytes, err := token.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := token.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	_, err = querier.ExecContext(ctx, query, idBytes, userIDBytes, token.TokenHash, token.ExpiresAt, token.UsedAt)
	if err != nil {
		return apperrors.Wrap(err, "failed to create recovery token")
	}
	return nil
}

// GetByHashForUpdate retrieves a recovery token by hash, locking the row for
// the duration of the surrounding transaction so the consume check can't race.
func (m *MySQLRecoveryTokenRepository) GetByHashForUpdate(
	ctx context.Context,
	tokenHash string,
) (*domain.RecoveryToken, error) {
	querier := database.GetTx(ctx, m.db)

	query := `SELECT id, user_id, token_hash, expires_at, used_at, created_at
			  FROM recovery_tokens WHERE token_hash = ?
			  FOR UPDATE`

	var token domain.RecoveryToken
	var idBytes, userIDBytes []byte

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&idBytes,
		&userIDBytes,
		&token.TokenHash,
		&token.ExpiresAt,
		&token.UsedAt,
		&token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRecoveryTokenNotFound
		}
		return nil, apperrors.Wrap(err, "failed to get recovery token")
	}

	if err := token.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := token.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}

	return &token, nil
}

// MarkUsed stamps the token as consumed. The used_at guard makes the write a
// no-op if another transaction consumed the token first.
func (m *MySQLRecoveryTokenRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	query := `UPDATE recovery_tokens SET used_at = NOW()
			  WHERE id = ? AND used_at IS NULL`

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	result, err := querier.ExecContext(ctx, query, idBytes)
	if err != nil {
		return apperrors.Wrap(err, "failed to mark recovery token used")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return domain.ErrRecoveryTokenUsed
	}

	return nil
}

// DeleteExpired removes tokens past their validity window.
func (m *MySQLRecoveryTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, m.db)

	query := `DELETE FROM recovery_tokens WHERE expires_at < NOW()`

	result, err := querier.ExecContext(ctx, query)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete expired recovery tokens")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rows, nil
}
