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

// PostgreSQLRecoveryTokenRepository implements recovery token persistence for
// PostgreSQL. Uses native UUID types with transaction support via database.GetTx().
type PostgreSQLRecoveryTokenRepository struct {
	db *sql.DB
}

// NewPostgreSQLRecoveryTokenRepository creates a new PostgreSQL recovery token repository.
func NewPostgreSQLRecoveryTokenRepository(db *sql.DB) *PostgreSQLRecoveryTokenRepository {
	return &PostgreSQLRecoveryTokenRepository{db: db}
}

// Create inserts a new recovery token.
func (p *PostgreSQLRecoveryTokenRepository) Create(ctx context.Context, token *domain.RecoveryToken) error {
	querier := database.GetTx(ctx, p.db)

	query := `INSERT INTO recovery_tokens (id, user_id, token_hash, expires_at, used_at, created_at)
			  VALUES ($1, $2, $3, $4, $5, NOW())`

	_, err := querier.ExecContext(
		ctx,
		query,
		token.ID,
		token.UserID,
		token.TokenHash,
		token.ExpiresAt,
		token.UsedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create recovery token")
	}
	return nil
}

// GetByHashForUpdate retrieves a recovery token by hash, locking the row for
// the duration of the surrounding transaction so the consume check can't race.
func (p *PostgreSQLRecoveryTokenRepository) GetByHashForUpdate(
	ctx context.Context,
	tokenHash string,
) (*domain.RecoveryToken, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, token_hash, expires_at, used_at, created_at
			  FROM recovery_tokens WHERE token_hash = $1
			  FOR UPDATE`

	var token domain.RecoveryToken

	err := querier.QueryRowContext(ctx, query, tokenHash).Scan(
		&token.ID,
		&token.UserID,
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

	return &token, nil
}

// MarkUsed stamps the token as consumed. The used_at guard makes the write a
// no-op if another transaction consumed the token first.
func (p *PostgreSQLRecoveryTokenRepository) MarkUsed(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `UPDATE recovery_tokens SET used_at = NOW()
			  WHERE id = $1 AND used_at IS NULL`

	result, err := querier.ExecContext(ctx, query, id)
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

// DeleteExpired removes tokens past their validity window. Called by the
// outbox worker tick as housekeeping.
func (p *PostgreSQLRecoveryTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	querier := database.GetTx(ctx, p.db)

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
