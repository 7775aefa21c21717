// Package repository implements data persistence for credentials.
// Repositories support both PostgreSQL and MySQL; the attribute bag is stored
// as a JSON column so variants can differ in shape without schema changes.
package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/voltpass/volt/internal/database"
	apperrors "github.com/voltpass/volt/internal/errors"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

// PostgreSQLCredentialRepository implements credential persistence for PostgreSQL.
type PostgreSQLCredentialRepository struct {
	db *sql.DB
}

// NewPostgreSQLCredentialRepository creates a new PostgreSQL credential repository.
func NewPostgreSQLCredentialRepository(db *sql.DB) *PostgreSQLCredentialRepository {
	return &PostgreSQLCredentialRepository{db: db}
}

// Create inserts a new credential.
func (p *PostgreSQLCredentialRepository) Create(ctx context.Context, credential *vaultDomain.Credential) error {
	querier := database.GetTx(ctx, p.db)

	fieldsJSON, err := json.Marshal(credential.Fields)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential fields")
	}

	query := `INSERT INTO credentials (id, user_id, variant, fields, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, NOW(), NOW())`

	_, err = querier.ExecContext(ctx, query, credential.ID, credential.UserID, credential.Variant, fieldsJSON)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// GetByID retrieves a credential by ID.
func (p *PostgreSQLCredentialRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, variant, fields, created_at, updated_at
			  FROM credentials WHERE id = $1`

	return scanCredential(querier.QueryRowContext(ctx, query, id))
}

// ListByUser retrieves all credentials owned by a user, optionally filtered
// by variant. Results are ordered newest first.
func (p *PostgreSQLCredentialRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	variant vaultDomain.Variant,
) ([]*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, p.db)

	query := `SELECT id, user_id, variant, fields, created_at, updated_at
			  FROM credentials
			  WHERE user_id = $1 AND ($2 = '' OR variant = $2)
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, userID, string(variant))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close() //nolint:errcheck

	var credentials []*vaultDomain.Credential
	for rows.Next() {
		credential, err := scanCredentialRow(rows)
		if err != nil {
			return nil, err
		}
		credentials = append(credentials, credential)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate credentials")
	}

	return credentials, nil
}

// Update persists the full attribute bag of a credential.
func (p *PostgreSQLCredentialRepository) Update(ctx context.Context, credential *vaultDomain.Credential) error {
	querier := database.GetTx(ctx, p.db)

	fieldsJSON, err := json.Marshal(credential.Fields)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential fields")
	}

	query := `UPDATE credentials SET fields = $1, updated_at = NOW()
			  WHERE id = $2`

	result, err := querier.ExecContext(ctx, query, fieldsJSON, credential.ID)
	if err != nil {
		return apperrors.Wrap(err, "failed to update credential")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// Delete removes a credential.
func (p *PostgreSQLCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM credentials WHERE id = $1`

	result, err := querier.ExecContext(ctx, query, id)
	if err != nil {
		return apperrors.Wrap(err, "failed to delete credential")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperrors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return apperrors.ErrNotFound
	}

	return nil
}

// DeleteBulk removes the given credentials owned by the user and reports how
// many rows were deleted. IDs belonging to other users are silently skipped.
func (p *PostgreSQLCredentialRepository) DeleteBulk(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	querier := database.GetTx(ctx, p.db)

	query := `DELETE FROM credentials WHERE user_id = $1 AND id = ANY($2)`

	result, err := querier.ExecContext(ctx, query, userID, pq.Array(ids))
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to bulk delete credentials")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rows, nil
}

// rowScanner matches both *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanCredential(row *sql.Row) (*vaultDomain.Credential, error) {
	credential, err := scanCredentialRow(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return credential, nil
}

func scanCredentialRow(scanner rowScanner) (*vaultDomain.Credential, error) {
	var credential vaultDomain.Credential
	var fieldsJSON []byte

	err := scanner.Scan(
		&credential.ID,
		&credential.UserID,
		&credential.Variant,
		&fieldsJSON,
		&credential.CreatedAt,
		&credential.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, apperrors.Wrap(err, "failed to scan credential")
	}

	if err := json.Unmarshal(fieldsJSON, &credential.Fields); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential fields")
	}

	return &credential, nil
}
