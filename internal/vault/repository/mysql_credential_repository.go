package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/voltpass/volt/internal/database"
	apperrors "github.com/voltpass/volt/internal/errors"
	vaultDomain "github.com/voltpass/volt/internal/vault/domain"
)

// MySQLCredentialRepository implements credential persistence for MySQL.
// UUIDs are stored as BINARY(16).
type MySQLCredentialRepository struct {
	db *sql.DB
}

// NewMySQLCredentialRepository creates a new MySQL credential repository.
func NewMySQLCredentialRepository(db *sql.DB) *MySQLCredentialRepository {
	return &MySQLCredentialRepository{db: db}
}

// Create inserts a new credential.
func (m *MySQLCredentialRepository) Create(ctx context.Context, credential *vaultDomain.Credential) error {
	querier := database.GetTx(ctx, m.db)

	fieldsJSON, err := json.Marshal(credential.Fields)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential fields")
	}

	idBytes, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}
	userIDBytes, err := credential.UserID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `INSERT INTO credentials (id, user_id, variant, fields, created_at, updated_at)
			  VALUES (?, ?, ?, ?, NOW(), NOW())`

	_, err = querier.ExecContext(ctx, query, idBytes, userIDBytes, credential.Variant, fieldsJSON)
	if err != nil {
		return apperrors.Wrap(err, "failed to create credential")
	}
	return nil
}

// GetByID retrieves a credential by ID.
func (m *MySQLCredentialRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, user_id, variant, fields, created_at, updated_at
			  FROM credentials WHERE id = ?`

	credential, err := scanMySQLCredential(querier.QueryRowContext(ctx, query, idBytes))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return credential, nil
}

// ListByUser retrieves all credentials owned by a user, optionally filtered
// by variant. Results are ordered newest first.
func (m *MySQLCredentialRepository) ListByUser(
	ctx context.Context,
	userID uuid.UUID,
	variant vaultDomain.Variant,
) ([]*vaultDomain.Credential, error) {
	querier := database.GetTx(ctx, m.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `SELECT id, user_id, variant, fields, created_at, updated_at
			  FROM credentials
			  WHERE user_id = ? AND (? = '' OR variant = ?)
			  ORDER BY created_at DESC`

	rows, err := querier.QueryContext(ctx, query, userIDBytes, string(variant), string(variant))
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list credentials")
	}
	defer rows.Close() //nolint:errcheck

	var credentials []*vaultDomain.Credential
	for rows.Next() {
		credential, err := scanMySQLCredential(rows)
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
func (m *MySQLCredentialRepository) Update(ctx context.Context, credential *vaultDomain.Credential) error {
	querier := database.GetTx(ctx, m.db)

	fieldsJSON, err := json.Marshal(credential.Fields)
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal credential fields")
	}

	idBytes, err := credential.ID.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `UPDATE credentials SET fields = ?, updated_at = NOW()
			  WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, fieldsJSON, idBytes)
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
func (m *MySQLCredentialRepository) Delete(ctx context.Context, id uuid.UUID) error {
	querier := database.GetTx(ctx, m.db)

	idBytes, err := id.MarshalBinary()
	if err != nil {
		return apperrors.Wrap(err, "failed to marshal UUID")
	}

	query := `DELETE FROM credentials WHERE id = ?`

	result, err := querier.ExecContext(ctx, query, idBytes)
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
func (m *MySQLCredentialRepository) DeleteBulk(
	ctx context.Context,
	userID uuid.UUID,
	ids []uuid.UUID,
) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	querier := database.GetTx(ctx, m.db)

	userIDBytes, err := userID.MarshalBinary()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to marshal UUID")
	}

	args := make([]any, 0, len(ids)+1)
	args = append(args, userIDBytes)
	for _, id := range ids {
		idBytes, err := id.MarshalBinary()
		if err != nil {
			return 0, apperrors.Wrap(err, "failed to marshal UUID")
		}
		args = append(args, idBytes)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(ids)), ", ")
	query := `DELETE FROM credentials WHERE user_id = ? AND id IN (` + placeholders + `)`

	result, err := querier.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to bulk delete credentials")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to get rows affected")
	}

	return rows, nil
}

func scanMySQLCredential(scanner rowScanner) (*vaultDomain.Credential, error) {
	var credential vaultDomain.Credential
	var idBytes, userIDBytes, fieldsJSON []byte

	err := scanner.Scan(
		&idBytes,
		&userIDBytes,
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

	if err := credential.ID.UnmarshalBinary(idBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := credential.UserID.UnmarshalBinary(userIDBytes); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal UUID")
	}
	if err := json.Unmarshal(fieldsJSON, &credential.Fields); err != nil {
		return nil, apperrors.Wrap(err, "failed to unmarshal credential fields")
	}

	return &credential, nil
}
