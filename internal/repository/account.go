package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/atinyakov/LinkHub/internal/models"
)

// PostgresAccountRepository stores accounts in PostgreSQL.
type PostgresAccountRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAccountRepository creates a new PostgresAccountRepository with the given database connection.
func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{DB: db}
}

// FindByEmail returns the account with exactly this email, or ErrNotFound.
func (r *PostgresAccountRepository) FindByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	err := r.DB.QueryRowContext(ctx, `
		SELECT id, name, email, password_hash, created_at, updated_at
		FROM accounts WHERE email = $1
	`, email).Scan(&a.ID, &a.Name, &a.Email, &a.PasswordHash, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find account by email: %w", err)
	}
	return &a, nil
}

// Save inserts the account when it has no ID yet, otherwise updates the
// existing row. A duplicate email yields ErrConflict.
func (r *PostgresAccountRepository) Save(ctx context.Context, a *models.Account) (*models.Account, error) {
	if a.ID == 0 {
		err := r.DB.QueryRowContext(ctx, `
			INSERT INTO accounts (name, email, password_hash, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, a.Name, a.Email, a.PasswordHash, a.CreatedAt, a.UpdatedAt).Scan(&a.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return nil, ErrConflict
			}
			return nil, fmt.Errorf("insert account: %w", err)
		}
		return a, nil
	}

	res, err := r.DB.ExecContext(ctx, `
		UPDATE accounts SET name = $1, email = $2, password_hash = $3, updated_at = $4
		WHERE id = $5
	`, a.Name, a.Email, a.PasswordHash, a.UpdatedAt, a.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, ErrConflict
		}
		return nil, fmt.Errorf("update account: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, ErrNotFound
	}
	return a, nil
}
