// Package repository provides persistence implementations for the demo auth
// service.
package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/atinyakov/ClaimKeeper/internal/models"
)

// ErrAccountNotFound is returned when no account matches the lookup.
var ErrAccountNotFound = errors.New("account not found")

// PostgresAccountRepository implements account lookups using a PostgreSQL
// database.
type PostgresAccountRepository struct {
	// DB is the database handle for executing queries.
	DB *sql.DB
}

// NewPostgresAccountRepository creates a repository over the given database
// connection. db must be a valid *sql.DB connected to a PostgreSQL instance.
func NewPostgresAccountRepository(db *sql.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{DB: db}
}

// ByUsername loads the account with the given username.
// Returns ErrAccountNotFound when no such account exists.
func (r *PostgresAccountRepository) ByUsername(ctx context.Context, username string) (*models.Account, error) {
	var acc models.Account
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, email, first_name, last_name, password_hash, role
		   FROM accounts WHERE username = $1`,
		username,
	).Scan(&acc.ID, &acc.Username, &acc.Email, &acc.FirstName, &acc.LastName, &acc.PasswordHash, &acc.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// ByID loads the account with the given ID.
// Returns ErrAccountNotFound when no such account exists.
func (r *PostgresAccountRepository) ByID(ctx context.Context, id int64) (*models.Account, error) {
	var acc models.Account
	err := r.DB.QueryRowContext(
		ctx,
		`SELECT id, username, email, first_name, last_name, password_hash, role
		   FROM accounts WHERE id = $1`,
		id,
	).Scan(&acc.ID, &acc.Username, &acc.Email, &acc.FirstName, &acc.LastName, &acc.PasswordHash, &acc.Role)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrAccountNotFound
	}
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
