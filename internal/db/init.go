package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	_ "github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS accounts (
    id BIGSERIAL PRIMARY KEY,
    username TEXT NOT NULL UNIQUE,
    email TEXT NOT NULL,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    password_hash BYTEA NOT NULL,
    role TEXT NOT NULL DEFAULT 'Employee'
);
`

func InitPostgres(dsn string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("create schema: %w", err)
	}

	return db, nil
}

// SeedDemoAccounts inserts the demo login account if it is not present.
func SeedDemoAccounts(ctx context.Context, db *sql.DB, log *zap.Logger) error {
	hash, err := bcrypt.GenerateFromPassword([]byte("emilyspass"), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash demo password: %w", err)
	}

	res, err := db.ExecContext(ctx, `
        INSERT INTO accounts (username, email, first_name, last_name, password_hash, role)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (username) DO NOTHING
    `, "emilys", "emily.johnson@x.dummyjson.com", "Emily", "Johnson", hash, "Employee")
	if err != nil {
		return fmt.Errorf("seed demo account: %w", err)
	}
	if rows, _ := res.RowsAffected(); rows > 0 {
		log.Info("seeded demo account", zap.String("username", "emilys"))
	}
	return nil
}
