package migrations

// Timestamp and text column types differ per driver, so the users table is a
// Go migration rather than a single SQL file.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateUsers, downCreateUsers)
}

func upCreateUsers(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMPTZ NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS users (
    id            VARCHAR(36) PRIMARY KEY,
    username      VARCHAR(80) NOT NULL,
    email         VARCHAR(120) NOT NULL,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMP(6) NOT NULL,
    updated_at    TIMESTAMP(6) NOT NULL
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS users (
    id            TEXT PRIMARY KEY,
    username      TEXT NOT NULL,
    email         TEXT NOT NULL,
    password_hash TEXT NOT NULL,
    created_at    TIMESTAMP NOT NULL,
    updated_at    TIMESTAMP NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}

	usernameIdx := `CREATE UNIQUE INDEX IF NOT EXISTS users_username_idx ON users (username)`
	emailIdx := `CREATE UNIQUE INDEX IF NOT EXISTS users_email_idx ON users (email)`
	if dialect == "mysql" {
		// MySQL has no IF NOT EXISTS for CREATE INDEX.
		usernameIdx = `CREATE UNIQUE INDEX users_username_idx ON users (username)`
		emailIdx = `CREATE UNIQUE INDEX users_email_idx ON users (email)`
	}
	if _, err := tx.ExecContext(ctx, usernameIdx); err != nil {
		return err
	}
	_, err := tx.ExecContext(ctx, emailIdx)
	return err
}

func downCreateUsers(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS users`)
	return err
}
