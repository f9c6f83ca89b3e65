package migrations

// The bookmarks table carries the two uniqueness constraints the service
// depends on: url is globally unique across all users, and short_alias is
// the collision authority for the alias generator. Both are enforced here,
// at write time, not by pre-checks alone.

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upCreateBookmarks, downCreateBookmarks)
}

func upCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	var ddl string
	switch dialect {
	case "postgres":
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES users(id),
    url         TEXT NOT NULL,
    short_alias TEXT NOT NULL,
    body        TEXT NOT NULL DEFAULT '',
    visits      INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMPTZ NOT NULL,
    updated_at  TIMESTAMPTZ NOT NULL
)`
	case "mysql":
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id          VARCHAR(36) PRIMARY KEY,
    user_id     VARCHAR(36) NOT NULL,
    url         VARCHAR(2048) NOT NULL,
    short_alias VARCHAR(8) NOT NULL,
    body        TEXT NOT NULL,
    visits      INT NOT NULL DEFAULT 0,
    created_at  TIMESTAMP(6) NOT NULL,
    updated_at  TIMESTAMP(6) NOT NULL,
    CONSTRAINT bookmarks_user_fk FOREIGN KEY (user_id) REFERENCES users(id)
)`
	default: // sqlite3
		ddl = `CREATE TABLE IF NOT EXISTS bookmarks (
    id          TEXT PRIMARY KEY,
    user_id     TEXT NOT NULL REFERENCES users(id),
    url         TEXT NOT NULL,
    short_alias TEXT NOT NULL,
    body        TEXT NOT NULL DEFAULT '',
    visits      INTEGER NOT NULL DEFAULT 0,
    created_at  TIMESTAMP NOT NULL,
    updated_at  TIMESTAMP NOT NULL
)`
	}
	if _, err := tx.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("create bookmarks table: %w", err)
	}

	// MySQL VARCHAR(2048) is too wide for a plain unique index with
	// utf8mb4, so cap the indexed prefix there.
	urlIdx := `CREATE UNIQUE INDEX IF NOT EXISTS bookmarks_url_idx ON bookmarks (url)`
	if dialect == "mysql" {
		urlIdx = `CREATE UNIQUE INDEX bookmarks_url_idx ON bookmarks (url(255))`
	}
	if _, err := tx.ExecContext(ctx, urlIdx); err != nil {
		return fmt.Errorf("create url index: %w", err)
	}

	aliasIdx := `CREATE UNIQUE INDEX IF NOT EXISTS bookmarks_short_alias_idx ON bookmarks (short_alias)`
	if dialect == "mysql" {
		aliasIdx = `CREATE UNIQUE INDEX bookmarks_short_alias_idx ON bookmarks (short_alias)`
	}
	if _, err := tx.ExecContext(ctx, aliasIdx); err != nil {
		return fmt.Errorf("create short_alias index: %w", err)
	}

	userIdx := `CREATE INDEX IF NOT EXISTS bookmarks_user_id_idx ON bookmarks (user_id)`
	if dialect == "mysql" {
		userIdx = `CREATE INDEX bookmarks_user_id_idx ON bookmarks (user_id)`
	}
	_, err := tx.ExecContext(ctx, userIdx)
	return err
}

func downCreateBookmarks(ctx context.Context, tx *sql.Tx) error {
	_, err := tx.ExecContext(ctx, `DROP TABLE IF EXISTS bookmarks`)
	return err
}
