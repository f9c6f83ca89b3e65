package store

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity does not exist, or
	// exists but is owned by a different user. Owner mismatches are
	// deliberately indistinguishable from missing rows.
	ErrNotFound = errors.New("not found")

	// ErrEmailTaken is returned when a registration email already exists.
	ErrEmailTaken = errors.New("email is taken")

	// ErrUsernameTaken is returned when a registration username already exists.
	ErrUsernameTaken = errors.New("username is taken")

	// ErrURLTaken is returned when a bookmark URL already exists. The url
	// column is unique across ALL users, not per user: the service acts as
	// a global registry, one alias per URL.
	ErrURLTaken = errors.New("url is already bookmarked")
)

// UserStoreIface exposes all user data operations.
// No handler may query the DB directly; all access goes through this interface.
type UserStoreIface interface {
	Create(ctx context.Context, username, email, passwordHash string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
}

// BookmarkStoreIface exposes all bookmark data operations.
type BookmarkStoreIface interface {
	Create(ctx context.Context, ownerID, url, body string) (*Bookmark, error)
	GetByID(ctx context.Context, ownerID, id string) (*Bookmark, error)
	ListByOwner(ctx context.Context, ownerID string, page, perPage int) ([]*Bookmark, int, error)
	Update(ctx context.Context, ownerID, id, url, body string) (*Bookmark, error)
	Delete(ctx context.Context, ownerID, id string) error
	Stats(ctx context.Context, ownerID string) ([]*BookmarkStats, error)
	IncrementVisits(ctx context.Context, id string) error
}

// isUniqueConstraintError checks whether err indicates a unique constraint
// violation. Works across SQLite, PostgreSQL, and MySQL.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}

// violatesColumn reports whether a unique constraint error names the given
// column. All three drivers include either the column name (SQLite) or the
// index name, which embeds the column, in the error message.
func violatesColumn(err error, column string) bool {
	return isUniqueConstraintError(err) &&
		strings.Contains(strings.ToLower(err.Error()), column)
}
