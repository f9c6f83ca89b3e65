package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// User is a registered account. PasswordHash is a bcrypt hash; the plaintext
// is never stored or logged.
type User struct {
	ID           string    `db:"id"`
	Username     string    `db:"username"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// UserStore is the sqlx-backed implementation of UserStoreIface.
type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// Create inserts a new user. Returns ErrEmailTaken or ErrUsernameTaken when
// the corresponding unique index rejects the row; the constraint violation
// is the authoritative signal, there is no pre-check.
func (s *UserStore) Create(ctx context.Context, username, email, passwordHash string) (*User, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	q := s.db.Rebind(`
		INSERT INTO users (id, username, email, password_hash, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	_, err := s.db.ExecContext(ctx, q, id, username, email, passwordHash, now, now)
	if err != nil {
		// Check email before username: registration reports the email
		// conflict first.
		if violatesColumn(err, "email") {
			return nil, ErrEmailTaken
		}
		if violatesColumn(err, "username") {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}

	return s.GetByID(ctx, id)
}

// GetByID returns the user matching id, or ErrNotFound.
func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT * FROM users WHERE id = ?`), id)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByEmail returns the user matching email, or ErrNotFound.
func (s *UserStore) GetByEmail(ctx context.Context, email string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.db.Rebind(`SELECT * FROM users WHERE email = ?`), email)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// ExistsByEmail reports whether any user has the given email.
func (s *UserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.db.Rebind(`SELECT COUNT(*) FROM users WHERE email = ?`), email)
	return count > 0, err
}

// ExistsByUsername reports whether any user has the given username.
func (s *UserStore) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	var count int
	err := s.db.GetContext(ctx, &count, s.db.Rebind(`SELECT COUNT(*) FROM users WHERE username = ?`), username)
	return count > 0, err
}
