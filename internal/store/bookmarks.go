package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/joestump/bookmarkd/internal/alias"
	"github.com/joestump/bookmarkd/internal/metrics"
)

// Bookmark represents a row in the bookmarks table.
type Bookmark struct {
	ID         string    `db:"id"`
	UserID     string    `db:"user_id"`
	URL        string    `db:"url"`
	ShortAlias string    `db:"short_alias"`
	Body       string    `db:"body"`
	Visits     int       `db:"visits"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

// BookmarkStats is the per-bookmark visit summary returned by Stats.
type BookmarkStats struct {
	ID         string `db:"id"`
	URL        string `db:"url"`
	ShortAlias string `db:"short_alias"`
	Visits     int    `db:"visits"`
}

// BookmarkStore is the sqlx-backed implementation of BookmarkStoreIface.
// All read/modify/delete operations are scoped to the owning user.
type BookmarkStore struct {
	db      *sqlx.DB
	aliases *alias.Generator
}

func NewBookmarkStore(db *sqlx.DB, gen *alias.Generator) *BookmarkStore {
	return &BookmarkStore{db: db, aliases: gen}
}

// Create inserts a new bookmark with a freshly drawn alias. The alias and
// the row are one atomic INSERT; there is no window where a bookmark exists
// without its alias.
//
// Collision handling is optimistic: a candidate is drawn, the insert is
// attempted, and a unique violation on short_alias triggers a redraw. Two
// concurrent creates that draw the same candidate therefore cannot both
// commit — the index, not the generator, is the authority. Redraws are
// bounded per length; when a length's budget is spent the next candidate is
// one character longer, up to the generator's maximum, after which
// alias.ErrSpaceExhausted is returned.
func (s *BookmarkStore) Create(ctx context.Context, ownerID, url, body string) (*Bookmark, error) {
	// Pre-check the URL for a friendly conflict error. The unique index
	// still backstops concurrent creates below.
	taken, err := s.urlTaken(ctx, url, "")
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrURLTaken
	}

	var population int64
	if err := s.db.GetContext(ctx, &population, `SELECT COUNT(*) FROM bookmarks`); err != nil {
		return nil, err
	}
	length := s.aliases.LengthFor(population)

	insert := s.db.Rebind(`
		INSERT INTO bookmarks (id, user_id, url, short_alias, body, visits, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
	`)

	for attempt := 0; ; attempt++ {
		if attempt == s.aliases.MaxAttempts {
			if length >= s.aliases.MaxLength {
				metrics.AliasExhaustedTotal.Inc()
				return nil, alias.ErrSpaceExhausted
			}
			length++
			attempt = 0
		}

		code, err := s.aliases.Candidate(length)
		if err != nil {
			return nil, err
		}

		id := uuid.New().String()
		now := time.Now().UTC()
		_, err = s.db.ExecContext(ctx, insert, id, ownerID, url, code, body, now, now)
		if err == nil {
			return s.GetByID(ctx, ownerID, id)
		}
		if violatesColumn(err, "short_alias") {
			metrics.AliasRetriesTotal.Inc()
			continue
		}
		if violatesColumn(err, "url") {
			return nil, ErrURLTaken
		}
		return nil, err
	}
}

// GetByID returns the bookmark matching id if it is owned by ownerID, or
// ErrNotFound. Another user's bookmark is reported as missing, not forbidden.
func (s *BookmarkStore) GetByID(ctx context.Context, ownerID, id string) (*Bookmark, error) {
	var b Bookmark
	q := s.db.Rebind(`SELECT * FROM bookmarks WHERE id = ? AND user_id = ?`)
	err := s.db.GetContext(ctx, &b, q, id, ownerID)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// ListByOwner returns one page of the owner's bookmarks in creation order,
// plus the total number of rows owned.
func (s *BookmarkStore) ListByOwner(ctx context.Context, ownerID string, page, perPage int) ([]*Bookmark, int, error) {
	var total int
	countQ := s.db.Rebind(`SELECT COUNT(*) FROM bookmarks WHERE user_id = ?`)
	if err := s.db.GetContext(ctx, &total, countQ, ownerID); err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * perPage
	q := s.db.Rebind(`
		SELECT * FROM bookmarks
		WHERE user_id = ?
		ORDER BY created_at ASC, id ASC
		LIMIT ? OFFSET ?
	`)
	bookmarks := []*Bookmark{}
	if err := s.db.SelectContext(ctx, &bookmarks, q, ownerID, perPage, offset); err != nil {
		return nil, 0, err
	}
	return bookmarks, total, nil
}

// Update modifies a bookmark's url and body. The alias is immutable: it is
// assigned at creation and never regenerated. The URL uniqueness check
// excludes the row being edited, so a no-op edit keeps its own URL.
func (s *BookmarkStore) Update(ctx context.Context, ownerID, id, url, body string) (*Bookmark, error) {
	if _, err := s.GetByID(ctx, ownerID, id); err != nil {
		return nil, err
	}

	taken, err := s.urlTaken(ctx, url, id)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, ErrURLTaken
	}

	q := s.db.Rebind(`
		UPDATE bookmarks SET url = ?, body = ?, updated_at = ?
		WHERE id = ? AND user_id = ?
	`)
	if _, err := s.db.ExecContext(ctx, q, url, body, time.Now().UTC(), id, ownerID); err != nil {
		if violatesColumn(err, "url") {
			return nil, ErrURLTaken
		}
		return nil, err
	}
	return s.GetByID(ctx, ownerID, id)
}

// Delete removes a bookmark if owned by ownerID, or returns ErrNotFound.
func (s *BookmarkStore) Delete(ctx context.Context, ownerID, id string) error {
	q := s.db.Rebind(`DELETE FROM bookmarks WHERE id = ? AND user_id = ?`)
	res, err := s.db.ExecContext(ctx, q, id, ownerID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// Stats returns visit counts for all of the owner's bookmarks.
func (s *BookmarkStore) Stats(ctx context.Context, ownerID string) ([]*BookmarkStats, error) {
	stats := []*BookmarkStats{}
	q := s.db.Rebind(`
		SELECT id, url, short_alias, visits FROM bookmarks
		WHERE user_id = ?
		ORDER BY visits DESC, created_at ASC
	`)
	if err := s.db.SelectContext(ctx, &stats, q, ownerID); err != nil {
		return nil, err
	}
	return stats, nil
}

// IncrementVisits bumps a bookmark's visit counter. Called by the visit
// tracking path, which sits outside this API (there is no public redirect
// endpoint here).
func (s *BookmarkStore) IncrementVisits(ctx context.Context, id string) error {
	q := s.db.Rebind(`UPDATE bookmarks SET visits = visits + 1 WHERE id = ?`)
	res, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// urlTaken reports whether any bookmark other than excludeID has the URL.
// URL uniqueness is global across users.
func (s *BookmarkStore) urlTaken(ctx context.Context, url, excludeID string) (bool, error) {
	var count int
	q := s.db.Rebind(`SELECT COUNT(*) FROM bookmarks WHERE url = ? AND id <> ?`)
	err := s.db.GetContext(ctx, &count, q, url, excludeID)
	return count > 0, err
}
