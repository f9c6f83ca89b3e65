package store_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/joestump/bookmarkd/internal/alias"
	"github.com/joestump/bookmarkd/internal/store"
	"github.com/joestump/bookmarkd/internal/testutil"
)

// newBookmarkEnv creates a bookmark store plus two seeded users sharing the
// same database.
func newBookmarkEnv(t *testing.T) (*store.BookmarkStore, string, string) {
	t.Helper()
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	bs := store.NewBookmarkStore(db, alias.NewGenerator())
	ctx := context.Background()

	alice, err := us.Create(ctx, "alice123", "a@x.com", "hash1")
	if err != nil {
		t.Fatalf("seed alice: %v", err)
	}
	bob, err := us.Create(ctx, "bob456", "b@y.com", "hash2")
	if err != nil {
		t.Fatalf("seed bob: %v", err)
	}
	return bs, alice.ID, bob.ID
}

func TestBookmarkStore_Create(t *testing.T) {
	bs, alice, _ := newBookmarkEnv(t)
	ctx := context.Background()

	b, err := bs.Create(ctx, alice, "https://example.com", "notes")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if b.ID == "" {
		t.Error("expected non-empty ID")
	}
	if b.URL != "https://example.com" {
		t.Errorf("url = %q, want %q", b.URL, "https://example.com")
	}
	if b.Body != "notes" {
		t.Errorf("body = %q, want %q", b.Body, "notes")
	}
	if b.Visits != 0 {
		t.Errorf("visits = %d, want 0", b.Visits)
	}
	if len(b.ShortAlias) != 3 {
		t.Errorf("alias %q has length %d, want 3", b.ShortAlias, len(b.ShortAlias))
	}
	for _, c := range b.ShortAlias {
		if !strings.ContainsRune(alias.Alphabet, c) {
			t.Errorf("alias %q contains %q outside the alphabet", b.ShortAlias, c)
		}
	}
}

func TestBookmarkStore_Create_URLTakenGlobally(t *testing.T) {
	bs, alice, bob := newBookmarkEnv(t)
	ctx := context.Background()

	if _, err := bs.Create(ctx, alice, "https://example.com", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// URL uniqueness crosses user boundaries.
	_, err := bs.Create(ctx, bob, "https://example.com", "dup")
	if !errors.Is(err, store.ErrURLTaken) {
		t.Errorf("Create(same url, other user) = %v, want ErrURLTaken", err)
	}
}

func TestBookmarkStore_RoundTrip(t *testing.T) {
	bs, alice, _ := newBookmarkEnv(t)
	ctx := context.Background()

	created, err := bs.Create(ctx, alice, "https://example.com", "notes")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	got, err := bs.GetByID(ctx, alice, created.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.URL != created.URL || got.Body != created.Body || got.ShortAlias != created.ShortAlias {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, created)
	}
}

func TestBookmarkStore_OwnerScoping(t *testing.T) {
	bs, alice, bob := newBookmarkEnv(t)
	ctx := context.Background()

	b, err := bs.Create(ctx, alice, "https://example.com", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := bs.GetByID(ctx, bob, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID as bob = %v, want ErrNotFound", err)
	}
	if _, err := bs.Update(ctx, bob, b.ID, "https://evil.com", ""); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Update as bob = %v, want ErrNotFound", err)
	}
	if err := bs.Delete(ctx, bob, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Delete as bob = %v, want ErrNotFound", err)
	}

	// Alice still sees her bookmark untouched.
	got, err := bs.GetByID(ctx, alice, b.ID)
	if err != nil {
		t.Fatalf("GetByID as alice: %v", err)
	}
	if got.URL != "https://example.com" {
		t.Errorf("url = %q after failed cross-owner update", got.URL)
	}
}

func TestBookmarkStore_Update_KeepsOwnURL(t *testing.T) {
	bs, alice, _ := newBookmarkEnv(t)
	ctx := context.Background()

	b, err := bs.Create(ctx, alice, "https://example.com", "old")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	// Editing only the body while keeping the URL must not trip the
	// global uniqueness check against the row itself.
	updated, err := bs.Update(ctx, alice, b.ID, "https://example.com", "new")
	if err != nil {
		t.Fatalf("Update(same url) = %v, want nil", err)
	}
	if updated.Body != "new" {
		t.Errorf("body = %q, want %q", updated.Body, "new")
	}
	if updated.ShortAlias != b.ShortAlias {
		t.Errorf("alias changed on edit: %q -> %q", b.ShortAlias, updated.ShortAlias)
	}
}

func TestBookmarkStore_Update_URLTaken(t *testing.T) {
	bs, alice, _ := newBookmarkEnv(t)
	ctx := context.Background()

	if _, err := bs.Create(ctx, alice, "https://one.com", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}
	b2, err := bs.Create(ctx, alice, "https://two.com", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	_, err = bs.Update(ctx, alice, b2.ID, "https://one.com", "")
	if !errors.Is(err, store.ErrURLTaken) {
		t.Errorf("Update(to taken url) = %v, want ErrURLTaken", err)
	}
}

func TestBookmarkStore_Delete(t *testing.T) {
	bs, alice, _ := newBookmarkEnv(t)
	ctx := context.Background()

	b, err := bs.Create(ctx, alice, "https://example.com", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if err := bs.Delete(ctx, alice, b.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := bs.GetByID(ctx, alice, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID after delete = %v, want ErrNotFound", err)
	}
	if err := bs.Delete(ctx, alice, b.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("second Delete = %v, want ErrNotFound", err)
	}
}

func TestBookmarkStore_ListByOwner(t *testing.T) {
	bs, alice, bob := newBookmarkEnv(t)
	ctx := context.Background()

	for i := 0; i < 7; i++ {
		if _, err := bs.Create(ctx, alice, fmt.Sprintf("https://example.com/%d", i), ""); err != nil {
			t.Fatalf("Create %d: %v", i, err)
		}
	}
	if _, err := bs.Create(ctx, bob, "https://bob.com", ""); err != nil {
		t.Fatalf("Create bob: %v", err)
	}

	page1, total, err := bs.ListByOwner(ctx, alice, 1, 5)
	if err != nil {
		t.Fatalf("ListByOwner page 1: %v", err)
	}
	if total != 7 {
		t.Errorf("total = %d, want 7 (bob's rows must not count)", total)
	}
	if len(page1) != 5 {
		t.Fatalf("len(page1) = %d, want 5", len(page1))
	}

	page2, _, err := bs.ListByOwner(ctx, alice, 2, 5)
	if err != nil {
		t.Fatalf("ListByOwner page 2: %v", err)
	}
	if len(page2) != 2 {
		t.Fatalf("len(page2) = %d, want 2", len(page2))
	}

	// Creation order, no overlap between pages.
	seen := make(map[string]bool)
	for _, b := range append(page1, page2...) {
		if seen[b.ID] {
			t.Errorf("bookmark %s appears twice across pages", b.ID)
		}
		seen[b.ID] = true
		if b.UserID != alice {
			t.Errorf("bookmark %s owned by %s, want %s", b.ID, b.UserID, alice)
		}
	}
}

func TestBookmarkStore_ConcurrentCreates_UniqueAliases(t *testing.T) {
	bs, alice, _ := newBookmarkEnv(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	results := make([]*store.Bookmark, n)
	errs := make([]error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = bs.Create(ctx, alice, fmt.Sprintf("https://example.com/p/%d", i), "")
		}(i)
	}
	wg.Wait()

	aliases := make(map[string]bool)
	for i := 0; i < n; i++ {
		if errs[i] != nil {
			t.Fatalf("concurrent Create %d: %v", i, errs[i])
		}
		if aliases[results[i].ShortAlias] {
			t.Fatalf("alias %q assigned twice", results[i].ShortAlias)
		}
		aliases[results[i].ShortAlias] = true
	}
}

func TestBookmarkStore_AliasRetryAndEscalation(t *testing.T) {
	db := testutil.NewTestDB(t)
	us := store.NewUserStore(db)
	ctx := context.Background()

	alice, err := us.Create(ctx, "alice123", "a@x.com", "hash1")
	if err != nil {
		t.Fatalf("seed alice: %v", err)
	}

	// A one-symbol effective space: length 1 with an alphabet of 62 still
	// has room, so shrink the space via saturation instead — base length 1
	// escalating immediately once any row exists.
	gen := &alias.Generator{BaseLength: 1, MaxLength: 3, MaxAttempts: 3, Saturation: 0.01}
	bs := store.NewBookmarkStore(db, gen)

	if _, err := bs.Create(ctx, alice.ID, "https://example.com/0", ""); err != nil {
		t.Fatalf("Create: %v", err)
	}

	// 0.01 * 62 < 1 row, so the next create draws at length 2.
	b, err := bs.Create(ctx, alice.ID, "https://example.com/1", "")
	if err != nil {
		t.Fatalf("Create after saturation: %v", err)
	}
	if len(b.ShortAlias) != 2 {
		t.Errorf("alias length after saturation = %d, want 2", len(b.ShortAlias))
	}
}

func TestBookmarkStore_VisitsAndStats(t *testing.T) {
	bs, alice, _ := newBookmarkEnv(t)
	ctx := context.Background()

	b, err := bs.Create(ctx, alice, "https://example.com", "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	for i := 0; i < 3; i++ {
		if err := bs.IncrementVisits(ctx, b.ID); err != nil {
			t.Fatalf("IncrementVisits: %v", err)
		}
	}
	if err := bs.IncrementVisits(ctx, "no-such-id"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("IncrementVisits(unknown) = %v, want ErrNotFound", err)
	}

	stats, err := bs.Stats(ctx, alice)
	if err != nil {
		t.Fatalf("Stats: %v", err)
	}
	if len(stats) != 1 {
		t.Fatalf("len(stats) = %d, want 1", len(stats))
	}
	if stats[0].Visits != 3 {
		t.Errorf("visits = %d, want 3", stats[0].Visits)
	}
	if stats[0].ShortAlias != b.ShortAlias {
		t.Errorf("alias = %q, want %q", stats[0].ShortAlias, b.ShortAlias)
	}
}
