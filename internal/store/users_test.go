package store_test

import (
	"context"
	"errors"
	"testing"

	"github.com/joestump/sara/internal/store"
	"github.com/joestump/sara/internal/testutil"
)

func newUserStore(t *testing.T) *store.UserStore {
	t.Helper()
	db := testutil.NewTestDB(t)
	return store.NewUserStore(db)
}

func TestCreateAndLookup(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "alice", "hash", "Alice Smith", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if u.Theme != store.ThemeLight {
		t.Errorf("theme = %q, want light", u.Theme)
	}
	if u.LastActivity.Valid {
		t.Error("last_activity should be NULL for a new user")
	}

	byName, err := us.GetByUsername(ctx, "alice")
	if err != nil {
		t.Fatalf("GetByUsername: %v", err)
	}
	if byName.ID != u.ID {
		t.Errorf("id = %s, want %s", byName.ID, u.ID)
	}
	if byName.Name() != "Alice Smith" {
		t.Errorf("name = %q, want %q", byName.Name(), "Alice Smith")
	}

	if _, err := us.GetByUsername(ctx, "nobody"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByUsername(nobody) error = %v, want ErrNotFound", err)
	}
	if _, err := us.GetByID(ctx, "missing-id"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetByID(missing) error = %v, want ErrNotFound", err)
	}
}

func TestCreate_DuplicateUsername(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	if _, err := us.Create(ctx, "bob", "hash", "", ""); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := us.Create(ctx, "bob", "other", "", "")
	if !errors.Is(err, store.ErrUsernameTaken) {
		t.Errorf("duplicate create error = %v, want ErrUsernameTaken", err)
	}
}

func TestSetTheme(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "carol", "hash", "", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := us.SetTheme(ctx, u.ID, store.ThemeDark); err != nil {
		t.Fatalf("set theme: %v", err)
	}
	got, err := us.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.IsDark() {
		t.Errorf("theme = %q, want dark", got.Theme)
	}

	if err := us.SetTheme(ctx, u.ID, "purple"); !errors.Is(err, store.ErrInvalidTheme) {
		t.Errorf("invalid theme error = %v, want ErrInvalidTheme", err)
	}
	if err := us.SetTheme(ctx, "missing-id", store.ThemeLight); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("missing user error = %v, want ErrNotFound", err)
	}
}

func TestTouchActivity(t *testing.T) {
	us := newUserStore(t)
	ctx := context.Background()

	u, err := us.Create(ctx, "dave", "hash", "", "")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := us.TouchActivity(ctx, u.ID); err != nil {
		t.Fatalf("touch: %v", err)
	}
	got, err := us.GetByID(ctx, u.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if !got.LastActivity.Valid {
		t.Error("last_activity should be set after TouchActivity")
	}
}
