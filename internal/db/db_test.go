package db_test

import (
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/db"
	"github.com/joestump/sara/internal/testutil"
)

func TestNew_UnsupportedDriver(t *testing.T) {
	if _, err := db.New("oracle", "x"); err == nil {
		t.Fatal("expected error for unsupported driver")
	}
}

func TestNew_SQLiteFile(t *testing.T) {
	conn, err := db.New("sqlite3", filepath.Join(t.TempDir(), "sara.db"))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer conn.Close()

	var mode string
	if err := conn.Get(&mode, "PRAGMA journal_mode"); err != nil {
		t.Fatalf("journal_mode: %v", err)
	}
	if mode != "wal" {
		t.Errorf("journal_mode = %q, want wal", mode)
	}

	version, err := db.Migrate(conn, "sqlite3", zerolog.Nop())
	if err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	if version != 4 {
		t.Errorf("version = %d, want 4", version)
	}

	// A second run is a no-op.
	again, err := db.Migrate(conn, "sqlite3", zerolog.Nop())
	if err != nil || again != version {
		t.Errorf("second Migrate = %d, %v", again, err)
	}
}

func TestMigrate_CreatesTables(t *testing.T) {
	conn := testutil.NewTestDB(t)
	for _, table := range []string{"users", "sessions", "applications", "user_application_access"} {
		var n int
		err := conn.Get(&n, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", table)
		if err != nil || n != 1 {
			t.Errorf("table %s: count=%d err=%v", table, n, err)
		}
	}
}

func TestMigrate_UnknownDriver(t *testing.T) {
	conn := testutil.NewTestDB(t)
	if _, err := db.Migrate(conn, "oracle", zerolog.Nop()); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
