// Package testutil provides fixtures shared by package tests.
package testutil

import (
	"strconv"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/db"
	_ "modernc.org/sqlite"
)

var seq atomic.Int64

// NewTestDB opens an in-memory SQLite DB and runs all migrations.
func NewTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	// Shared cache keeps every pool connection on the same in-memory
	// database; the name is unique per call.
	dsn := "file:" + dbName(t.Name()) + "_" + strconv.FormatInt(seq.Add(1), 10) +
		"?mode=memory&cache=shared&_pragma=busy_timeout(5000)"
	conn, err := sqlx.Open("sqlite", dsn)
	if err != nil {
		t.Fatalf("open in-memory sqlite: %v", err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if _, err := db.Migrate(conn, "sqlite3", zerolog.Nop()); err != nil {
		t.Fatalf("run migrations: %v", err)
	}
	return conn
}

// dbName maps a test name, which may contain subtest separators and URL
// characters, to a safe in-memory database name.
func dbName(name string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		}
		return '_'
	}, name)
}
