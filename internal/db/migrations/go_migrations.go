// Package migrations holds the Go migrations whose DDL differs between
// SQLite, PostgreSQL and MySQL. Plain SQL migrations live beside them and are
// embedded by the parent db package.
package migrations

import "sync/atomic"

var dialect atomic.Value

// SetDialect selects the DDL flavour: "sqlite3", "postgres" or "mysql".
// It must be called before goose.Up.
func SetDialect(d string) {
	dialect.Store(d)
}

func currentDialect() string {
	d, _ := dialect.Load().(string)
	return d
}
