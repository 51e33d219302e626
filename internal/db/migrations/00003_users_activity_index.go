package migrations

import (
	"context"
	"database/sql"

	"github.com/pressly/goose/v3"
)

func init() {
	goose.AddMigrationContext(upUsersActivityIndex, downUsersActivityIndex)
}

// MySQL has no CREATE INDEX IF NOT EXISTS, and its DROP INDEX needs the table.
func upUsersActivityIndex(ctx context.Context, tx *sql.Tx) error {
	ddl := `CREATE INDEX IF NOT EXISTS users_last_activity_idx ON users (last_activity)`
	if currentDialect() == "mysql" {
		ddl = `CREATE INDEX users_last_activity_idx ON users (last_activity)`
	}
	_, err := tx.ExecContext(ctx, ddl)
	return err
}

func downUsersActivityIndex(ctx context.Context, tx *sql.Tx) error {
	ddl := `DROP INDEX IF EXISTS users_last_activity_idx`
	if currentDialect() == "mysql" {
		ddl = `DROP INDEX users_last_activity_idx ON users`
	}
	_, err := tx.ExecContext(ctx, ddl)
	return err
}
