package db

import (
	"embed"
	"fmt"
	"io/fs"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/db/migrations"
)

//go:embed migrations/*.sql
var Migrations embed.FS

// Migrate applies all pending migrations, SQL files and dialect-aware Go
// migrations alike, and returns the resulting schema version. It must run
// before the HTTP server starts accepting requests.
func Migrate(db *sqlx.DB, driver string, logger zerolog.Logger) (int64, error) {
	if _, ok := sqlDrivers[driver]; !ok {
		return 0, fmt.Errorf("unknown driver for goose dialect: %q", driver)
	}

	// The goose dialect names match the configured driver names.
	migrations.SetDialect(driver)
	if err := goose.SetDialect(driver); err != nil {
		return 0, fmt.Errorf("set goose dialect: %w", err)
	}
	goose.SetLogger(gooseLogger{logger})

	sub, err := fs.Sub(Migrations, "migrations")
	if err != nil {
		return 0, fmt.Errorf("sub migrations fs: %w", err)
	}
	goose.SetBaseFS(sub)
	defer goose.SetBaseFS(nil)

	if err := goose.Up(db.DB, "."); err != nil {
		return 0, fmt.Errorf("run migrations: %w", err)
	}
	version, err := goose.GetDBVersion(db.DB)
	if err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// gooseLogger routes goose output through zerolog at debug level.
type gooseLogger struct{ l zerolog.Logger }

func (g gooseLogger) Printf(format string, v ...any) {
	g.l.Debug().Msgf(format, v...)
}

func (g gooseLogger) Fatalf(format string, v ...any) {
	g.l.Fatal().Msgf(format, v...)
}
