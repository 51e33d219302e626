package main

import (
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joestump/sara/internal/config"
	"github.com/joestump/sara/internal/db"
	"github.com/joestump/sara/internal/logging"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)

			database, err := openDB(cfg, logger)
			if err != nil {
				return err
			}
			return database.Close()
		},
	}
}

// openDB connects and brings the schema up to date.
func openDB(cfg *config.Config, logger zerolog.Logger) (*sqlx.DB, error) {
	database, err := db.New(cfg.DB.Driver, cfg.DB.DSN)
	if err != nil {
		return nil, err
	}
	version, err := db.Migrate(database, cfg.DB.Driver, logger)
	if err != nil {
		_ = database.Close()
		return nil, err
	}
	logger.Info().Str("driver", cfg.DB.Driver).Int64("version", version).Msg("schema up to date")
	return database, nil
}
