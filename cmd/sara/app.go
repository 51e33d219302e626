package main

import (
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joestump/sara/internal/config"
	"github.com/joestump/sara/internal/logging"
	"github.com/joestump/sara/internal/store"
)

func newAppCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "app",
		Short: "Manage applications and user access grants",
	}
	cmd.AddCommand(newAppAddCmd())
	cmd.AddCommand(newAppAccessCmd("grant", "Allow a user to use an application", true))
	cmd.AddCommand(newAppAccessCmd("revoke", "Remove a user's access to an application", false))
	return cmd
}

// withDB loads the config, opens and migrates the database and runs fn.
func withDB(fn func(db *sqlx.DB, logger zerolog.Logger) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.New(os.Stderr, cfg.Log.Level, cfg.Log.Pretty)

	database, err := openDB(cfg, logger)
	if err != nil {
		return err
	}
	defer func() { _ = database.Close() }()
	return fn(database, logger)
}

func newAppAddCmd() *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "add NAME",
		Short: "Register an application",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *sqlx.DB, logger zerolog.Logger) error {
				a, err := store.NewApplicationStore(db).Create(cmd.Context(), args[0], description)
				if err != nil {
					return fmt.Errorf("create application: %w", err)
				}
				logger.Info().Str("application", a.Name).Msg("application created")
				fmt.Fprintln(cmd.OutOrStdout(), a.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "what the application covers")
	return cmd
}

func newAppAccessCmd(use, short string, granted bool) *cobra.Command {
	return &cobra.Command{
		Use:   use + " USERNAME APPLICATION",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDB(func(db *sqlx.DB, logger zerolog.Logger) error {
				u, err := store.NewUserStore(db).GetByUsername(cmd.Context(), args[0])
				if err != nil {
					return fmt.Errorf("user %q: %w", args[0], err)
				}
				if err := store.NewApplicationStore(db).SetAccess(cmd.Context(), u.ID, args[1], granted); err != nil {
					return fmt.Errorf("application %q: %w", args[1], err)
				}
				logger.Info().Str("username", u.Username).Str("application", args[1]).
					Bool("granted", granted).Msg("application access updated")
				return nil
			})
		},
	}
}
