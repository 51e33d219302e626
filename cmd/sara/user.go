package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/joestump/sara/internal/auth"
	"github.com/joestump/sara/internal/store"
)

func newUserCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}
	cmd.AddCommand(newUserAddCmd())
	return cmd
}

func newUserAddCmd() *cobra.Command {
	var password, displayName, allowedIP string

	cmd := &cobra.Command{
		Use:   "add USERNAME",
		Short: "Create a user",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if password == "" {
				password = os.Getenv("SARA_USER_PASSWORD")
			}
			if password == "" {
				return errors.New("a password is required: pass --password or set SARA_USER_PASSWORD")
			}

			hash, err := auth.HashPassword(password)
			if err != nil {
				return err
			}
			return withDB(func(db *sqlx.DB, logger zerolog.Logger) error {
				u, err := store.NewUserStore(db).Create(cmd.Context(), args[0], hash, displayName, allowedIP)
				if err != nil {
					return fmt.Errorf("create user: %w", err)
				}
				logger.Info().Str("user_id", u.ID).Str("username", u.Username).Msg("user created")
				fmt.Fprintln(cmd.OutOrStdout(), u.ID)
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&password, "password", "", "password (defaults to $SARA_USER_PASSWORD)")
	cmd.Flags().StringVar(&displayName, "display-name", "", "display name")
	cmd.Flags().StringVar(&allowedIP, "allowed-ip", "", "only accept logins from this IP address")
	return cmd
}
