package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/joestump/sara/internal/auth"
	"github.com/joestump/sara/internal/build"
	"github.com/joestump/sara/internal/config"
	"github.com/joestump/sara/internal/handler"
	"github.com/joestump/sara/internal/logging"
	"github.com/joestump/sara/internal/store"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
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
			defer func() { _ = database.Close() }()

			secure := !cfg.InsecureCookies
			sessionManager := auth.NewSessionManager(database, cfg.DB.Driver, cfg.SessionLifetime, secure)
			userStore := store.NewUserStore(database)

			router := handler.NewRouter(handler.Deps{
				SessionManager: sessionManager,
				AuthMiddleware: auth.NewMiddleware(sessionManager, userStore, logger),
				CSRF:           auth.NewCSRF(sessionManager, cfg.CSRF.Header, cfg.CSRF.Cookie, secure, logger),
				UserStore:      userStore,
				AppStore:       store.NewApplicationStore(database),
				Logger:         logger,
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			srv := &http.Server{
				Addr:              cfg.HTTP.Addr,
				Handler:           router,
				ReadHeaderTimeout: 10 * time.Second,
			}
			errCh := make(chan error, 1)
			go func() { errCh <- srv.ListenAndServe() }()

			logger.Info().
				Str("addr", cfg.HTTP.Addr).
				Str("version", build.Version).
				Str("driver", cfg.DB.Driver).
				Msg("listening")

			select {
			case err := <-errCh:
				if !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			case <-ctx.Done():
			}

			logger.Info().Msg("shutting down")
			shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
}
