package auth

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/metrics"
)

// AccessDeniedMessage is the body message of a 403 from Access.
const AccessDeniedMessage = "You do not have permission to access this feature."

// AccessChecker answers whether a user holds a grant for an application.
type AccessChecker interface {
	HasAccess(ctx context.Context, userID, name string) (bool, error)
}

// Access guards routes behind per-user application grants. It must run
// after Middleware.LoadUser.
type Access struct {
	apps   AccessChecker
	logger zerolog.Logger
}

func NewAccess(apps AccessChecker, logger zerolog.Logger) *Access {
	return &Access{apps: apps, logger: logger}
}

// Require answers 403 unless the signed-in user may use application name.
func (a *Access) Require(name string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.guard(next, func(*http.Request) string { return name })
	}
}

// RequireParam is Require with the application name taken from the chi URL
// parameter param.
func (a *Access) RequireParam(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return a.guard(next, func(r *http.Request) string { return chi.URLParam(r, param) })
	}
}

func (a *Access) guard(next http.Handler, appName func(*http.Request) string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user := UserFromContext(r.Context())
		if user == nil {
			writeMessage(w, http.StatusUnauthorized, "Authentication required.")
			return
		}

		name := appName(r)
		ok, err := a.apps.HasAccess(r.Context(), user.ID, name)
		if err != nil {
			a.logger.Error().Err(err).Str("user_id", user.ID).Str("application", name).Msg("check application access")
			writeMessage(w, http.StatusInternalServerError, "Internal server error.")
			return
		}
		if !ok {
			metrics.AccessDeniedTotal.Inc()
			a.logger.Info().Str("user_id", user.ID).Str("application", name).Msg("application access denied")
			writeMessage(w, http.StatusForbidden, AccessDeniedMessage)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": message})
}
