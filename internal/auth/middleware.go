package auth

import (
	"context"
	"errors"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/store"
)

type contextKey string

const UserContextKey contextKey = "user"

// Middleware provides HTTP middleware for authentication.
type Middleware struct {
	sessions *scs.SessionManager
	users    store.UserStoreIface
	logger   zerolog.Logger
}

// NewMiddleware creates a new auth Middleware.
func NewMiddleware(sm *scs.SessionManager, us store.UserStoreIface, logger zerolog.Logger) *Middleware {
	return &Middleware{sessions: sm, users: us, logger: logger}
}

// LoadUser puts the session's user, if any, on the request context and
// stamps its last activity. A session pointing at a deleted user is
// signed out.
func (m *Middleware) LoadUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		userID := m.sessions.GetString(ctx, SessionUserIDKey)
		if userID == "" {
			next.ServeHTTP(w, r)
			return
		}

		user, err := m.users.GetByID(ctx, userID)
		switch {
		case errors.Is(err, store.ErrNotFound):
			m.sessions.Remove(ctx, SessionUserIDKey)
			next.ServeHTTP(w, r)
			return
		case err != nil:
			m.logger.Error().Err(err).Str("user_id", userID).Msg("load session user")
			http.Error(w, "internal error", http.StatusInternalServerError)
			return
		}

		if err := m.users.TouchActivity(ctx, user.ID); err != nil {
			m.logger.Warn().Err(err).Str("user_id", user.ID).Msg("update last activity")
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, UserContextKey, user)))
	})
}

// RequireAuth answers 401 unless LoadUser found a user.
func (m *Middleware) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if UserFromContext(r.Context()) == nil {
			writeMessage(w, http.StatusUnauthorized, "Authentication required.")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// UserFromContext retrieves the authenticated user from the context.
func UserFromContext(ctx context.Context) *store.User {
	u, _ := ctx.Value(UserContextKey).(*store.User)
	return u
}
