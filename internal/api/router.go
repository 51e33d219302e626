// Package api holds the JSON endpoints the page controllers call: login,
// logout, the theme preference and the caller's application grants.
package api

import (
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/auth"
	"github.com/joestump/sara/internal/store"
)

// Deps holds all dependencies required to register the API routes.
type Deps struct {
	Sessions *scs.SessionManager
	Users    store.UserStoreIface
	Apps     store.ApplicationStoreIface
	Auth     *auth.Middleware
	Logger   zerolog.Logger
}

// RegisterRoutes adds the JSON endpoints to r. Session loading, CSRF checks
// and auth.Middleware.LoadUser must already be applied to r.
func RegisterRoutes(r chi.Router, deps Deps) {
	s := &sessionHandler{sessions: deps.Sessions, users: deps.Users, logger: deps.Logger}
	th := &themeHandler{users: deps.Users, logger: deps.Logger}
	ah := &applicationHandler{apps: deps.Apps, logger: deps.Logger}
	access := auth.NewAccess(deps.Apps, deps.Logger)

	r.Group(func(r chi.Router) {
		r.Use(jsonContentType)
		r.Post("/login", s.Login)
		r.Post("/logout", s.Logout)
		r.With(deps.Auth.RequireAuth).Post("/settings/theme", th.Set)
		r.With(deps.Auth.RequireAuth).Get("/applications", ah.List)
		r.With(access.RequireParam("name")).Get("/applications/{name}", ah.Get)
	})
}

// jsonContentType is a middleware that sets Content-Type: application/json on all responses.
func jsonContentType(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		next.ServeHTTP(w, r)
	})
}
