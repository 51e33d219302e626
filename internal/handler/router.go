package handler

import (
	"io/fs"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/api"
	"github.com/joestump/sara/internal/auth"
	"github.com/joestump/sara/internal/logging"
	"github.com/joestump/sara/internal/store"
	"github.com/joestump/sara/web"
)

// Deps holds all dependencies required to build the HTTP router.
type Deps struct {
	SessionManager *scs.SessionManager
	AuthMiddleware *auth.Middleware
	CSRF           *auth.CSRF
	UserStore      store.UserStoreIface
	AppStore       store.ApplicationStoreIface
	Logger         zerolog.Logger
}

// NewRouter assembles the full chi router with all middleware and routes.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()

	// Standard middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logging.Middleware(deps.Logger))
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	// Static assets (embedded). Use fs.Sub so the file server sees
	// css/app.css directly, not static/css/... paths.
	staticSub, err := fs.Sub(web.StaticFS, "static")
	if err != nil {
		panic("failed to sub static FS: " + err.Error())
	}
	r.Handle("/static/*", http.StripPrefix("/static", http.FileServerFS(staticSub)))

	// Everything below carries a session, a CSRF token and the optional user.
	r.Group(func(r chi.Router) {
		r.Use(deps.SessionManager.LoadAndSave)
		r.Use(deps.CSRF.Middleware)
		r.Use(deps.AuthMiddleware.LoadUser)

		home := NewHomeHandler()
		r.Get("/", home.Index)

		api.RegisterRoutes(r, api.Deps{
			Sessions: deps.SessionManager,
			Users:    deps.UserStore,
			Apps:     deps.AppStore,
			Auth:     deps.AuthMiddleware,
			Logger:   deps.Logger,
		})
	})

	return r
}
