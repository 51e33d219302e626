package api_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/api"
	"github.com/joestump/sara/internal/auth"
	"github.com/joestump/sara/internal/store"
	"github.com/joestump/sara/internal/testutil"
)

// testEnv holds the router and stores needed for API integration tests.
// CSRF checks are exercised in the handler package; they are left out here.
type testEnv struct {
	Router    http.Handler
	Sessions  *scs.SessionManager
	UserStore *store.UserStore
	AppStore  *store.ApplicationStore
}

// newTestEnv creates an in-memory SQLite test database, runs migrations,
// and wires up the API routes with real stores.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.NewTestDB(t)

	us := store.NewUserStore(db)
	as := store.NewApplicationStore(db)
	sm := auth.NewSessionManager(db, "sqlite3", time.Hour, false)
	mw := auth.NewMiddleware(sm, us, zerolog.Nop())

	r := chi.NewRouter()
	r.Use(sm.LoadAndSave, mw.LoadUser)
	api.RegisterRoutes(r, api.Deps{Sessions: sm, Users: us, Apps: as, Auth: mw, Logger: zerolog.Nop()})

	return &testEnv{Router: r, Sessions: sm, UserStore: us, AppStore: as}
}

// seedUser creates a user with the given password and allowed IP.
func seedUser(t *testing.T, env *testEnv, username, password, allowedIP string) *store.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}
	u, err := env.UserStore.Create(context.Background(), username, hash, "", allowedIP)
	if err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// signedIn adds a session cookie for userID to the request.
func signedIn(t *testing.T, env *testEnv, r *http.Request, userID string) *http.Request {
	t.Helper()
	ctx, err := env.Sessions.Load(context.Background(), "")
	if err != nil {
		t.Fatalf("load session: %v", err)
	}
	env.Sessions.Put(ctx, auth.SessionUserIDKey, userID)
	token, _, err := env.Sessions.Commit(ctx)
	if err != nil {
		t.Fatalf("commit session: %v", err)
	}
	r.AddCookie(&http.Cookie{Name: env.Sessions.Cookie.Name, Value: token})
	return r
}
