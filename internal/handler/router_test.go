package handler_test

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/sara/internal/auth"
	"github.com/joestump/sara/internal/client"
	"github.com/joestump/sara/internal/handler"
	"github.com/joestump/sara/internal/page"
	"github.com/joestump/sara/internal/store"
	"github.com/joestump/sara/internal/testutil"
)

type site struct {
	srv   *httptest.Server
	users *store.UserStore
}

func newSite(t *testing.T) *site {
	t.Helper()
	db := testutil.NewTestDB(t)
	users := store.NewUserStore(db)
	sm := auth.NewSessionManager(db, "sqlite3", time.Hour, false)
	logger := zerolog.Nop()

	srv := httptest.NewServer(handler.NewRouter(handler.Deps{
		SessionManager: sm,
		AuthMiddleware: auth.NewMiddleware(sm, users, logger),
		CSRF:           auth.NewCSRF(sm, client.DefaultHeader, client.DefaultCookieName, false, logger),
		UserStore:      users,
		AppStore:       store.NewApplicationStore(db),
		Logger:         logger,
	}))
	t.Cleanup(srv.Close)
	return &site{srv: srv, users: users}
}

func (s *site) seed(t *testing.T, username, password string) *store.User {
	t.Helper()
	hash, err := auth.HashPassword(password)
	require.NoError(t, err)
	u, err := s.users.Create(context.Background(), username, hash, "Ana Silva", "")
	require.NoError(t, err)
	return u
}

func TestHome_Anonymous(t *testing.T) {
	s := newSite(t)
	ctx := context.Background()

	p, err := page.Open(ctx, s.srv.URL+"/")
	require.NoError(t, err)

	doc := p.Document()
	assert.NotEmpty(t, doc.CSRFToken)
	assert.False(t, doc.Dark)
	assert.False(t, doc.LoggedIn)
	assert.Empty(t, doc.ThemeURL)
	assert.Equal(t, doc.CSRFToken, p.Client().Token())
}

func TestLoginToggleThemeLogout(t *testing.T) {
	s := newSite(t)
	u := s.seed(t, "ana", "pw")
	ctx := context.Background()

	p, err := page.Open(ctx, s.srv.URL+"/?next=/")
	require.NoError(t, err)
	token := p.Client().Token()

	res, err := p.Session().Login(ctx, p.URL().String(), url.Values{
		"username": {"ana"}, "password": {"pw"},
	})
	require.NoError(t, err)
	assert.Equal(t, "/", res.RedirectURL)

	// Navigated to the redirect target as a signed-in user.
	doc := p.Document()
	assert.True(t, doc.LoggedIn)
	assert.Equal(t, "/settings/theme", doc.ThemeURL)
	assert.Equal(t, token, doc.CSRFToken, "token survives login")

	theme, err := p.Theme().Toggle(ctx)
	require.NoError(t, err)
	assert.Equal(t, page.ThemeDark, theme)

	stored, err := s.users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, store.ThemeDark, stored.Theme)
	assert.True(t, stored.LastActivity.Valid)

	require.NoError(t, p.Reload(ctx))
	assert.True(t, p.Document().Dark)
	assert.Equal(t, "fa-sun", p.Theme().Icon())

	msg, err := p.Session().Logout(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, msg)
	assert.False(t, p.Document().LoggedIn)
	assert.NotEqual(t, token, p.Client().Token(), "logout starts a new session")
}

func TestLogin_WrongPasswordShowsBanner(t *testing.T) {
	s := newSite(t)
	s.seed(t, "ana", "pw")
	ctx := context.Background()

	p, err := page.Open(ctx, s.srv.URL+"/")
	require.NoError(t, err)

	_, err = p.Session().Login(ctx, p.URL().String(), url.Values{
		"username": {"ana"}, "password": {"wrong"},
	})
	require.Error(t, err)

	var ce *client.Error
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, http.StatusUnauthorized, ce.Status)

	n, ok := p.Banner().Current()
	require.True(t, ok)
	assert.Equal(t, ce.Message, n.Message)
	assert.Contains(t, string(p.Banner().HTML()), "alert-danger")
}

func TestCSRF_RejectsPostWithoutToken(t *testing.T) {
	s := newSite(t)

	resp, err := http.Post(s.srv.URL+"/logout", "application/json", strings.NewReader("{}"))
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	body, _ := io.ReadAll(resp.Body)
	assert.JSONEq(t, `{"message":"`+auth.CSRFFailureMessage+`"}`, string(body))
}

func TestClient_TokenFromCookie(t *testing.T) {
	s := newSite(t)
	ctx := context.Background()

	p, err := page.Open(ctx, s.srv.URL+"/", page.WithTokenFrom(page.TokenFromCookie, ""))
	require.NoError(t, err)
	require.NotEmpty(t, p.Client().Token())
	assert.Equal(t, p.Document().CSRFToken, p.Client().Token())

	_, err = p.Session().Logout(ctx)
	assert.NoError(t, err)
}

func TestMetrics(t *testing.T) {
	s := newSite(t)

	resp, err := http.Get(s.srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}
