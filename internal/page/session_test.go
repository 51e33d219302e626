package page_test

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/sara/internal/client"
	"github.com/joestump/sara/internal/notify"
	"github.com/joestump/sara/internal/page"
)

func TestSession_LoginNavigatesToRedirect(t *testing.T) {
	s := &fakeSender{body: client.Body{"message": "Welcome", "redirect_url": "/dashboard"}}
	nav := &fakeNav{}
	banner := notify.NewBanner(nil)
	sess := page.NewSession(s, banner, nav)

	res, err := sess.Login(context.Background(), "http://example.test/?next=/dashboard",
		url.Values{"username": {"ana"}, "password": {"pw"}})
	require.NoError(t, err)

	assert.Equal(t, "/dashboard", res.RedirectURL)
	assert.Equal(t, []string{"/dashboard"}, nav.navigated)
	_, shown := banner.Current()
	assert.False(t, shown)

	calls := s.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/login", calls[0].URL)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	form, ok := calls[0].Payload.(*client.Form)
	require.True(t, ok, "login fields go out as a pre-built form")
	assert.True(t, form.Has("next"))
	assert.True(t, form.Has("username"))
}

func TestSession_LoginKeepsExplicitNext(t *testing.T) {
	s := &fakeSender{body: client.Body{"message": "ok"}}
	sess := page.NewSession(s, nil, &fakeNav{})

	_, err := sess.Login(context.Background(), "http://example.test/?next=/a",
		url.Values{"next": {"/b"}})
	require.NoError(t, err)

	form := s.Calls()[0].Payload.(*client.Form)
	assert.True(t, form.Has("next"))
}

func TestSession_LoginWithoutRedirectShowsMessage(t *testing.T) {
	s := &fakeSender{body: client.Body{"message": "Logged in"}}
	nav := &fakeNav{}
	banner := notify.NewBanner(nil)
	sess := page.NewSession(s, banner, nav)

	_, err := sess.Login(context.Background(), "http://example.test/", url.Values{})
	require.NoError(t, err)

	assert.Empty(t, nav.navigated)
	n, ok := banner.Current()
	require.True(t, ok)
	assert.Equal(t, notify.Notification{Message: "Logged in", Severity: notify.SeveritySuccess}, n)
}

func TestSession_LoginFailureDoesNotNavigate(t *testing.T) {
	s := &fakeSender{err: errors.New("Invalid credentials")}
	nav := &fakeNav{}
	sess := page.NewSession(s, nil, nav)

	_, err := sess.Login(context.Background(), "http://example.test/", url.Values{})
	assert.Error(t, err)
	assert.Empty(t, nav.navigated)
}

func TestSession_LogoutReloads(t *testing.T) {
	s := &fakeSender{body: client.Body{"message": "Logged out"}}
	nav := &fakeNav{}
	sess := page.NewSession(s, nil, nav)

	msg, err := sess.Logout(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Logged out", msg)
	assert.Equal(t, 1, nav.reloads)

	calls := s.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/logout", calls[0].URL)
	assert.Nil(t, calls[0].Payload)
}

func TestSession_LogoutFailureDoesNotReload(t *testing.T) {
	nav := &fakeNav{}
	sess := page.NewSession(&fakeSender{err: errors.New("boom")}, nil, nav)

	_, err := sess.Logout(context.Background())
	assert.Error(t, err)
	assert.Zero(t, nav.reloads)
}
