package page

import (
	"context"
	"net/http"
	"net/url"

	"github.com/joestump/sara/internal/client"
	"github.com/joestump/sara/internal/notify"
)

const (
	loginPath  = "/login"
	logoutPath = "/logout"
)

// LoginResult is the backend's answer to a successful login.
type LoginResult struct {
	Message     string `json:"message"`
	RedirectURL string `json:"redirect_url"`
}

// Session drives the login and logout flows.
type Session struct {
	sender  Sender
	surface notify.Surface
	nav     Navigator
}

// NewSession returns a Session posting through sender.
func NewSession(sender Sender, surface notify.Surface, nav Navigator) *Session {
	if surface == nil {
		surface = notify.Discard
	}
	return &Session{sender: sender, surface: surface, nav: nav}
}

// Login submits fields to /login. A "next" parameter in pageURL's query is
// forwarded unless fields already carry one. On success the page navigates
// to the returned redirect URL, or shows the returned message when there is
// none.
func (s *Session) Login(ctx context.Context, pageURL string, fields url.Values) (LoginResult, error) {
	form := client.FormFromValues(fields)
	if next := nextParam(pageURL); next != "" && !form.Has("next") {
		form.Add("next", next)
	}

	body, err := s.sender.Send(ctx, loginPath, http.MethodPost, form)
	if err != nil {
		return LoginResult{}, err
	}
	res := LoginResult{Message: body.String("message"), RedirectURL: body.String("redirect_url")}

	if res.RedirectURL != "" && s.nav != nil {
		return res, s.nav.Navigate(ctx, res.RedirectURL)
	}
	if res.Message != "" {
		s.surface.Notify(res.Message, notify.SeveritySuccess)
	}
	return res, nil
}

// Logout posts to /logout and reloads the page once the call completes.
// A failed call leaves the page as it is.
func (s *Session) Logout(ctx context.Context) (string, error) {
	body, err := s.sender.Send(ctx, logoutPath, http.MethodPost, nil)
	if err != nil {
		return "", err
	}
	msg := body.String("message")
	if s.nav != nil {
		return msg, s.nav.Reload(ctx)
	}
	return msg, nil
}

func nextParam(pageURL string) string {
	u, err := url.Parse(pageURL)
	if err != nil {
		return ""
	}
	return u.Query().Get("next")
}
