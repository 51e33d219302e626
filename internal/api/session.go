package api

import (
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/auth"
	"github.com/joestump/sara/internal/metrics"
	"github.com/joestump/sara/internal/store"
)

const maxFormBytes = 1 << 20

type sessionHandler struct {
	sessions *scs.SessionManager
	users    store.UserStoreIface
	logger   zerolog.Logger
}

// Login handles POST /login with a multipart or urlencoded form.
func (h *sessionHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFormBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		writeError(w, http.StatusBadRequest, msgBadRequest)
		return
	}
	username := strings.TrimSpace(r.PostFormValue("username"))
	password := r.PostFormValue("password")

	user, err := h.users.GetByUsername(r.Context(), username)
	switch {
	case errors.Is(err, store.ErrNotFound):
		h.reject(w, username, "unknown_user", http.StatusUnauthorized, msgBadCredentials)
		return
	case err != nil:
		h.logger.Error().Err(err).Str("username", username).Msg("look up user")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		h.reject(w, username, "bad_password", http.StatusUnauthorized, msgBadCredentials)
		return
	}
	if user.AllowedIPAddress != "" && user.AllowedIPAddress != clientIP(r) {
		h.reject(w, username, "ip_denied", http.StatusForbidden, msgIPNotAllowed)
		return
	}

	if err := h.sessions.RenewToken(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("renew session token")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	h.sessions.Put(r.Context(), auth.SessionUserIDKey, user.ID)

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.logger.Info().Str("user_id", user.ID).Str("username", user.Username).Msg("user logged in")
	writeJSON(w, http.StatusOK, LoginResponse{
		Message:     msgLoginOK,
		RedirectURL: localRedirect(r.PostFormValue("next")),
	})
}

func (h *sessionHandler) reject(w http.ResponseWriter, username, reason string, status int, msg string) {
	metrics.LoginsTotal.WithLabelValues(reason).Inc()
	h.logger.Warn().Str("username", username).Str("reason", reason).Msg("login rejected")
	writeError(w, status, msg)
}

// Logout handles POST /logout. It succeeds for anonymous sessions too.
func (h *sessionHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sessions.Destroy(r.Context()); err != nil {
		h.logger.Error().Err(err).Msg("destroy session")
		writeError(w, http.StatusInternalServerError, msgInternal)
		return
	}
	writeJSON(w, http.StatusOK, MessageResponse{Message: msgLogoutOK})
}

// localRedirect returns next when it is a path on this site, else "/".
func localRedirect(next string) string {
	if next == "" || !strings.HasPrefix(next, "/") || strings.HasPrefix(next, "//") || strings.HasPrefix(next, `/\`) {
		return "/"
	}
	return next
}

// clientIP returns the request's remote IP without the port. RealIP
// middleware has already applied X-Forwarded-For / X-Real-IP.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
