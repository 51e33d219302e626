package auth

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"encoding/json"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/metrics"
)

const csrfContextKey contextKey = "csrf"

// CSRFFailureMessage is the body message of a rejected request.
const CSRFFailureMessage = "CSRF verification failed."

// CSRF issues one token per session and checks it on unsafe requests. The
// token lives in the session and is mirrored to a script-readable cookie;
// requests prove it through a header.
type CSRF struct {
	sessions *scs.SessionManager
	header   string
	cookie   string
	secure   bool
	logger   zerolog.Logger
}

// NewCSRF returns a CSRF middleware. It must run inside sessions.LoadAndSave.
func NewCSRF(sm *scs.SessionManager, header, cookie string, secure bool, logger zerolog.Logger) *CSRF {
	return &CSRF{sessions: sm, header: header, cookie: cookie, secure: secure, logger: logger}
}

// GenerateToken returns a random URL-safe token.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func (c *CSRF) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()
		token := c.sessions.GetString(ctx, SessionCSRFKey)
		if token == "" {
			var err error
			if token, err = GenerateToken(); err != nil {
				c.logger.Error().Err(err).Msg("generate csrf token")
				http.Error(w, "internal error", http.StatusInternalServerError)
				return
			}
			c.sessions.Put(ctx, SessionCSRFKey, token)
		}
		if ck, err := r.Cookie(c.cookie); err != nil || ck.Value != token {
			http.SetCookie(w, &http.Cookie{
				Name:     c.cookie,
				Value:    token,
				Path:     "/",
				Secure:   c.secure,
				SameSite: http.SameSiteLaxMode,
			})
		}

		if !safeMethod(r.Method) {
			got := r.Header.Get(c.header)
			if got == "" || subtle.ConstantTimeCompare([]byte(got), []byte(token)) != 1 {
				metrics.CSRFRejectionsTotal.Inc()
				c.logger.Warn().Str("method", r.Method).Str("path", r.URL.Path).Msg("csrf token rejected")
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusForbidden)
				_ = json.NewEncoder(w).Encode(map[string]string{"message": CSRFFailureMessage})
				return
			}
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(ctx, csrfContextKey, token)))
	})
}

// Token returns the CSRF token for the current request.
func Token(ctx context.Context) string {
	s, _ := ctx.Value(csrfContextKey).(string)
	return s
}

func safeMethod(m string) bool {
	switch m {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}
