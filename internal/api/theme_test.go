package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/joestump/sara/internal/api"
	"github.com/joestump/sara/internal/store"
)

func themeRequest(body string) *http.Request {
	req := httptest.NewRequest("POST", "/settings/theme", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestTheme_Set(t *testing.T) {
	env := newTestEnv(t)
	u := seedUser(t, env, "ana", "pw", "")

	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, signedIn(t, env, themeRequest(`{"theme":"dark"}`), u.ID))

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body: %s", rec.Code, http.StatusOK, rec.Body.String())
	}
	var resp api.ThemeResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Status != "ok" {
		t.Errorf("status = %q, want ok", resp.Status)
	}

	got, err := env.UserStore.GetByID(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.Theme != store.ThemeDark {
		t.Errorf("theme = %q, want dark", got.Theme)
	}
}

func TestTheme_BadInput(t *testing.T) {
	for name, body := range map[string]string{
		"invalid json":  `{"theme":`,
		"unknown theme": `{"theme":"purple"}`,
		"missing theme": `{}`,
	} {
		t.Run(name, func(t *testing.T) {
			env := newTestEnv(t)
			u := seedUser(t, env, "ana", "pw", "")

			rec := httptest.NewRecorder()
			env.Router.ServeHTTP(rec, signedIn(t, env, themeRequest(body), u.ID))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			var resp api.ThemeResponse
			_ = json.NewDecoder(rec.Body).Decode(&resp)
			if resp.Status != "error" || resp.Message == "" {
				t.Errorf("got %+v, want error status with message", resp)
			}
		})
	}
}

func TestTheme_Unauthenticated(t *testing.T) {
	env := newTestEnv(t)
	rec := httptest.NewRecorder()
	env.Router.ServeHTTP(rec, themeRequest(`{"theme":"dark"}`))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}
