package page_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joestump/sara/internal/client"
	"github.com/joestump/sara/internal/page"
)

func themeOf(t *testing.T, c call) string {
	t.Helper()
	j, ok := c.Payload.(client.JSON)
	require.True(t, ok, "theme is sent as explicit JSON")
	m, ok := j.Value.(map[string]string)
	require.True(t, ok)
	return m["theme"]
}

func TestThemeToggle_FlipsAndPersists(t *testing.T) {
	s := &fakeSender{body: client.Body{"status": "ok"}}
	tt := page.NewThemeToggle(s, "/settings/theme", false)
	assert.Equal(t, "fa-moon", tt.Icon())

	theme, err := tt.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, page.ThemeDark, theme)
	assert.Equal(t, "fa-sun", tt.Icon())

	calls := s.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "/settings/theme", calls[0].URL)
	assert.Equal(t, http.MethodPost, calls[0].Method)
	assert.Equal(t, "dark", themeOf(t, calls[0]))
}

func TestThemeToggle_TwiceRestoresAndSendsOppositeValuesInOrder(t *testing.T) {
	s := &fakeSender{body: client.Body{"status": "ok"}}
	tt := page.NewThemeToggle(s, "/settings/theme", true)

	_, err := tt.Toggle(context.Background())
	require.NoError(t, err)
	_, err = tt.Toggle(context.Background())
	require.NoError(t, err)

	assert.Equal(t, page.ThemeDark, tt.Theme())
	calls := s.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "light", themeOf(t, calls[0]))
	assert.Equal(t, "dark", themeOf(t, calls[1]))
}

func TestThemeToggle_OptimisticOnFailure(t *testing.T) {
	s := &fakeSender{err: errors.New("offline")}
	tt := page.NewThemeToggle(s, "/settings/theme", false)

	theme, err := tt.Toggle(context.Background())
	assert.Error(t, err)
	assert.Equal(t, page.ThemeDark, theme)
	assert.Equal(t, page.ThemeDark, tt.Theme())
}

func TestThemeToggle_NonOKStatusIsFailure(t *testing.T) {
	s := &fakeSender{body: client.Body{"status": "error", "message": "Invalid theme"}}
	tt := page.NewThemeToggle(s, "/settings/theme", false, page.WithRollback())

	theme, err := tt.Toggle(context.Background())
	assert.Error(t, err)
	assert.Equal(t, page.ThemeLight, theme)
	assert.Equal(t, "fa-moon", tt.Icon())
}

func TestThemeToggle_RollbackOnFailure(t *testing.T) {
	s := &fakeSender{err: errors.New("offline")}
	tt := page.NewThemeToggle(s, "/settings/theme", true, page.WithRollback())

	theme, err := tt.Toggle(context.Background())
	assert.Error(t, err)
	assert.Equal(t, page.ThemeDark, theme)
}

func TestThemeToggle_NoEndpointIsLocalOnly(t *testing.T) {
	s := &fakeSender{}
	tt := page.NewThemeToggle(s, "", false)

	theme, err := tt.Toggle(context.Background())
	require.NoError(t, err)
	assert.Equal(t, page.ThemeDark, theme)
	assert.Empty(t, s.Calls())
}
