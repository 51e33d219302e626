package page

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"github.com/rs/zerolog"

	"github.com/joestump/sara/internal/client"
)

// Theme is the page colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const (
	iconDark  = "fa-sun"
	iconLight = "fa-moon"
)

// ThemeToggle flips the dark marker and persists the choice. By default the
// update is optimistic: a failed save is logged and the new theme stays.
type ThemeToggle struct {
	mu       sync.Mutex
	sender   Sender
	endpoint string
	dark     bool
	rollback bool
	logger   zerolog.Logger
}

// ThemeOption configures a ThemeToggle.
type ThemeOption func(*ThemeToggle)

// WithRollback reverts the toggle when the save fails.
func WithRollback() ThemeOption {
	return func(t *ThemeToggle) { t.rollback = true }
}

// WithThemeLogger sets the logger for failed saves.
func WithThemeLogger(l zerolog.Logger) ThemeOption {
	return func(t *ThemeToggle) { t.logger = l }
}

// NewThemeToggle returns a toggle starting in the given state. endpoint is
// the save URL taken from the page; when empty, toggles are local only.
func NewThemeToggle(sender Sender, endpoint string, dark bool, opts ...ThemeOption) *ThemeToggle {
	t := &ThemeToggle{sender: sender, endpoint: endpoint, dark: dark, logger: zerolog.Nop()}
	for _, o := range opts {
		o(t)
	}
	return t
}

// Theme returns the current theme.
func (t *ThemeToggle) Theme() Theme {
	t.mu.Lock()
	defer t.mu.Unlock()
	return themeOf(t.dark)
}

// Icon returns the status icon class matching the current theme.
func (t *ThemeToggle) Icon() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.dark {
		return iconDark
	}
	return iconLight
}

// Endpoint returns the save URL.
func (t *ThemeToggle) Endpoint() string { return t.endpoint }

// Toggle flips the theme, then saves it. The returned theme is the one in
// effect afterwards; the error reports a failed save.
func (t *ThemeToggle) Toggle(ctx context.Context) (Theme, error) {
	t.mu.Lock()
	t.dark = !t.dark
	dark := t.dark
	t.mu.Unlock()

	theme := themeOf(dark)
	if t.endpoint == "" {
		return theme, nil
	}

	err := t.save(ctx, theme)
	if err == nil {
		return theme, nil
	}

	t.logger.Warn().Err(err).Str("theme", string(theme)).Msg("theme preference not saved")
	if !t.rollback {
		return theme, err
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	// Only undo our own flip; a later toggle owns the state otherwise.
	if t.dark == dark {
		t.dark = !dark
	}
	return themeOf(t.dark), err
}

func (t *ThemeToggle) save(ctx context.Context, theme Theme) error {
	body, err := t.sender.Send(ctx, t.endpoint, http.MethodPost,
		client.JSON{Value: map[string]string{"theme": string(theme)}})
	if err != nil {
		return err
	}
	if status := body.String("status"); status != "ok" {
		return fmt.Errorf("save theme: unexpected status %q", status)
	}
	return nil
}

func themeOf(dark bool) Theme {
	if dark {
		return ThemeDark
	}
	return ThemeLight
}
