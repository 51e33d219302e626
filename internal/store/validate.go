package store

import (
	"errors"
	"fmt"
	"regexp"
)

// Theme is a user's persisted colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

var (
	// ErrUsernameInvalid is returned when a username does not match the allowed pattern.
	ErrUsernameInvalid = errors.New("username must be 1-150 characters of letters, digits and @.+-_")

	// ErrInvalidTheme is returned when a theme value is not one of light, dark.
	ErrInvalidTheme = errors.New("theme must be one of: light, dark")

	usernameRe = regexp.MustCompile(`^[\w.@+-]{1,150}$`)
)

// ValidateUsername checks that username conforms to the allowed format. It does
// NOT check uniqueness, which is enforced by the unique index on users.username.
func ValidateUsername(username string) error {
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("%w: %q", ErrUsernameInvalid, username)
	}
	return nil
}

// ParseTheme validates s and returns it as a Theme.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", ErrInvalidTheme
}
