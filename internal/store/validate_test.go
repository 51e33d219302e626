package store

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateUsername(t *testing.T) {
	tests := []struct {
		name     string
		username string
		wantErr  error
	}{
		{name: "simple", username: "ana", wantErr: nil},
		{name: "single char", username: "a", wantErr: nil},
		{name: "email style", username: "ana.silva@example.com", wantErr: nil},
		{name: "plus and dash", username: "ana+ops-2", wantErr: nil},
		{name: "underscore", username: "ana_silva", wantErr: nil},
		{name: "max length", username: strings.Repeat("a", 150), wantErr: nil},

		{name: "empty", username: "", wantErr: ErrUsernameInvalid},
		{name: "too long", username: strings.Repeat("a", 151), wantErr: ErrUsernameInvalid},
		{name: "space", username: "ana silva", wantErr: ErrUsernameInvalid},
		{name: "slash", username: "ana/silva", wantErr: ErrUsernameInvalid},
		{name: "colon", username: "ana:pw", wantErr: ErrUsernameInvalid},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUsername(tt.username)
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("ValidateUsername(%q) = %v, want nil", tt.username, err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateUsername(%q) = %v, want %v", tt.username, err, tt.wantErr)
			}
		})
	}
}

func TestParseTheme(t *testing.T) {
	for _, s := range []string{"light", "dark"} {
		got, err := ParseTheme(s)
		if err != nil || string(got) != s {
			t.Errorf("ParseTheme(%q) = %q, %v", s, got, err)
		}
	}
	for _, s := range []string{"", "Dark", "auto", "joe-dark"} {
		if _, err := ParseTheme(s); !errors.Is(err, ErrInvalidTheme) {
			t.Errorf("ParseTheme(%q) error = %v, want ErrInvalidTheme", s, err)
		}
	}
}
