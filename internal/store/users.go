package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

type User struct {
	ID               string       `db:"id"`
	Username         string       `db:"username"`
	PasswordHash     string       `db:"password_hash"`
	DisplayName      string       `db:"display_name"`
	Theme            Theme        `db:"theme"`
	AllowedIPAddress string       `db:"allowed_ip_address"`
	LastActivity     sql.NullTime `db:"last_activity"`
	CreatedAt        time.Time    `db:"created_at"`
	UpdatedAt        time.Time    `db:"updated_at"`
}

// IsDark reports whether the user prefers the dark theme.
func (u *User) IsDark() bool {
	return u.Theme == ThemeDark
}

// Name returns the display name, falling back to the username.
func (u *User) Name() string {
	if u.DisplayName != "" {
		return u.DisplayName
	}
	return u.Username
}

type UserStore struct {
	db *sqlx.DB
}

func NewUserStore(db *sqlx.DB) *UserStore {
	return &UserStore{db: db}
}

// q rebinds ? placeholders for the active driver.
func (s *UserStore) q(query string) string { return s.db.Rebind(query) }

// Create inserts a new user with the light theme. allowedIP may be empty,
// meaning logins are accepted from any address.
func (s *UserStore) Create(ctx context.Context, username, passwordHash, displayName, allowedIP string) (*User, error) {
	if err := ValidateUsername(username); err != nil {
		return nil, err
	}
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO users (id, username, password_hash, display_name, theme, allowed_ip_address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`), id, username, passwordHash, displayName, ThemeLight, allowedIP, now, now)
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrUsernameTaken
		}
		return nil, err
	}
	return s.GetByID(ctx, id)
}

func (s *UserStore) GetByID(ctx context.Context, id string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// GetByUsername returns the user matching username, or ErrNotFound.
func (s *UserStore) GetByUsername(ctx context.Context, username string) (*User, error) {
	var u User
	err := s.db.GetContext(ctx, &u, s.q(`SELECT * FROM users WHERE username = ?`), username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

// SetTheme persists the theme preference for the given user.
func (s *UserStore) SetTheme(ctx context.Context, id string, theme Theme) error {
	if _, err := ParseTheme(string(theme)); err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, s.q(`UPDATE users SET theme = ?, updated_at = ? WHERE id = ?`),
		theme, time.Now().UTC(), id)
	if err != nil {
		return err
	}
	return requireOneRow(res)
}

// TouchActivity stamps last_activity with the current time; updated_at is left unchanged.
func (s *UserStore) TouchActivity(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, s.q(`UPDATE users SET last_activity = ? WHERE id = ?`),
		time.Now().UTC(), id)
	return err
}

func requireOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
