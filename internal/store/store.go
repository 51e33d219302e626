package store

import (
	"context"
	"errors"
	"strings"
)

var (
	// ErrNotFound is returned when a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrUsernameTaken is returned when creating a user whose username already exists.
	ErrUsernameTaken = errors.New("username is already taken")

	// ErrApplicationTaken is returned when creating an application whose name already exists.
	ErrApplicationTaken = errors.New("application name is already taken")

	ErrInvalidApplicationName = errors.New("application name must be 1 to 100 characters")
)

// UserStoreIface exposes all user data operations used by the HTTP layer.
type UserStoreIface interface {
	Create(ctx context.Context, username, passwordHash, displayName, allowedIP string) (*User, error)
	GetByID(ctx context.Context, id string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	SetTheme(ctx context.Context, id string, theme Theme) error
	TouchActivity(ctx context.Context, id string) error
}

// ApplicationStoreIface exposes the application access operations used by
// the HTTP layer.
type ApplicationStoreIface interface {
	ListForUser(ctx context.Context, userID string) ([]Application, error)
	GetByName(ctx context.Context, name string) (*Application, error)
	HasAccess(ctx context.Context, userID, name string) (bool, error)
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") || // SQLite & PostgreSQL
		strings.Contains(msg, "duplicate key") || // PostgreSQL
		strings.Contains(msg, "duplicate entry") // MySQL
}
