package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Application is a named feature area whose routes need an explicit grant.
type Application struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Description string    `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// ApplicationStore keeps applications and the per-user access grants.
type ApplicationStore struct {
	db *sqlx.DB
}

func NewApplicationStore(db *sqlx.DB) *ApplicationStore {
	return &ApplicationStore{db: db}
}

func (s *ApplicationStore) q(query string) string { return s.db.Rebind(query) }

// Create registers an application. Names are unique and at most 100 characters.
func (s *ApplicationStore) Create(ctx context.Context, name, description string) (*Application, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > 100 {
		return nil, ErrInvalidApplicationName
	}
	id := uuid.New().String()
	_, err := s.db.ExecContext(ctx, s.q(`
		INSERT INTO applications (id, name, description, created_at) VALUES (?, ?, ?, ?)
	`), id, name, description, time.Now().UTC())
	if err != nil {
		if isUniqueConstraintError(err) {
			return nil, ErrApplicationTaken
		}
		return nil, err
	}
	return s.GetByName(ctx, name)
}

// GetByName returns the application called name, or ErrNotFound.
func (s *ApplicationStore) GetByName(ctx context.Context, name string) (*Application, error) {
	var a Application
	err := s.db.GetContext(ctx, &a, s.q(`SELECT * FROM applications WHERE name = ?`), name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// ListForUser returns the applications userID has been granted, by name.
func (s *ApplicationStore) ListForUser(ctx context.Context, userID string) ([]Application, error) {
	apps := []Application{}
	err := s.db.SelectContext(ctx, &apps, s.q(`
		SELECT a.* FROM applications a
		JOIN user_application_access g ON g.application_id = a.id
		WHERE g.user_id = ? AND g.has_access = ?
		ORDER BY a.name
	`), userID, true)
	return apps, err
}

// SetAccess grants or revokes userID's access to the named application.
func (s *ApplicationStore) SetAccess(ctx context.Context, userID, name string, granted bool) error {
	app, err := s.GetByName(ctx, name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	// Delete then insert keeps the upsert portable across drivers.
	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		DELETE FROM user_application_access WHERE user_id = ? AND application_id = ?
	`), userID, app.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, tx.Rebind(`
		INSERT INTO user_application_access (user_id, application_id, has_access) VALUES (?, ?, ?)
	`), userID, app.ID, granted); err != nil {
		return err
	}
	return tx.Commit()
}

// HasAccess reports whether userID holds a grant for the named application.
// An unknown application is never accessible.
func (s *ApplicationStore) HasAccess(ctx context.Context, userID, name string) (bool, error) {
	var n int
	err := s.db.GetContext(ctx, &n, s.q(`
		SELECT COUNT(*) FROM user_application_access g
		JOIN applications a ON a.id = g.application_id
		WHERE g.user_id = ? AND a.name = ? AND g.has_access = ?
	`), userID, name, true)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
