// Package preferences stores per-reader settings of the dev server, such as
// the light/dark theme, keyed by an anonymous client id.
package preferences

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ziadkadry99/blogdeck/internal/db"
)

// Theme is the colour scheme of the blog pages.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
)

const keyTheme = "theme"

// ErrInvalidTheme is returned for a theme other than light or dark.
var ErrInvalidTheme = errors.New("preferences: theme must be light or dark")

// ParseTheme validates a theme name.
func ParseTheme(s string) (Theme, error) {
	switch Theme(s) {
	case ThemeLight, ThemeDark:
		return Theme(s), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidTheme, s)
}

// Toggled returns the other theme.
func (t Theme) Toggled() Theme {
	if t == ThemeDark {
		return ThemeLight
	}
	return ThemeDark
}

// Store provides access to stored preferences.
type Store struct {
	db *db.DB
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// Get returns the value of key for clientID and whether it was set.
func (s *Store) Get(ctx context.Context, clientID, key string) (string, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM preferences WHERE client_id = ? AND key = ?`,
		clientID, key,
	).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("reading preference %s: %w", key, err)
	}
	return value, true, nil
}

// Set stores value for key, replacing any previous value.
func (s *Store) Set(ctx context.Context, clientID, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO preferences (client_id, key, value) VALUES (?, ?, ?)
		ON CONFLICT (client_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = datetime('now')`,
		clientID, key, value,
	)
	if err != nil {
		return fmt.Errorf("writing preference %s: %w", key, err)
	}
	return nil
}

// Theme returns the client's theme, light when none is stored.
func (s *Store) Theme(ctx context.Context, clientID string) (Theme, error) {
	v, ok, err := s.Get(ctx, clientID, keyTheme)
	if err != nil || !ok {
		return ThemeLight, err
	}
	t, err := ParseTheme(v)
	if err != nil {
		return ThemeLight, nil
	}
	return t, nil
}

// SetTheme stores the client's theme.
func (s *Store) SetTheme(ctx context.Context, clientID string, t Theme) error {
	if _, err := ParseTheme(string(t)); err != nil {
		return err
	}
	return s.Set(ctx, clientID, keyTheme, string(t))
}

// ToggleTheme flips the client's theme and returns the new one.
func (s *Store) ToggleTheme(ctx context.Context, clientID string) (Theme, error) {
	current, err := s.Theme(ctx, clientID)
	if err != nil {
		return "", err
	}
	next := current.Toggled()
	if err := s.SetTheme(ctx, clientID, next); err != nil {
		return "", err
	}
	return next, nil
}
