package services

import (
	"context"
	"fmt"

	"github.com/yeremiapane/burger-storefront/models"
)

// ThemeStore persists the light/dark preference of a session.
type ThemeStore struct {
	storage   SnapshotStorage
	sessionID string
}

func NewThemeStore(storage SnapshotStorage, sessionID string) *ThemeStore {
	return &ThemeStore{storage: storage, sessionID: sessionID}
}

// Get returns the saved theme, light when unset or unreadable.
func (t *ThemeStore) Get(ctx context.Context) string {
	v, ok, err := t.storage.Get(ctx, t.sessionID, models.ThemeStorageKey)
	if err != nil || !ok || (v != models.ThemeLight && v != models.ThemeDark) {
		return models.ThemeLight
	}
	return v
}

func (t *ThemeStore) Set(ctx context.Context, theme string) error {
	if theme != models.ThemeLight && theme != models.ThemeDark {
		return fmt.Errorf("unknown theme %q", theme)
	}
	return t.storage.Put(ctx, t.sessionID, models.ThemeStorageKey, theme)
}

// Toggle flips between light and dark and returns the new theme.
func (t *ThemeStore) Toggle(ctx context.Context) (string, error) {
	next := models.ThemeDark
	if t.Get(ctx) == models.ThemeDark {
		next = models.ThemeLight
	}
	if err := t.Set(ctx, next); err != nil {
		return "", err
	}
	return next, nil
}
