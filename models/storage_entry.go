package models

import "time"

// StorageEntry is one persisted value for a browser session, e.g. the cart
// snapshot or the theme preference.
type StorageEntry struct {
	ID         uint      `gorm:"primaryKey"`
	SessionID  string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_session_storage_key"`
	StorageKey string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_session_storage_key"`
	Value      string    `gorm:"type:text;not null"`
	CreatedAt  time.Time `gorm:"not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

// Well-known storage keys.
const (
	CartStorageKey  = "restaurantCart"
	ThemeStorageKey = "theme"
	FlashStorageKey = "flash"
)

const (
	ThemeLight = "light"
	ThemeDark  = "dark"
)
