package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yeremiapane/burger-storefront/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SnapshotStore keeps one value per (session, key). Writes replace the whole
// value, there is no partial update.
type SnapshotStore struct {
	DB *gorm.DB
}

func NewSnapshotStore(db *gorm.DB) *SnapshotStore {
	return &SnapshotStore{DB: db}
}

// Get returns the stored value and whether it exists.
func (s *SnapshotStore) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	var entry models.StorageEntry
	err := s.DB.WithContext(ctx).
		Where("session_id = ? AND storage_key = ?", sessionID, key).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %s: %w", key, err)
	}
	return entry.Value, true, nil
}

func (s *SnapshotStore) Put(ctx context.Context, sessionID, key, value string) error {
	now := time.Now()
	entry := models.StorageEntry{
		SessionID:  sessionID,
		StorageKey: key,
		Value:      value,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	err := s.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "session_id"}, {Name: "storage_key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("put %s: %w", key, err)
	}
	return nil
}

func (s *SnapshotStore) Delete(ctx context.Context, sessionID, key string) error {
	err := s.DB.WithContext(ctx).
		Where("session_id = ? AND storage_key = ?", sessionID, key).
		Delete(&models.StorageEntry{}).Error
	if err != nil {
		return fmt.Errorf("delete %s: %w", key, err)
	}
	return nil
}

// PurgeOlderThan drops every entry untouched since cutoff.
func (s *SnapshotStore) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	res := s.DB.WithContext(ctx).Where("updated_at < ?", cutoff).Delete(&models.StorageEntry{})
	if res.Error != nil {
		return 0, fmt.Errorf("purge storage: %w", res.Error)
	}
	return res.RowsAffected, nil
}
