package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yeremiapane/burger-storefront/database"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var errStorageDown = errors.New("storage unavailable")

// memStorage is an in-memory SnapshotStorage with switchable write failures.
type memStorage struct {
	mu       sync.Mutex
	data     map[string]string
	failPut  bool
	putCalls int
}

func newMemStorage() *memStorage {
	return &memStorage{data: make(map[string]string)}
}

func (m *memStorage) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.data[sessionID+"|"+key]
	return v, ok, nil
}

func (m *memStorage) Put(_ context.Context, sessionID, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.putCalls++
	if m.failPut {
		return errStorageDown
	}
	m.data[sessionID+"|"+key] = value
	return nil
}

func (m *memStorage) Delete(_ context.Context, sessionID, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, sessionID+"|"+key)
	return nil
}

func (m *memStorage) raw(sessionID, key string) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.data[sessionID+"|"+key]
}

// openTestDB opens a migrated in-memory sqlite database private to the test.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.AutoMigrate(db))
	return db
}
