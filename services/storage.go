package services

import "context"

// SnapshotStorage is the per-session key/value persistence the stores write
// their snapshots to. database.SnapshotStore implements it.
type SnapshotStorage interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Put(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID, key string) error
}
