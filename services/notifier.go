package services

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/yeremiapane/burger-storefront/models"
	"github.com/yeremiapane/burger-storefront/utils"
)

const (
	ToastSuccess = "success"
	ToastError   = "error"
	ToastInfo    = "info"
)

// Toast is a short user-facing notification.
type Toast struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type Notifier interface {
	Notify(ctx context.Context, toast Toast)
}

type NotifierFunc func(ctx context.Context, toast Toast)

func (f NotifierFunc) Notify(ctx context.Context, toast Toast) { f(ctx, toast) }

// MultiNotifier fans a toast out to every notifier.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, toast Toast) {
	for _, n := range m {
		if n != nil {
			n.Notify(ctx, toast)
		}
	}
}

// ToastRecorder keeps toasts in memory, in order.
type ToastRecorder struct {
	mu     sync.Mutex
	toasts []Toast
}

func (r *ToastRecorder) Notify(_ context.Context, toast Toast) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toasts = append(r.toasts, toast)
}

func (r *ToastRecorder) Toasts() []Toast {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Toast, len(r.toasts))
	copy(out, r.toasts)
	return out
}

// FlashStore queues toasts in session storage so they survive the redirect
// that follows a form post; the next rendered page drains them.
type FlashStore struct {
	storage   SnapshotStorage
	sessionID string
}

func NewFlashStore(storage SnapshotStorage, sessionID string) *FlashStore {
	return &FlashStore{storage: storage, sessionID: sessionID}
}

func (f *FlashStore) Notify(ctx context.Context, toast Toast) {
	pending := f.read(ctx)
	pending = append(pending, toast)
	raw, err := json.Marshal(pending)
	if err != nil {
		return
	}
	if err := f.storage.Put(ctx, f.sessionID, models.FlashStorageKey, string(raw)); err != nil {
		utils.Error().WithField("session", f.sessionID).Errorf("Error queueing toast: %v", err)
	}
}

// Drain returns and forgets every queued toast.
func (f *FlashStore) Drain(ctx context.Context) []Toast {
	pending := f.read(ctx)
	if len(pending) == 0 {
		return nil
	}
	if err := f.storage.Delete(ctx, f.sessionID, models.FlashStorageKey); err != nil {
		utils.Error().WithField("session", f.sessionID).Errorf("Error clearing toasts: %v", err)
	}
	return pending
}

func (f *FlashStore) read(ctx context.Context) []Toast {
	raw, ok, err := f.storage.Get(ctx, f.sessionID, models.FlashStorageKey)
	if err != nil || !ok {
		return nil
	}
	var toasts []Toast
	if err := json.Unmarshal([]byte(raw), &toasts); err != nil {
		return nil
	}
	return toasts
}
