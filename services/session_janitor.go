package services

import (
	"context"
	"time"

	"github.com/yeremiapane/burger-storefront/utils"
)

// StoragePurger removes storage entries untouched since cutoff.
type StoragePurger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// IdleSweeper forgets in-memory per-session state untouched since cutoff.
type IdleSweeper interface {
	ForgetIdleSince(cutoff time.Time) int
}

// SessionJanitor periodically drops storage and in-memory state of expired
// sessions.
type SessionJanitor struct {
	Purger   StoragePurger
	Sweepers []IdleSweeper
	TTL      time.Duration
	Interval time.Duration
	StopChan chan struct{}
	OnPurge  func(removed int64)
}

func NewSessionJanitor(purger StoragePurger, ttl time.Duration) *SessionJanitor {
	return &SessionJanitor{
		Purger:   purger,
		TTL:      ttl,
		Interval: 1 * time.Hour,
		StopChan: make(chan struct{}),
	}
}

func (j *SessionJanitor) Start() {
	go func() {
		ticker := time.NewTicker(j.Interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				j.Sweep(context.Background())
			case <-j.StopChan:
				return
			}
		}
	}()
	utils.Info().Println("Session janitor started")
}

func (j *SessionJanitor) Stop() {
	close(j.StopChan)
}

// Sweep runs one purge pass.
func (j *SessionJanitor) Sweep(ctx context.Context) {
	cutoff := time.Now().Add(-j.TTL)
	for _, sw := range j.Sweepers {
		if n := sw.ForgetIdleSince(cutoff); n > 0 {
			utils.Info().WithField("dropped", n).Info("Dropped idle session state")
		}
	}

	removed, err := j.Purger.PurgeOlderThan(ctx, cutoff)
	if err != nil {
		utils.Error().Errorf("Error purging expired sessions: %v", err)
		return
	}
	if removed > 0 {
		utils.Info().WithField("removed", removed).Info("Purged expired session storage")
	}
	if j.OnPurge != nil {
		j.OnPurge(removed)
	}
}
