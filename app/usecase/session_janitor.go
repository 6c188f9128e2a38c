package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"postboard/app/port"
)

const (
	sessionPurgeInterval = 5 * time.Minute
	sessionPurgeTimeout  = 30 * time.Second
)

// SessionJanitor deletes expired mirrored sessions on a fixed cadence
// so the mirror table does not grow without bound.
type SessionJanitor struct {
	sessionRepo port.SessionRepository
	logger      *slog.Logger

	done chan struct{}
	once sync.Once
}

// NewSessionJanitor creates a janitor and starts its purge loop
func NewSessionJanitor(sessionRepo port.SessionRepository, logger *slog.Logger) *SessionJanitor {
	j := &SessionJanitor{
		sessionRepo: sessionRepo,
		logger:      logger.With("component", "session_janitor"),
		done:        make(chan struct{}),
	}

	go j.purgeLoop()

	return j
}

// Close stops the purge loop. Idempotent.
func (j *SessionJanitor) Close() {
	j.once.Do(func() {
		close(j.done)
	})
}

func (j *SessionJanitor) purgeLoop() {
	ticker := time.NewTicker(sessionPurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-j.done:
			return
		case <-ticker.C:
			j.purge()
		}
	}
}

func (j *SessionJanitor) purge() {
	ctx, cancel := context.WithTimeout(context.Background(), sessionPurgeTimeout)
	defer cancel()

	deleted, err := j.sessionRepo.DeleteExpired(ctx)
	if err != nil {
		j.logger.Error("failed to purge expired sessions", "error", err)
		return
	}

	if deleted > 0 {
		j.logger.Info("purged expired sessions", "deleted", deleted)
	}
}
