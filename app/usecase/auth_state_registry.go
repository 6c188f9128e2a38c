package usecase

import (
	"log/slog"
	"sync"
	"time"

	"postboard/app/port"
)

// AuthStateRegistry holds one AuthState controller per client context,
// keyed by the client identity cookie. Entries idle past the TTL are
// stopped and evicted by a background sweep.
type AuthStateRegistry struct {
	authUsecase port.AuthUsecase
	syncUsecase port.SessionSyncUsecase
	logger      *slog.Logger

	messageCapacity          int
	redirectToProfileOnLogin bool
	idleTTL                  time.Duration

	mu      sync.Mutex
	entries map[string]*registryEntry
	done    chan struct{}
	once    sync.Once
}

type registryEntry struct {
	state    *AuthState
	lastSeen time.Time
}

// NewAuthStateRegistry creates a registry and starts its eviction sweep
func NewAuthStateRegistry(
	authUsecase port.AuthUsecase,
	syncUsecase port.SessionSyncUsecase,
	messageCapacity int,
	redirectToProfileOnLogin bool,
	idleTTL time.Duration,
	logger *slog.Logger,
) *AuthStateRegistry {
	r := &AuthStateRegistry{
		authUsecase:              authUsecase,
		syncUsecase:              syncUsecase,
		logger:                   logger.With("component", "auth_state_registry"),
		messageCapacity:          messageCapacity,
		redirectToProfileOnLogin: redirectToProfileOnLogin,
		idleTTL:                  idleTTL,
		entries:                  make(map[string]*registryEntry),
		done:                     make(chan struct{}),
	}

	go r.evictIdle()

	return r
}

// Get returns the controller for the client context, creating and
// starting one on first sight
func (r *AuthStateRegistry) Get(clientID string) *AuthState {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[clientID]
	if !ok {
		state := NewAuthState(
			r.authUsecase,
			r.syncUsecase,
			r.messageCapacity,
			r.redirectToProfileOnLogin,
			r.logger,
		)
		state.Start()

		entry = &registryEntry{state: state}
		r.entries[clientID] = entry
	}
	entry.lastSeen = time.Now()

	return entry.state
}

// Remove stops and drops the controller for the client context
func (r *AuthStateRegistry) Remove(clientID string) {
	r.mu.Lock()
	entry, ok := r.entries[clientID]
	delete(r.entries, clientID)
	r.mu.Unlock()

	if ok {
		entry.state.Stop()
	}
}

// Len returns the number of live controllers
func (r *AuthStateRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// Close stops the eviction sweep and every live controller
func (r *AuthStateRegistry) Close() {
	r.once.Do(func() {
		close(r.done)
	})

	r.mu.Lock()
	entries := r.entries
	r.entries = make(map[string]*registryEntry)
	r.mu.Unlock()

	for _, entry := range entries {
		entry.state.Stop()
	}
}

func (r *AuthStateRegistry) evictIdle() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-r.done:
			return
		case <-ticker.C:
			r.sweep()
		}
	}
}

func (r *AuthStateRegistry) sweep() {
	cutoff := time.Now().Add(-r.idleTTL)

	r.mu.Lock()
	var expired []*registryEntry
	for id, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			expired = append(expired, entry)
			delete(r.entries, id)
		}
	}
	remaining := len(r.entries)
	r.mu.Unlock()

	for _, entry := range expired {
		entry.state.Stop()
	}

	if len(expired) > 0 {
		r.logger.Debug("evicted idle auth states",
			"evicted", len(expired),
			"remaining", remaining)
	}
}
