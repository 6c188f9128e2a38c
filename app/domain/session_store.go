package domain

import "sync"

// AuthStateHandler receives auth-state transitions from a SessionStore
type AuthStateHandler func(event AuthEvent)

// SessionStore is the in-memory mirror of one client's current session.
// It plays the role the hosted auth SDK plays on a browser client: a
// synchronous current-user accessor plus an event subscription for
// auth-state transitions. Set and Clear notify every subscriber exactly
// once per transition.
type SessionStore struct {
	mu      sync.RWMutex
	session *Session
	subs    map[int]AuthStateHandler
	nextID  int
}

// NewSessionStore creates an empty session store
func NewSessionStore() *SessionStore {
	return &SessionStore{
		subs: make(map[int]AuthStateHandler),
	}
}

// CurrentSession returns the stored session, nil when anonymous
func (s *SessionStore) CurrentSession() *Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.session
}

// CurrentUser returns the user of the stored session, nil when anonymous.
// This is the synchronous accessor the controller reads on mount.
func (s *SessionStore) CurrentUser() *User {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil
	}
	return s.session.User
}

// Set stores the session and notifies subscribers with the given event type
func (s *SessionStore) Set(session *Session, event AuthEventType) {
	s.mu.Lock()
	s.session = session
	handlers := s.handlersLocked()
	s.mu.Unlock()

	notify(handlers, AuthEvent{Type: event, Session: session})
}

// Clear drops the session and notifies subscribers with a sign-out event
func (s *SessionStore) Clear() {
	s.mu.Lock()
	s.session = nil
	handlers := s.handlersLocked()
	s.mu.Unlock()

	notify(handlers, AuthEvent{Type: EventSignedOut, Session: nil})
}

// Adopt replaces the stored session without emitting an event. Used when
// reconciling the in-memory copy with the session cookie on navigation;
// reconciliation is not an auth-state occurrence.
func (s *SessionStore) Adopt(session *Session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = session
}

// OnAuthStateChange subscribes to auth-state transitions. The returned
// function removes the subscription; it is safe to call more than once.
func (s *SessionStore) OnAuthStateChange(handler AuthStateHandler) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = handler
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// handlersLocked snapshots the subscriber list; caller holds the lock
func (s *SessionStore) handlersLocked() []AuthStateHandler {
	handlers := make([]AuthStateHandler, 0, len(s.subs))
	for _, h := range s.subs {
		handlers = append(handlers, h)
	}
	return handlers
}

func notify(handlers []AuthStateHandler, event AuthEvent) {
	for _, h := range handlers {
		h(event)
	}
}
