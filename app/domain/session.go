package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Session represents the bearer session issued by the auth backend.
// It is mirrored into a same-origin cookie and into the per-client
// SessionStore; at most one session is active per client context.
type Session struct {
	Token     string    `json:"access_token"`
	TokenType string    `json:"token_type"`
	User      *User     `json:"user"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired returns true if the session has expired
func (s *Session) IsExpired() bool {
	return !s.ExpiresAt.IsZero() && time.Now().After(s.ExpiresAt)
}

// IsValid returns true if the session carries a token and has not expired
func (s *Session) IsValid() bool {
	return s != nil && s.Token != "" && !s.IsExpired()
}

// MirroredSession is the server-side copy of a client session, kept in
// Postgres so server-rendered requests observe the same session the
// client store holds.
type MirroredSession struct {
	ID             uuid.UUID `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	UserEmail      string    `json:"user_email"`
	Token          string    `json:"token"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
	ExpiresAt      time.Time `json:"expires_at"`
	UpdatedAt      time.Time `json:"updated_at"`
	LastActivityAt time.Time `json:"last_activity_at"`
}

// NewMirroredSession creates a server-side session mirror with validation
func NewMirroredSession(session *Session, duration time.Duration) (*MirroredSession, error) {
	if session == nil || session.Token == "" {
		return nil, fmt.Errorf("session token is required")
	}

	if session.User == nil {
		return nil, fmt.Errorf("session user is required")
	}

	if duration <= 0 {
		return nil, fmt.Errorf("session duration must be positive")
	}

	now := time.Now()
	expiresAt := session.ExpiresAt
	if expiresAt.IsZero() {
		expiresAt = now.Add(duration)
	}

	return &MirroredSession{
		ID:             uuid.New(),
		UserID:         session.User.ID,
		UserEmail:      session.User.Email,
		Token:          session.Token,
		Active:         true,
		CreatedAt:      now,
		ExpiresAt:      expiresAt,
		UpdatedAt:      now,
		LastActivityAt: now,
	}, nil
}

// IsExpired returns true if the mirrored session has expired
func (m *MirroredSession) IsExpired() bool {
	return time.Now().After(m.ExpiresAt)
}

// IsValid returns true if the mirrored session is active and not expired
func (m *MirroredSession) IsValid() bool {
	return m.Active && !m.IsExpired()
}

// UpdateActivity updates the last activity timestamp
func (m *MirroredSession) UpdateActivity() {
	now := time.Now()
	m.LastActivityAt = now
	m.UpdatedAt = now
}

// Deactivate marks the mirrored session as inactive
func (m *MirroredSession) Deactivate() {
	m.Active = false
	m.UpdatedAt = time.Now()
}
