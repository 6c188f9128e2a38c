package domain

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// CSRFToken protects the cookie-mutating auth endpoints. Tokens are
// one-time use and bound to the client context that requested them.
type CSRFToken struct {
	Token     string    `json:"token"`
	ClientID  string    `json:"client_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// NewCSRFToken creates a new CSRF token for a client context
func NewCSRFToken(clientID string, tokenLength int, duration time.Duration) (*CSRFToken, error) {
	if clientID == "" {
		return nil, fmt.Errorf("client ID is required")
	}

	if tokenLength <= 0 {
		tokenLength = 32
	}

	if duration <= 0 {
		return nil, fmt.Errorf("token duration must be positive")
	}

	tokenBytes := make([]byte, tokenLength)
	if _, err := rand.Read(tokenBytes); err != nil {
		return nil, fmt.Errorf("failed to generate random token: %w", err)
	}

	now := time.Now()

	return &CSRFToken{
		Token:     hex.EncodeToString(tokenBytes),
		ClientID:  clientID,
		ExpiresAt: now.Add(duration),
		CreatedAt: now,
	}, nil
}

// IsExpired returns true if the token is past its expiry
func (c *CSRFToken) IsExpired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Validate checks that the provided token matches this one, belongs to
// the same client context, and has not expired
func (c *CSRFToken) Validate(token, clientID string) error {
	if token == "" {
		return fmt.Errorf("token is required")
	}

	if c.Token != token {
		return fmt.Errorf("token mismatch")
	}

	if c.ClientID != clientID {
		return fmt.Errorf("token client mismatch")
	}

	if c.IsExpired() {
		return fmt.Errorf("token expired")
	}

	return nil
}
