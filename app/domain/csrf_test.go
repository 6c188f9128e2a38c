package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewCSRFToken(t *testing.T) {
	token, err := NewCSRFToken("client-123", 32, 30*time.Minute)
	require.NoError(t, err)

	assert.Len(t, token.Token, 64) // hex encoding doubles the byte length
	assert.Equal(t, "client-123", token.ClientID)
	assert.False(t, token.IsExpired())
}

func TestNewCSRFToken_RequiresClientID(t *testing.T) {
	_, err := NewCSRFToken("", 32, 30*time.Minute)
	assert.Error(t, err)
}

func TestNewCSRFToken_RequiresPositiveDuration(t *testing.T) {
	_, err := NewCSRFToken("client-123", 32, 0)
	assert.Error(t, err)
}

func TestCSRFToken_Validate(t *testing.T) {
	token, err := NewCSRFToken("client-123", 32, 30*time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name     string
		token    string
		clientID string
		wantErr  bool
	}{
		{name: "valid", token: token.Token, clientID: "client-123", wantErr: false},
		{name: "empty token", token: "", clientID: "client-123", wantErr: true},
		{name: "token mismatch", token: "other-token", clientID: "client-123", wantErr: true},
		{name: "client mismatch", token: token.Token, clientID: "client-456", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := token.Validate(tt.token, tt.clientID)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestCSRFToken_ValidateExpired(t *testing.T) {
	token, err := NewCSRFToken("client-123", 32, time.Nanosecond)
	require.NoError(t, err)

	time.Sleep(time.Millisecond)
	assert.Error(t, token.Validate(token.Token, "client-123"))
}
