package domain

// AuthEventType identifies an auth-state transition reported by the
// session store.
type AuthEventType string

const (
	EventSignedIn         AuthEventType = "SIGNED_IN"
	EventSignedOut        AuthEventType = "SIGNED_OUT"
	EventTokenRefreshed   AuthEventType = "TOKEN_REFRESHED"
	EventUserUpdated      AuthEventType = "USER_UPDATED"
	EventPasswordRecovery AuthEventType = "PASSWORD_RECOVERY"
)

// Valid reports whether the event type is one of the known transitions
func (t AuthEventType) Valid() bool {
	switch t {
	case EventSignedIn, EventSignedOut, EventTokenRefreshed, EventUserUpdated, EventPasswordRecovery:
		return true
	}
	return false
}

// SignedIn reports whether the event carries an authenticated session
func (t AuthEventType) SignedIn() bool {
	switch t {
	case EventSignedIn, EventTokenRefreshed, EventUserUpdated, EventPasswordRecovery:
		return true
	}
	return false
}

// AuthEvent is produced by the session store on every auth-state
// transition and consumed exactly once per occurrence by the auth state
// controller, which forwards it to the server-side session mirror.
type AuthEvent struct {
	Type    AuthEventType `json:"event"`
	Session *Session      `json:"session"`
}

// User returns the user carried by the event payload, nil on sign-out
func (e AuthEvent) User() *User {
	if e.Session == nil {
		return nil
	}
	return e.Session.User
}
