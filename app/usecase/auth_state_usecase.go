package usecase

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"postboard/app/domain"
	"postboard/app/port"
	apperrors "postboard/app/utils/errors"
)

// AuthStatus is the lifecycle state of one client's auth controller
type AuthStatus string

const (
	// StatusInitializing holds until the first session read completes;
	// route guards must not redirect while in this state.
	StatusInitializing  AuthStatus = "INITIALIZING"
	StatusAuthenticated AuthStatus = "AUTHENTICATED"
	StatusAnonymous     AuthStatus = "ANONYMOUS"
)

const (
	routeSignIn  = "/auth"
	routeProfile = "/profile"

	msgLoginSuccess     = "Log in successful."
	msgLogoutSuccess    = "Log out successful."
	msgSignupSuccess    = "Signup successful. Please check your inbox for a confirmation email!"
	msgPasswordMismatch = "Typed passwords are not identical"
	msgPasswordUpdated  = "Password updated successfully."
)

// Snapshot is a point-in-time view of one client's auth state, rendered
// into page props.
type Snapshot struct {
	Status  AuthStatus   `json:"status"`
	User    *domain.User `json:"user"`
	Loading bool         `json:"loading"`
}

// AuthState is the per-client auth state controller. It owns a session
// store mirror, reacts to every auth-state transition exactly once
// (updating its status, forwarding the event to the server-side session
// mirror, and navigating), and runs the credential operations pages
// invoke. All methods are safe for concurrent use.
type AuthState struct {
	authUsecase port.AuthUsecase
	syncUsecase port.SessionSyncUsecase
	store       *domain.SessionStore
	messages    *domain.MessageRing
	navigator   port.Navigator
	logger      *slog.Logger

	redirectToProfileOnLogin bool

	mu          sync.RWMutex
	status      AuthStatus
	loading     bool
	unsubscribe func()
}

// NewAuthState creates a controller bound to a fresh session store
func NewAuthState(
	authUsecase port.AuthUsecase,
	syncUsecase port.SessionSyncUsecase,
	messageCapacity int,
	redirectToProfileOnLogin bool,
	logger *slog.Logger,
) *AuthState {
	return &AuthState{
		authUsecase:              authUsecase,
		syncUsecase:              syncUsecase,
		store:                    domain.NewSessionStore(),
		messages:                 domain.NewMessageRing(messageCapacity),
		navigator:                port.NavigatorFunc(func(string) {}),
		logger:                   logger.With("component", "auth_state"),
		redirectToProfileOnLogin: redirectToProfileOnLogin,
		status:                   StatusInitializing,
	}
}

// Start performs the initial session read and subscribes to auth-state
// transitions. The synchronous read settles the status before any event
// can arrive, so guards never act on INITIALIZING longer than one call.
func (a *AuthState) Start() {
	a.mu.Lock()
	if a.unsubscribe != nil {
		a.mu.Unlock()
		return
	}

	if a.store.CurrentUser() != nil {
		a.status = StatusAuthenticated
	} else {
		a.status = StatusAnonymous
	}
	a.mu.Unlock()

	unsubscribe := a.store.OnAuthStateChange(a.handleEvent)

	a.mu.Lock()
	a.unsubscribe = unsubscribe
	a.mu.Unlock()
}

// Stop removes the event subscription. Idempotent.
func (a *AuthState) Stop() {
	a.mu.Lock()
	unsubscribe := a.unsubscribe
	a.unsubscribe = nil
	a.mu.Unlock()

	if unsubscribe != nil {
		unsubscribe()
	}
}

// SetNavigator installs the navigation sink for the in-flight request
func (a *AuthState) SetNavigator(nav port.Navigator) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if nav == nil {
		nav = port.NavigatorFunc(func(string) {})
	}
	a.navigator = nav
}

// Store exposes the controller's session store
func (a *AuthState) Store() *domain.SessionStore {
	return a.store
}

// Snapshot returns the current auth state for page rendering
func (a *AuthState) Snapshot() Snapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return Snapshot{
		Status:  a.status,
		User:    a.store.CurrentUser(),
		Loading: a.loading,
	}
}

// DrainMessages returns and clears the buffered operation feedback
func (a *AuthState) DrainMessages() []domain.Message {
	return a.messages.Drain()
}

// PostMessage buffers one feedback message for the next page render
func (a *AuthState) PostMessage(kind domain.MessageKind, text string) {
	a.messages.Post(domain.Message{Text: text, Kind: kind})
}

// Reconcile adopts the session the server resolver established for this
// request without emitting an event. Resolution confirms what the
// cookie already said; it is not an auth-state transition.
func (a *AuthState) Reconcile(session *domain.Session) {
	a.store.Adopt(session)

	a.mu.Lock()
	defer a.mu.Unlock()
	if session != nil && session.User != nil {
		a.status = StatusAuthenticated
	} else {
		a.status = StatusAnonymous
	}
}

// handleEvent consumes one auth-state transition: settle the status,
// mirror the event server-side, and navigate when the transition calls
// for it.
func (a *AuthState) handleEvent(event domain.AuthEvent) {
	a.mu.Lock()
	if event.User() != nil {
		a.status = StatusAuthenticated
	} else {
		a.status = StatusAnonymous
	}
	nav := a.navigator
	a.mu.Unlock()

	// The mirror write must not block the transition; the page render
	// does not wait on it.
	go func(event domain.AuthEvent) {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.syncUsecase.ApplyEvent(ctx, event); err != nil {
			a.logger.Error("failed to sync auth event", "event", event.Type, "error", err)
		}
	}(event)

	switch {
	case event.Type == domain.EventSignedOut:
		nav.Navigate(routeSignIn)
	case event.Type.SignedIn() && a.redirectToProfileOnLogin:
		nav.Navigate(routeProfile)
	}
}

// SignIn authenticates credentials and, on success, stores the session
// which in turn fires the SIGNED_IN transition. Exactly one message is
// posted per call.
func (a *AuthState) SignIn(ctx context.Context, email, password string) {
	a.setLoading(true)
	defer a.setLoading(false)

	session, err := a.authUsecase.SignIn(ctx, email, password)
	if err != nil {
		a.PostMessage(domain.MessageError, apperrors.Description(err))
		return
	}

	a.store.Set(session, domain.EventSignedIn)
	a.PostMessage(domain.MessageSuccess, msgLoginSuccess)
}

// SignUp registers a new account. Registration does not sign the user
// in; the account must be confirmed first.
func (a *AuthState) SignUp(ctx context.Context, email, password string) {
	a.setLoading(true)
	defer a.setLoading(false)

	if _, err := a.authUsecase.SignUp(ctx, email, password); err != nil {
		a.PostMessage(domain.MessageError, apperrors.Description(err))
		return
	}

	a.PostMessage(domain.MessageSuccess, msgSignupSuccess)
}

// SignInWithProvider resolves the third-party provider sign-in URL and
// requests navigation to it
func (a *AuthState) SignInWithProvider(ctx context.Context, provider string) {
	a.setLoading(true)
	defer a.setLoading(false)

	url, err := a.authUsecase.ProviderSignInURL(ctx, provider)
	if err != nil {
		a.PostMessage(domain.MessageError, apperrors.Description(err))
		return
	}

	a.mu.RLock()
	nav := a.navigator
	a.mu.RUnlock()
	nav.Navigate(url)
}

// SignOut revokes the session and clears the store, which fires the
// SIGNED_OUT transition and the navigation to the sign-in page.
// Exactly one message is posted per call; a revocation failure still
// clears the local state.
func (a *AuthState) SignOut(ctx context.Context) {
	a.setLoading(true)
	defer a.setLoading(false)

	session := a.store.CurrentSession()
	if session != nil {
		if err := a.authUsecase.SignOut(ctx, session.Token); err != nil {
			a.logger.Warn("sign-out failed, clearing local state anyway", "error", err)
			a.store.Clear()
			a.PostMessage(domain.MessageError, apperrors.Description(err))
			return
		}
	}

	a.store.Clear()
	a.PostMessage(domain.MessageSuccess, msgLogoutSuccess)
}

// UpdatePassword changes the account password. A confirmation mismatch
// is rejected locally without reaching the auth backend.
func (a *AuthState) UpdatePassword(ctx context.Context, password, confirmPassword string) {
	a.setLoading(true)
	defer a.setLoading(false)

	if password != confirmPassword {
		a.PostMessage(domain.MessageError, msgPasswordMismatch)
		return
	}

	session := a.store.CurrentSession()
	if session == nil {
		a.PostMessage(domain.MessageError, apperrors.Description(domain.ErrSessionNotFound))
		return
	}

	if _, err := a.authUsecase.UpdatePassword(ctx, session.Token, password); err != nil {
		a.PostMessage(domain.MessageError, apperrors.Description(err))
		return
	}

	a.PostMessage(domain.MessageSuccess, msgPasswordUpdated)
}

func (a *AuthState) setLoading(v bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.loading = v
}
