package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"postboard/app/domain"
	"postboard/app/port"
)

const csrfTokenTTL = 30 * time.Minute

// AuthUsecase implements port.AuthUsecase on top of the auth gateway
// and the server-side repositories.
type AuthUsecase struct {
	gateway     port.AuthGateway
	sessionRepo port.SessionRepository
	csrfRepo    port.CSRFRepository
	tokenLength int
	logger      *slog.Logger
}

// NewAuthUsecase creates a new authentication usecase
func NewAuthUsecase(
	gateway port.AuthGateway,
	sessionRepo port.SessionRepository,
	csrfRepo port.CSRFRepository,
	tokenLength int,
	logger *slog.Logger,
) port.AuthUsecase {
	return &AuthUsecase{
		gateway:     gateway,
		sessionRepo: sessionRepo,
		csrfRepo:    csrfRepo,
		tokenLength: tokenLength,
		logger:      logger.With("component", "auth_usecase"),
	}
}

// ResolveSession validates the session cookie's token against the auth
// backend and returns the live session. Any failure means the request
// is anonymous; callers redirect to the sign-in page.
func (u *AuthUsecase) ResolveSession(ctx context.Context, sessionToken string) (*domain.Session, error) {
	if sessionToken == "" {
		return nil, domain.ErrSessionNotFound
	}

	session, err := u.gateway.WhoAmI(ctx, sessionToken)
	if err != nil {
		return nil, err
	}

	if !session.IsValid() {
		return nil, domain.ErrSessionExpired
	}

	// A deactivated mirror wins over the backend: the client signed out
	// through the sync endpoint and the backend has not caught up yet.
	if mirrored, err := u.sessionRepo.GetByToken(ctx, sessionToken); err == nil && !mirrored.Active {
		return nil, domain.ErrSessionExpired
	}

	// Best effort, resolution must not fail on a mirror miss
	if err := u.sessionRepo.TouchActivity(ctx, sessionToken); err != nil {
		u.logger.Debug("failed to touch session activity", "error", err)
	}

	return session, nil
}

// SignUp registers a new account with the auth backend
func (u *AuthUsecase) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := u.gateway.SignUp(ctx, email, password)
	if err != nil {
		u.logger.Warn("sign-up failed", "error", err)
		return nil, err
	}

	u.logger.Info("user signed up", "email", email)
	return session, nil
}

// SignIn authenticates credentials against the auth backend
func (u *AuthUsecase) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	session, err := u.gateway.SignIn(ctx, email, password)
	if err != nil {
		u.logger.Warn("sign-in failed", "error", err)
		return nil, err
	}

	u.logger.Info("user signed in", "email", email)
	return session, nil
}

// ProviderSignInURL returns the auth backend URL that starts a
// third-party provider sign-in flow
func (u *AuthUsecase) ProviderSignInURL(ctx context.Context, provider string) (string, error) {
	if provider == "" {
		return "", fmt.Errorf("%w: provider is required", domain.ErrInvalidInput)
	}
	return u.gateway.ProviderSignInURL(ctx, provider)
}

// SignOut revokes the session at the auth backend and deactivates the
// server-side mirror
func (u *AuthUsecase) SignOut(ctx context.Context, sessionToken string) error {
	if sessionToken == "" {
		return domain.ErrSessionNotFound
	}

	if err := u.gateway.SignOut(ctx, sessionToken); err != nil {
		u.logger.Warn("sign-out failed at auth backend", "error", err)
		return err
	}

	if err := u.sessionRepo.Deactivate(ctx, sessionToken); err != nil {
		u.logger.Debug("failed to deactivate mirrored session", "error", err)
	}

	u.logger.Info("user signed out")
	return nil
}

// UpdatePassword changes the password of the session's account
func (u *AuthUsecase) UpdatePassword(ctx context.Context, sessionToken, newPassword string) (*domain.User, error) {
	if sessionToken == "" {
		return nil, domain.ErrSessionNotFound
	}

	user, err := u.gateway.UpdatePassword(ctx, sessionToken, newPassword)
	if err != nil {
		u.logger.Warn("password update failed", "error", err)
		return nil, err
	}

	u.logger.Info("password updated", "user_id", user.ID)
	return user, nil
}

// GenerateCSRFToken issues a one-time token bound to the client context
func (u *AuthUsecase) GenerateCSRFToken(ctx context.Context, clientID string) (*domain.CSRFToken, error) {
	token, err := domain.NewCSRFToken(clientID, u.tokenLength, csrfTokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to generate CSRF token: %w", err)
	}

	if err := u.csrfRepo.Store(ctx, token); err != nil {
		return nil, err
	}

	return token, nil
}

// ValidateCSRFToken checks and consumes a one-time CSRF token
func (u *AuthUsecase) ValidateCSRFToken(ctx context.Context, token, clientID string) error {
	stored, err := u.csrfRepo.Get(ctx, token)
	if err != nil {
		return err
	}

	if err := stored.Validate(token, clientID); err != nil {
		u.logger.Warn("CSRF token validation failed", "error", err)
		return domain.ErrInvalidCSRFToken
	}

	// One-time use
	if err := u.csrfRepo.Delete(ctx, token); err != nil {
		u.logger.Error("failed to consume CSRF token", "error", err)
		return err
	}

	return nil
}
