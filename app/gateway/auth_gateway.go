package gateway

import (
	"context"
	"fmt"
	"log/slog"

	"postboard/app/domain"
	"postboard/app/port"
)

// AuthGateway implements port.AuthGateway. It acts as an anti-corruption
// layer between the domain and the external auth backend: Kratos DTOs
// and error payloads never leak past this package.
type AuthGateway struct {
	kratosClient port.KratosClient
	logger       *slog.Logger
}

// NewAuthGateway creates a new AuthGateway instance
func NewAuthGateway(kratosClient port.KratosClient, logger *slog.Logger) *AuthGateway {
	return &AuthGateway{
		kratosClient: kratosClient,
		logger:       logger.With("component", "auth_gateway"),
	}
}

// SignUp registers a new identity with the auth backend
func (g *AuthGateway) SignUp(ctx context.Context, email, password string) (*domain.Session, error) {
	g.logger.Info("signing up user", "email", email)

	session, err := g.kratosClient.SubmitRegistrationFlow(ctx, email, password)
	if err != nil {
		g.logger.Error("sign-up failed", "email", email, "error", err)
		return nil, fmt.Errorf("failed to sign up: %w", err)
	}

	g.logger.Info("sign-up completed", "user_id", session.User.ID)
	return session, nil
}

// SignIn authenticates an identity and returns the issued session
func (g *AuthGateway) SignIn(ctx context.Context, email, password string) (*domain.Session, error) {
	g.logger.Info("signing in user", "email", email)

	session, err := g.kratosClient.SubmitLoginFlow(ctx, email, password)
	if err != nil {
		g.logger.Error("sign-in failed", "email", email, "error", err)
		return nil, fmt.Errorf("failed to sign in: %w", err)
	}

	g.logger.Info("sign-in completed", "user_id", session.User.ID)
	return session, nil
}

// ProviderSignInURL returns the URL that hands the browser to the auth
// backend's external-provider flow
func (g *AuthGateway) ProviderSignInURL(ctx context.Context, provider string) (string, error) {
	if provider == "" {
		return "", fmt.Errorf("provider name is required")
	}

	url := g.kratosClient.BrowserLoginURL(provider, "/profile")
	g.logger.Info("provider sign-in URL issued", "provider", provider)
	return url, nil
}

// SignOut revokes the session behind the token
func (g *AuthGateway) SignOut(ctx context.Context, sessionToken string) error {
	g.logger.Info("signing out")

	if err := g.kratosClient.RevokeSession(ctx, sessionToken); err != nil {
		g.logger.Error("sign-out failed", "error", err)
		return fmt.Errorf("failed to sign out: %w", err)
	}

	g.logger.Info("sign-out completed")
	return nil
}

// UpdatePassword changes the password of the session's identity
func (g *AuthGateway) UpdatePassword(ctx context.Context, sessionToken, newPassword string) (*domain.User, error) {
	g.logger.Info("updating password")

	user, err := g.kratosClient.SubmitSettingsPasswordFlow(ctx, sessionToken, newPassword)
	if err != nil {
		g.logger.Error("password update failed", "error", err)
		return nil, fmt.Errorf("failed to update password: %w", err)
	}

	g.logger.Info("password update completed", "user_id", user.ID)
	return user, nil
}

// WhoAmI validates a session token and returns the session it belongs
// to, nil-with-error when the token does not resolve to a live session
func (g *AuthGateway) WhoAmI(ctx context.Context, sessionToken string) (*domain.Session, error) {
	session, err := g.kratosClient.WhoAmI(ctx, sessionToken)
	if err != nil {
		g.logger.Debug("whoami failed", "error", err)
		return nil, fmt.Errorf("failed to validate session: %w", err)
	}

	return session, nil
}
