package port

//go:generate mockgen -source=auth_port.go -destination=../mocks/mock_auth_port.go

import (
	"context"

	"postboard/app/domain"
)

// AuthUsecase defines the authentication operations the HTTP layer
// depends on
type AuthUsecase interface {
	// Session resolution (server-side render path)
	ResolveSession(ctx context.Context, sessionToken string) (*domain.Session, error)

	// Credential operations
	SignUp(ctx context.Context, email, password string) (*domain.Session, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	ProviderSignInURL(ctx context.Context, provider string) (string, error)
	SignOut(ctx context.Context, sessionToken string) error
	UpdatePassword(ctx context.Context, sessionToken, newPassword string) (*domain.User, error)

	// CSRF protection
	GenerateCSRFToken(ctx context.Context, clientID string) (*domain.CSRFToken, error)
	ValidateCSRFToken(ctx context.Context, token, clientID string) error
}

// AuthGateway defines the boundary to the external auth backend
type AuthGateway interface {
	SignUp(ctx context.Context, email, password string) (*domain.Session, error)
	SignIn(ctx context.Context, email, password string) (*domain.Session, error)
	ProviderSignInURL(ctx context.Context, provider string) (string, error)
	SignOut(ctx context.Context, sessionToken string) error
	UpdatePassword(ctx context.Context, sessionToken, newPassword string) (*domain.User, error)
	WhoAmI(ctx context.Context, sessionToken string) (*domain.Session, error)
}

// KratosClient defines the low-level Kratos self-service flow surface
// the gateway is built on
type KratosClient interface {
	SubmitRegistrationFlow(ctx context.Context, email, password string) (*domain.Session, error)
	SubmitLoginFlow(ctx context.Context, email, password string) (*domain.Session, error)
	SubmitSettingsPasswordFlow(ctx context.Context, sessionToken, newPassword string) (*domain.User, error)
	BrowserLoginURL(provider, returnTo string) string
	WhoAmI(ctx context.Context, sessionToken string) (*domain.Session, error)
	RevokeSession(ctx context.Context, sessionToken string) error
}
