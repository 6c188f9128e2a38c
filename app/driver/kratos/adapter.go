package kratos

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/google/uuid"
	kratosclient "github.com/ory/kratos-client-go"

	"postboard/app/domain"
	"postboard/app/port"
)

// ClientAdapter adapts the Kratos client to the port.KratosClient
// interface the gateway consumes
type ClientAdapter struct {
	client *Client
	logger *slog.Logger
}

// NewClientAdapter creates a new adapter
func NewClientAdapter(client *Client, logger *slog.Logger) port.KratosClient {
	return &ClientAdapter{
		client: client,
		logger: logger.With("component", "kratos_adapter"),
	}
}

// SubmitRegistrationFlow runs the native registration flow with the
// password method and returns the issued session
func (a *ClientAdapter) SubmitRegistrationFlow(ctx context.Context, email, password string) (*domain.Session, error) {
	flow, httpResp, err := a.client.API().FrontendAPI.CreateNativeRegistrationFlow(ctx).Execute()
	if err != nil {
		a.logger.Error("registration flow creation failed", "error", err)
		return nil, normalizeError(err, httpResp)
	}

	body := kratosclient.UpdateRegistrationFlowBody{
		UpdateRegistrationFlowWithPasswordMethod: &kratosclient.UpdateRegistrationFlowWithPasswordMethod{
			Method:   "password",
			Password: password,
			Traits:   map[string]interface{}{"email": email},
		},
	}

	result, httpResp, err := a.client.API().FrontendAPI.UpdateRegistrationFlow(ctx).
		Flow(flow.Id).
		UpdateRegistrationFlowBody(body).
		Execute()
	if err != nil {
		a.logger.Error("registration flow submission failed", "flow_id", flow.Id, "error", err)
		return nil, normalizeError(err, httpResp)
	}

	token := ""
	if result.SessionToken != nil {
		token = *result.SessionToken
	}

	session, err := sessionFromKratos(token, result.Session)
	if err != nil {
		return nil, err
	}

	a.logger.Info("registration flow completed", "flow_id", flow.Id, "user_id", session.User.ID)
	return session, nil
}

// SubmitLoginFlow runs the native login flow with the password method
// and returns the issued session
func (a *ClientAdapter) SubmitLoginFlow(ctx context.Context, email, password string) (*domain.Session, error) {
	flow, httpResp, err := a.client.API().FrontendAPI.CreateNativeLoginFlow(ctx).Execute()
	if err != nil {
		a.logger.Error("login flow creation failed", "error", err)
		return nil, normalizeError(err, httpResp)
	}

	body := kratosclient.UpdateLoginFlowBody{
		UpdateLoginFlowWithPasswordMethod: &kratosclient.UpdateLoginFlowWithPasswordMethod{
			Method:     "password",
			Identifier: email,
			Password:   password,
		},
	}

	result, httpResp, err := a.client.API().FrontendAPI.UpdateLoginFlow(ctx).
		Flow(flow.Id).
		UpdateLoginFlowBody(body).
		Execute()
	if err != nil {
		a.logger.Error("login flow submission failed", "flow_id", flow.Id, "error", err)
		return nil, normalizeError(err, httpResp)
	}

	token := ""
	if result.SessionToken != nil {
		token = *result.SessionToken
	}

	session, err := sessionFromKratos(token, &result.Session)
	if err != nil {
		return nil, err
	}

	a.logger.Info("login flow completed", "flow_id", flow.Id, "user_id", session.User.ID)
	return session, nil
}

// SubmitSettingsPasswordFlow runs the native settings flow with the
// password method, changing the credential of the session's identity
func (a *ClientAdapter) SubmitSettingsPasswordFlow(ctx context.Context, sessionToken, newPassword string) (*domain.User, error) {
	flow, httpResp, err := a.client.API().FrontendAPI.CreateNativeSettingsFlow(ctx).
		XSessionToken(sessionToken).
		Execute()
	if err != nil {
		a.logger.Error("settings flow creation failed", "error", err)
		return nil, normalizeError(err, httpResp)
	}

	body := kratosclient.UpdateSettingsFlowBody{
		UpdateSettingsFlowWithPasswordMethod: &kratosclient.UpdateSettingsFlowWithPasswordMethod{
			Method:   "password",
			Password: newPassword,
		},
	}

	result, httpResp, err := a.client.API().FrontendAPI.UpdateSettingsFlow(ctx).
		Flow(flow.Id).
		XSessionToken(sessionToken).
		UpdateSettingsFlowBody(body).
		Execute()
	if err != nil {
		a.logger.Error("settings flow submission failed", "flow_id", flow.Id, "error", err)
		return nil, normalizeError(err, httpResp)
	}

	user, err := userFromIdentity(&result.Identity)
	if err != nil {
		return nil, err
	}

	a.logger.Info("settings flow completed", "flow_id", flow.Id, "user_id", user.ID)
	return user, nil
}

// BrowserLoginURL returns the Kratos browser login URL for an external
// OIDC provider; the browser is handed to Kratos for the full flow
func (a *ClientAdapter) BrowserLoginURL(provider, returnTo string) string {
	u := fmt.Sprintf("%s/self-service/login/browser", a.client.PublicURL())
	query := url.Values{}
	if returnTo != "" {
		query.Set("return_to", returnTo)
	}
	if provider != "" {
		query.Set("via", provider)
	}
	if encoded := query.Encode(); encoded != "" {
		u = u + "?" + encoded
	}
	return u
}

// WhoAmI validates a session token against Kratos and returns the
// session it belongs to
func (a *ClientAdapter) WhoAmI(ctx context.Context, sessionToken string) (*domain.Session, error) {
	kratosSession, httpResp, err := a.client.API().FrontendAPI.ToSession(ctx).
		XSessionToken(sessionToken).
		Execute()
	if err != nil {
		a.logger.Debug("whoami failed", "error", err)
		return nil, normalizeError(err, httpResp)
	}

	return sessionFromKratos(sessionToken, kratosSession)
}

// RevokeSession invalidates the session behind the token
func (a *ClientAdapter) RevokeSession(ctx context.Context, sessionToken string) error {
	httpResp, err := a.client.API().FrontendAPI.PerformNativeLogout(ctx).
		PerformNativeLogoutBody(kratosclient.PerformNativeLogoutBody{
			SessionToken: sessionToken,
		}).
		Execute()
	if err != nil {
		a.logger.Error("session revocation failed", "error", err)
		return normalizeError(err, httpResp)
	}

	return nil
}

// sessionFromKratos transforms a Kratos session into the domain session
func sessionFromKratos(token string, ks *kratosclient.Session) (*domain.Session, error) {
	if ks == nil {
		return nil, fmt.Errorf("kratos session is missing")
	}

	user, err := userFromIdentity(ks.Identity)
	if err != nil {
		return nil, err
	}

	expiresAt := time.Time{}
	if ks.ExpiresAt != nil {
		expiresAt = *ks.ExpiresAt
	}

	return &domain.Session{
		Token:     token,
		TokenType: "bearer",
		User:      user,
		ExpiresAt: expiresAt,
	}, nil
}

// userFromIdentity transforms a Kratos identity into the domain user
func userFromIdentity(identity *kratosclient.Identity) (*domain.User, error) {
	if identity == nil {
		return nil, fmt.Errorf("kratos identity is missing")
	}

	id, err := uuid.Parse(identity.Id)
	if err != nil {
		return nil, fmt.Errorf("invalid identity ID %q: %w", identity.Id, err)
	}

	email := ""
	if traits, ok := identity.Traits.(map[string]interface{}); ok {
		if value, ok := traits["email"].(string); ok {
			email = value
		}
	}

	user, err := domain.NewUser(id, email)
	if err != nil {
		return nil, fmt.Errorf("invalid identity traits: %w", err)
	}

	if identity.CreatedAt != nil {
		user.CreatedAt = *identity.CreatedAt
	}
	if identity.UpdatedAt != nil {
		user.UpdatedAt = *identity.UpdatedAt
	}

	return user, nil
}
