package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"postboard/app/domain"
	"postboard/app/port"
	custommw "postboard/app/rest/middleware"
	"postboard/app/utils/validator"
)

// AuthHandlerConfig holds the cookie parameters the auth handler needs
type AuthHandlerConfig struct {
	SessionCookieName string
	SessionTimeout    time.Duration
	CookieSecure      bool
}

// AuthHandler handles the authentication endpoints: the credential form
// posts, the session sync endpoint, and session validation.
type AuthHandler struct {
	authUsecase port.AuthUsecase
	syncUsecase port.SessionSyncUsecase
	validator   *validator.Validator
	config      AuthHandlerConfig
	logger      *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(
	authUsecase port.AuthUsecase,
	syncUsecase port.SessionSyncUsecase,
	config AuthHandlerConfig,
	logger *slog.Logger,
) *AuthHandler {
	return &AuthHandler{
		authUsecase: authUsecase,
		syncUsecase: syncUsecase,
		validator:   validator.New(),
		config:      config,
		logger:      logger,
	}
}

// syncRequest is the body of the session sync endpoint. It mirrors the
// event payload the auth state controller consumes.
type syncRequest struct {
	Event   domain.AuthEventType `json:"event" validate:"required,auth_event"`
	Session *domain.Session      `json:"session"`
}

// SyncSession mirrors a client auth-state transition into the session
// cookie and the server-side session store. The endpoint applies
// whatever transition the body carries; a signed-in event sets the
// cookie, a sign-out clears it.
func (h *AuthHandler) SyncSession(c echo.Context) error {
	var req syncRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
	}

	if err := h.validator.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{
			Error:   "invalid auth event",
			Details: err.Error(),
		})
	}

	event := domain.AuthEvent{Type: req.Event, Session: req.Session}

	if event.Type.SignedIn() {
		if req.Session == nil || req.Session.Token == "" {
			return c.JSON(http.StatusBadRequest, ErrorResponse{
				Error: "signed-in event requires a session",
			})
		}
		h.setSessionCookie(c, req.Session)
	} else {
		h.clearSessionCookie(c)
	}

	// Keep the client's in-memory mirror consistent with the cookie the
	// response just set. Adoption, not an event: the transition already
	// happened on the caller's side.
	if state := custommw.StateFromContext(c); state != nil {
		if event.Type.SignedIn() {
			state.Reconcile(req.Session)
		} else {
			state.Reconcile(nil)
		}
	}

	if err := h.syncUsecase.ApplyEvent(c.Request().Context(), event); err != nil {
		h.logger.Error("failed to apply auth event", "event", event.Type, "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to sync session",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"status": "synced",
		"event":  event.Type,
	})
}

// Login handles the sign-in form post
func (h *AuthHandler) Login(c echo.Context) error {
	var payload domain.AuthPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	}

	state := custommw.StateFromContext(c)
	if state == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "client context missing")
	}

	if err := h.validator.Validate(&payload); err != nil {
		state.PostMessage(domain.MessageError, "Email and password are required")
		return h.redirectAfter(c, "/auth")
	}

	state.SignIn(c.Request().Context(), payload.Email, payload.Password)

	if session := state.Store().CurrentSession(); session.IsValid() {
		h.setSessionCookie(c, session)
	}

	return h.redirectAfter(c, "/auth")
}

// Signup handles the sign-up form post
func (h *AuthHandler) Signup(c echo.Context) error {
	var payload domain.AuthPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	}

	state := custommw.StateFromContext(c)
	if state == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "client context missing")
	}

	if err := h.validator.Validate(&payload); err != nil {
		state.PostMessage(domain.MessageError, "Email and password are required")
		return h.redirectAfter(c, "/auth")
	}

	state.SignUp(c.Request().Context(), payload.Email, payload.Password)

	return h.redirectAfter(c, "/auth")
}

// ProviderLogin starts a third-party provider sign-in flow
func (h *AuthHandler) ProviderLogin(c echo.Context) error {
	state := custommw.StateFromContext(c)
	if state == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "client context missing")
	}

	state.SignInWithProvider(c.Request().Context(), c.Param("provider"))

	return h.redirectAfter(c, "/auth")
}

// Logout handles the sign-out button. The store clear fires the
// SIGNED_OUT transition, which requests the navigation to the sign-in
// page.
func (h *AuthHandler) Logout(c echo.Context) error {
	state := custommw.StateFromContext(c)
	if state == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "client context missing")
	}

	state.SignOut(c.Request().Context())
	h.clearSessionCookie(c)

	return h.redirectAfter(c, "/auth")
}

// UpdatePassword handles the password-change form on the profile page
func (h *AuthHandler) UpdatePassword(c echo.Context) error {
	var payload domain.ChangePasswordPayload
	if err := c.Bind(&payload); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request"})
	}

	state := custommw.StateFromContext(c)
	if state == nil {
		return echo.NewHTTPError(http.StatusInternalServerError, "client context missing")
	}

	state.UpdatePassword(c.Request().Context(), payload.Password, payload.ConfirmPassword)

	return h.redirectAfter(c, "/profile")
}

// ValidateSession reports whether the request's session resolved
func (h *AuthHandler) ValidateSession(c echo.Context) error {
	session := custommw.SessionFromContext(c)
	if session == nil {
		return c.JSON(http.StatusUnauthorized, map[string]interface{}{
			"valid": false,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"valid":      true,
		"user":       session.User,
		"expires_at": session.ExpiresAt,
	})
}

// IssueCSRFToken issues a one-time CSRF token bound to the client context
func (h *AuthHandler) IssueCSRFToken(c echo.Context) error {
	clientID, _ := c.Get("client_id").(string)
	if clientID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "client context required")
	}

	token, err := h.authUsecase.GenerateCSRFToken(c.Request().Context(), clientID)
	if err != nil {
		h.logger.Error("failed to generate CSRF token", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{
			Error: "failed to generate CSRF token",
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"csrf_token": token.Token,
		"expires_at": token.ExpiresAt,
	})
}

// redirectAfter issues the redirect the controller requested during
// this request, falling back to the given route
func (h *AuthHandler) redirectAfter(c echo.Context, fallback string) error {
	target := fallback
	if nav := custommw.NavFromContext(c); nav != nil {
		if route := nav.Route(); route != "" {
			target = route
		}
	}
	return c.Redirect(http.StatusSeeOther, target)
}

func (h *AuthHandler) setSessionCookie(c echo.Context, session *domain.Session) {
	expires := session.ExpiresAt
	if expires.IsZero() {
		expires = time.Now().Add(h.config.SessionTimeout)
	}

	c.SetCookie(&http.Cookie{
		Name:     h.config.SessionCookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  expires,
		Secure:   h.config.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(c echo.Context) {
	c.SetCookie(&http.Cookie{
		Name:     h.config.SessionCookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		Secure:   h.config.CookieSecure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
