package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"postboard/app/port"
)

// CSRFMiddleware protects cookie-mutating endpoints with one-time
// tokens bound to the client context
type CSRFMiddleware struct {
	authUsecase port.AuthUsecase
	logger      *slog.Logger
}

// NewCSRFMiddleware creates a new CSRF middleware
func NewCSRFMiddleware(authUsecase port.AuthUsecase, logger *slog.Logger) *CSRFMiddleware {
	return &CSRFMiddleware{
		authUsecase: authUsecase,
		logger:      logger.With("component", "csrf_middleware"),
	}
}

// RequireCSRF middleware that requires CSRF token validation
func (m *CSRFMiddleware) RequireCSRF() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if isSafeMethod(c.Request().Method) {
				return next(c)
			}

			clientID, _ := c.Get("client_id").(string)
			if clientID == "" {
				return echo.NewHTTPError(http.StatusForbidden, "client context required")
			}

			token := extractCSRFToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusForbidden, "CSRF token required")
			}

			if err := m.authUsecase.ValidateCSRFToken(c.Request().Context(), token, clientID); err != nil {
				m.logger.Warn("CSRF validation failed",
					"path", c.Path(),
					"method", c.Request().Method,
					"error", err)
				return echo.NewHTTPError(http.StatusForbidden, "invalid CSRF token")
			}

			return next(c)
		}
	}
}

func isSafeMethod(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodOptions, http.MethodTrace:
		return true
	}
	return false
}

func extractCSRFToken(c echo.Context) string {
	if token := c.Request().Header.Get("X-CSRF-Token"); token != "" {
		return token
	}

	if token := c.FormValue("csrf_token"); token != "" {
		return token
	}

	return ""
}
