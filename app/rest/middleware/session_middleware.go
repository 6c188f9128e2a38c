package middleware

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"postboard/app/domain"
	"postboard/app/port"
)

// SessionMiddleware resolves the session cookie on every protected
// request. Page routes redirect anonymous requests to the sign-in page;
// API routes answer with a JSON 401.
type SessionMiddleware struct {
	authUsecase port.AuthUsecase
	cookieName  string
	logger      *slog.Logger
}

// NewSessionMiddleware creates a new session middleware
func NewSessionMiddleware(authUsecase port.AuthUsecase, cookieName string, logger *slog.Logger) *SessionMiddleware {
	return &SessionMiddleware{
		authUsecase: authUsecase,
		cookieName:  cookieName,
		logger:      logger.With("component", "session_middleware"),
	}
}

// ResolvePage guards server-rendered pages. Any resolution failure,
// whether a missing cookie, an expired token, or an unreachable auth
// backend, yields the same outcome: the request is anonymous and is
// redirected to the sign-in page.
func (m *SessionMiddleware) ResolvePage() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := m.resolve(c)
			if err != nil {
				m.logger.Debug("page session resolution failed",
					"path", c.Path(),
					"error", err)
				if state := StateFromContext(c); state != nil {
					state.Reconcile(nil)
				}
				return c.Redirect(http.StatusSeeOther, "/auth")
			}

			m.bind(c, session)
			return next(c)
		}
	}
}

// RequireSession guards API endpoints with a JSON 401 instead of a
// redirect
func (m *SessionMiddleware) RequireSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := m.resolve(c)
			if err != nil {
				m.logger.Debug("api session resolution failed",
					"path", c.Path(),
					"error", err)
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			m.bind(c, session)
			return next(c)
		}
	}
}

// OptionalSession resolves the session when present but never rejects
// the request
func (m *SessionMiddleware) OptionalSession() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session, err := m.resolve(c)
			if err != nil {
				if state := StateFromContext(c); state != nil {
					state.Reconcile(nil)
				}
				return next(c)
			}

			m.bind(c, session)
			return next(c)
		}
	}
}

func (m *SessionMiddleware) resolve(c echo.Context) (*domain.Session, error) {
	cookie, err := c.Cookie(m.cookieName)
	if err != nil || cookie.Value == "" {
		return nil, domain.ErrSessionNotFound
	}

	return m.authUsecase.ResolveSession(c.Request().Context(), cookie.Value)
}

// bind stores the resolved session on the request and reconciles the
// client's in-memory store with it
func (m *SessionMiddleware) bind(c echo.Context, session *domain.Session) {
	c.Set("session", session)
	c.Set("user", session.User)

	if state := StateFromContext(c); state != nil {
		state.Reconcile(session)
	}
}

// SessionFromContext returns the resolved session, nil when anonymous
func SessionFromContext(c echo.Context) *domain.Session {
	session, _ := c.Get("session").(*domain.Session)
	return session
}

// UserFromContext returns the resolved user, nil when anonymous
func UserFromContext(c echo.Context) *domain.User {
	user, _ := c.Get("user").(*domain.User)
	return user
}
