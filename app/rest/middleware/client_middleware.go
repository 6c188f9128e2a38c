package middleware

import (
	"net/http"
	"sync"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"postboard/app/port"
	"postboard/app/usecase"
)

// NavRecorder captures navigation requests issued by the auth state
// controller during one request so the handler can materialize the last
// one as a redirect.
type NavRecorder struct {
	mu    sync.Mutex
	route string
}

// Navigate implements port.Navigator
func (r *NavRecorder) Navigate(route string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.route = route
}

// Route returns the last requested route, empty when none was requested
func (r *NavRecorder) Route() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.route
}

var _ port.Navigator = (*NavRecorder)(nil)

// ClientMiddleware identifies the client context behind each request.
// It ensures the client identity cookie exists, binds the client's auth
// state controller into the request, and installs a request-scoped
// navigation recorder on it.
type ClientMiddleware struct {
	registry   *usecase.AuthStateRegistry
	cookieName string
	secure     bool
}

// NewClientMiddleware creates a new client context middleware
func NewClientMiddleware(registry *usecase.AuthStateRegistry, cookieName string, secure bool) *ClientMiddleware {
	return &ClientMiddleware{
		registry:   registry,
		cookieName: cookieName,
		secure:     secure,
	}
}

// Identify returns the middleware function
func (m *ClientMiddleware) Identify() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			clientID := m.clientID(c)

			state := m.registry.Get(clientID)

			nav := &NavRecorder{}
			state.SetNavigator(nav)

			c.Set("client_id", clientID)
			c.Set("auth_state", state)
			c.Set("navigation", nav)

			return next(c)
		}
	}
}

// clientID reads the client identity cookie, minting one when absent
func (m *ClientMiddleware) clientID(c echo.Context) string {
	if cookie, err := c.Cookie(m.cookieName); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	clientID := uuid.NewString()
	c.SetCookie(&http.Cookie{
		Name:     m.cookieName,
		Value:    clientID,
		Path:     "/",
		Secure:   m.secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return clientID
}

// StateFromContext returns the request's auth state controller. The
// client middleware must have run first.
func StateFromContext(c echo.Context) *usecase.AuthState {
	state, _ := c.Get("auth_state").(*usecase.AuthState)
	return state
}

// NavFromContext returns the request's navigation recorder
func NavFromContext(c echo.Context) *NavRecorder {
	nav, _ := c.Get("navigation").(*NavRecorder)
	return nav
}
