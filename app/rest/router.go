package rest

import (
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"postboard/app/port"
	"postboard/app/rest/handlers"
	custommw "postboard/app/rest/middleware"
	"postboard/app/usecase"
)

// RouterConfig holds router configuration
type RouterConfig struct {
	Logger            *slog.Logger
	AuthUsecase       port.AuthUsecase
	SessionSync       port.SessionSyncUsecase
	PostUsecase       port.PostUsecase
	StateRegistry     *usecase.AuthStateRegistry
	HealthCheckers    map[string]handlers.HealthChecker
	SessionCookieName string
	ClientCookieName  string
	SessionTimeout    time.Duration
	CookieSecure      bool
}

// NewRouter creates and configures the Echo router
func NewRouter(config RouterConfig) *echo.Echo {
	e := echo.New()
	e.HideBanner = true

	pageHandler := handlers.NewPageHandler(config.PostUsecase, config.Logger)
	postHandler := handlers.NewPostHandler(config.PostUsecase, config.Logger)
	healthHandler := handlers.NewHealthHandler(config.HealthCheckers, config.Logger)
	authHandler := handlers.NewAuthHandler(
		config.AuthUsecase,
		config.SessionSync,
		handlers.AuthHandlerConfig{
			SessionCookieName: config.SessionCookieName,
			SessionTimeout:    config.SessionTimeout,
			CookieSecure:      config.CookieSecure,
		},
		config.Logger,
	)

	clientMiddleware := custommw.NewClientMiddleware(config.StateRegistry, config.ClientCookieName, config.CookieSecure)
	sessionMiddleware := custommw.NewSessionMiddleware(config.AuthUsecase, config.SessionCookieName, config.Logger)
	csrfMiddleware := custommw.NewCSRFMiddleware(config.AuthUsecase, config.Logger)

	// Global middleware
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(custommw.DefaultCORS())
	e.Use(custommw.SecurityHeaders())
	e.Use(clientMiddleware.Identify())

	// Health endpoints
	e.GET("/health", healthHandler.HealthCheck)
	e.GET("/ready", healthHandler.ReadinessCheck)
	e.GET("/live", healthHandler.LivenessCheck)

	// Public pages
	e.GET("/", pageHandler.Home, sessionMiddleware.OptionalSession())
	e.GET("/auth", pageHandler.AuthPage, sessionMiddleware.OptionalSession())
	e.GET("/login", pageHandler.LoginPage, sessionMiddleware.OptionalSession())
	e.GET("/signup", pageHandler.SignupPage, sessionMiddleware.OptionalSession())

	// Credential form endpoints
	e.POST("/auth/login", authHandler.Login)
	e.POST("/auth/signup", authHandler.Signup)
	e.GET("/auth/provider/:provider", authHandler.ProviderLogin)
	e.POST("/auth/logout", authHandler.Logout, sessionMiddleware.OptionalSession())

	// Protected pages
	pages := e.Group("", sessionMiddleware.ResolvePage())
	pages.GET("/profile", pageHandler.ProfilePage)
	pages.GET("/posts", pageHandler.PostsPage)
	pages.GET("/post/create", pageHandler.PostCreatePage)
	pages.GET("/post/search", pageHandler.PostSearchPage)
	pages.GET("/post/modify/:id", pageHandler.PostModifyPage)
	pages.GET("/post/:id", pageHandler.PostPage)

	// Protected form endpoints
	pages.POST("/profile/password", authHandler.UpdatePassword)
	pages.POST("/post/create", postHandler.Create)
	pages.POST("/post/modify/:id", postHandler.Modify)
	pages.POST("/post/delete/:id", postHandler.Delete)

	// API endpoints
	api := e.Group("/api")
	api.POST("/auth", authHandler.SyncSession, csrfMiddleware.RequireCSRF())
	api.POST("/auth/csrf", authHandler.IssueCSRFToken)
	api.GET("/auth/validate", authHandler.ValidateSession, sessionMiddleware.RequireSession())

	apiPosts := api.Group("/posts", sessionMiddleware.RequireSession())
	apiPosts.GET("", postHandler.List)
	apiPosts.GET("/search", postHandler.Search)
	apiPosts.GET("/:id", postHandler.Get)

	return e
}
