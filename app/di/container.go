package di

import (
	"fmt"
	"log/slog"

	"github.com/labstack/echo/v4"

	"postboard/app/config"
	"postboard/app/driver/kratos"
	"postboard/app/driver/postgres"
	"postboard/app/gateway"
	"postboard/app/port"
	"postboard/app/rest"
	"postboard/app/rest/handlers"
	"postboard/app/usecase"
)

// Container holds all dependencies for the application
type Container struct {
	Config *config.Config
	Logger *slog.Logger

	// Drivers
	DB           *postgres.DB
	KratosClient *kratos.Client

	// Gateways
	AuthGateway port.AuthGateway

	// Usecases
	AuthUsecase    port.AuthUsecase
	SessionSync    port.SessionSyncUsecase
	PostUsecase    port.PostUsecase
	StateRegistry  *usecase.AuthStateRegistry
	SessionJanitor *usecase.SessionJanitor
}

// NewContainer creates and initializes a new dependency injection container
func NewContainer(cfg *config.Config, logger *slog.Logger) (*Container, error) {
	container := &Container{
		Config: cfg,
		Logger: logger,
	}

	var err error

	container.DB, err = postgres.NewConnection(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	container.KratosClient, err = kratos.NewClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize Kratos client: %w", err)
	}

	// Repositories
	sessionRepository := postgres.NewSessionRepository(container.DB.Pool(), logger)
	csrfRepository := postgres.NewCSRFRepository(container.DB.Pool(), logger)
	postRepository := postgres.NewPostRepository(container.DB.Pool(), logger)

	// Gateways
	kratosAdapter := kratos.NewClientAdapter(container.KratosClient, logger)
	container.AuthGateway = gateway.NewAuthGateway(kratosAdapter, logger)

	// Usecases
	container.AuthUsecase = usecase.NewAuthUsecase(
		container.AuthGateway,
		sessionRepository,
		csrfRepository,
		cfg.CSRFTokenLength,
		logger,
	)
	container.SessionSync = usecase.NewSessionSyncUsecase(
		sessionRepository,
		cfg.SessionTimeout,
		logger,
	)
	container.PostUsecase = usecase.NewPostUsecase(postRepository, logger)
	container.StateRegistry = usecase.NewAuthStateRegistry(
		container.AuthUsecase,
		container.SessionSync,
		cfg.MessageCapacity,
		cfg.RedirectToProfileOnLogin,
		cfg.StateIdleTTL,
		logger,
	)
	container.SessionJanitor = usecase.NewSessionJanitor(sessionRepository, logger)

	logger.Info("container initialized")

	return container, nil
}

// CreateRouter creates and returns a fully configured Echo router
func (c *Container) CreateRouter() *echo.Echo {
	routerConfig := rest.RouterConfig{
		Logger:        c.Logger,
		AuthUsecase:   c.AuthUsecase,
		SessionSync:   c.SessionSync,
		PostUsecase:   c.PostUsecase,
		StateRegistry: c.StateRegistry,
		HealthCheckers: map[string]handlers.HealthChecker{
			"database": c.DB.HealthCheck,
			"kratos":   c.KratosClient.HealthCheck,
		},
		SessionCookieName: c.Config.SessionCookieName,
		ClientCookieName:  c.Config.ClientCookieName,
		SessionTimeout:    c.Config.SessionTimeout,
		CookieSecure:      c.Config.CookieSecure(),
	}

	return rest.NewRouter(routerConfig)
}

// Close closes all resources
func (c *Container) Close() error {
	if c.SessionJanitor != nil {
		c.SessionJanitor.Close()
	}

	if c.StateRegistry != nil {
		c.StateRegistry.Close()
	}

	if c.DB != nil {
		c.DB.Close()
	}

	c.Logger.Info("container closed")
	return nil
}
