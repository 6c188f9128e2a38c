package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

var startTime = time.Now()

// HealthChecker reports the health of one dependency
type HealthChecker func(ctx context.Context) error

// HealthResponse is the body of the basic health endpoint
type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Service   string    `json:"service"`
	Uptime    string    `json:"uptime"`
}

// HealthStatus describes one dependency check
type HealthStatus struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency"`
}

// ReadinessResponse is the body of the readiness endpoint
type ReadinessResponse struct {
	Status    string                  `json:"status"`
	Timestamp time.Time               `json:"timestamp"`
	Checks    map[string]HealthStatus `json:"checks"`
}

// HealthHandler handles health check HTTP requests
type HealthHandler struct {
	checkers map[string]HealthChecker
	logger   *slog.Logger
}

// NewHealthHandler creates a new health handler with dependency checks
func NewHealthHandler(checkers map[string]HealthChecker, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{
		checkers: checkers,
		logger:   logger,
	}
}

// HealthCheck performs a basic liveness check
func (h *HealthHandler) HealthCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now(),
		Service:   "postboard",
		Uptime:    time.Since(startTime).String(),
	})
}

// ReadinessCheck probes every dependency and reports per-check status
func (h *HealthHandler) ReadinessCheck(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]HealthStatus, len(h.checkers))
	allHealthy := true

	for name, check := range h.checkers {
		started := time.Now()
		err := check(ctx)
		latency := time.Since(started).String()

		if err != nil {
			h.logger.Warn("readiness check failed", "check", name, "error", err)
			checks[name] = HealthStatus{
				Status:  "unhealthy",
				Message: err.Error(),
				Latency: latency,
			}
			allHealthy = false
			continue
		}

		checks[name] = HealthStatus{
			Status:  "healthy",
			Latency: latency,
		}
	}

	status := "ready"
	code := http.StatusOK
	if !allHealthy {
		status = "not ready"
		code = http.StatusServiceUnavailable
	}

	return c.JSON(code, ReadinessResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
	})
}

// LivenessCheck reports that the process is alive
func (h *HealthHandler) LivenessCheck(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "alive"})
}
