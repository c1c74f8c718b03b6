package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/deppfellow/mentorme/internal/middleware"
	"github.com/deppfellow/mentorme/internal/server"
	"github.com/labstack/echo/v4"
)

const (
	statusHealthy   = "healthy"
	statusDegraded  = "degraded"
	statusUnhealthy = "unhealthy"
)

// HealthHandler serves GET /status for load balancers and uptime monitors.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// dependencyCheck probes one dependency. A failing non-critical check only
// degrades the service.
type dependencyCheck struct {
	name     string
	critical bool
	probe    func(ctx context.Context) error
}

func (h *HealthHandler) dependencyChecks() []dependencyCheck {
	obs := h.server.Config.Observability

	var checks []dependencyCheck
	if h.server.DB != nil && obs.HasCheck("database") {
		checks = append(checks, dependencyCheck{"database", true, func(ctx context.Context) error {
			return h.server.DB.Pool.Ping(ctx)
		}})
	}
	// Redis only backs the document cleanup queue.
	if h.server.Redis != nil && obs.HasCheck("redis") {
		checks = append(checks, dependencyCheck{"redis", false, func(ctx context.Context) error {
			return h.server.Redis.Ping(ctx).Err()
		}})
	}
	if h.server.Uploader != nil && obs.HasCheck("upload") {
		checks = append(checks, dependencyCheck{"upload", true, h.server.Uploader.Ping})
	}
	return checks
}

// CheckHealth answers 200 when every critical dependency responds and 503
// otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	timeout := h.server.Config.Observability.HealthChecks.Timeout
	if timeout <= 0 {
		timeout = 5 * time.Second
	}

	status := statusHealthy
	checks := make(map[string]interface{})

	for _, check := range h.dependencyChecks() {
		ctx, cancel := context.WithTimeout(c.Request().Context(), timeout)
		checkStart := time.Now()
		err := check.probe(ctx)
		cancel()
		elapsed := time.Since(checkStart)

		if err == nil {
			checks[check.name] = map[string]interface{}{
				"status":        statusHealthy,
				"response_time": elapsed.String(),
			}
			logger.Debug().Dur("response_time", elapsed).Msgf("%s health check passed", check.name)
			continue
		}

		checks[check.name] = map[string]interface{}{
			"status":        statusUnhealthy,
			"response_time": elapsed.String(),
			"error":         err.Error(),
		}

		switch {
		case check.critical:
			status = statusUnhealthy
		case status == statusHealthy:
			status = statusDegraded
		}

		logger.Error().
			Err(err).
			Dur("response_time", elapsed).
			Msgf("%s health check failed", check.name)

		h.recordError(check.name, check.name+"_unhealthy", err, elapsed)
	}

	response := map[string]interface{}{
		"status":      status,
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      checks,
	}

	if status == statusUnhealthy {
		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")
		h.recordError("response", "json_response_error", err, time.Since(start))
		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

func (h *HealthHandler) recordError(checkType, errorType string, err error, elapsed time.Duration) {
	if h.server.LoggerService == nil || h.server.LoggerService.GetApplication() == nil {
		return
	}

	h.server.LoggerService.GetApplication().RecordCustomEvent(
		"HealthCheckError",
		map[string]interface{}{
			"check_type":       checkType,
			"operation":        "health_check",
			"error_type":       errorType,
			"response_time_ms": elapsed.Milliseconds(),
			"error_message":    err.Error(),
		},
	)
}
