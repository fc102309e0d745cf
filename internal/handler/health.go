package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/agify-lambda/internal/middleware"
	"github.com/deppfellow/agify-lambda/internal/server"
)

// UpstreamCheck is the health check name that probes the age-prediction API.
const UpstreamCheck = "upstream"

// HealthHandler exposes GET /status for uptime monitors and load balancers.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{
		Handler: NewHandler(s),
	}
}

// CheckHealth returns the runner status and any configured dependency checks.
//
// It returns:
// - 200 OK if all checks pass
// - 503 Service Unavailable if any check fails
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	start := time.Now()

	logger := middleware.GetLogger(c).With().
		Str("operation", "health_check").
		Logger()

	response := map[string]interface{}{
		"status":      "healthy",
		"timestamp":   time.Now().UTC(),
		"environment": h.server.Config.Primary.Env,
		"checks":      make(map[string]interface{}),
	}

	checks := response["checks"].(map[string]interface{})
	isHealthy := true

	// ---------------- Upstream reachability check ----------------------------
	if h.server.Config.Observability.HasCheck(UpstreamCheck) {
		ctx, cancel := context.WithTimeout(c.Request().Context(), h.server.Config.Observability.HealthChecks.Timeout)
		defer cancel()

		upstreamStart := time.Now()

		if err := h.server.Agify.Ping(ctx); err != nil {
			checks[UpstreamCheck] = map[string]interface{}{
				"status":        "unhealthy",
				"response_time": time.Since(upstreamStart).String(),
				"error":         err.Error(),
			}

			isHealthy = false

			logger.Error().
				Err(err).
				Dur("response_time", time.Since(upstreamStart)).
				Msg("upstream health check failed")

			h.recordHealthCheckError(map[string]interface{}{
				"check_type":       UpstreamCheck,
				"operation":        "health_check",
				"error_type":       "upstream_unreachable",
				"response_time_ms": time.Since(upstreamStart).Milliseconds(),
				"error_message":    err.Error(),
			})
		} else {
			checks[UpstreamCheck] = map[string]interface{}{
				"status":        "healthy",
				"response_time": time.Since(upstreamStart).String(),
			}

			logger.Info().
				Dur("response_time", time.Since(upstreamStart)).
				Msg("upstream health check passed")
		}
	}

	// ---------------- Overall status + response ------------------------------
	if !isHealthy {
		response["status"] = "unhealthy"

		logger.Warn().
			Dur("total_duration", time.Since(start)).
			Msg("health check failed")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":        "overall",
			"operation":         "health_check",
			"error_type":        "overall_unhealthy",
			"total_duration_ms": time.Since(start).Milliseconds(),
		})

		return c.JSON(http.StatusServiceUnavailable, response)
	}

	logger.Debug().
		Dur("total_duration", time.Since(start)).
		Msg("health check passed")

	if err := c.JSON(http.StatusOK, response); err != nil {
		logger.Error().Err(err).Msg("failed to write JSON response")

		h.recordHealthCheckError(map[string]interface{}{
			"check_type":    "response",
			"operation":     "health_check",
			"error_type":    "json_response_error",
			"error_message": err.Error(),
		})

		return fmt.Errorf("failed to write JSON response: %w", err)
	}

	return nil
}

// recordHealthCheckError sends a HealthCheckError custom event when New
// Relic is configured.
func (h *HealthHandler) recordHealthCheckError(params map[string]interface{}) {
	if h.server.LoggerService == nil {
		return
	}
	if app := h.server.LoggerService.GetApplication(); app != nil {
		app.RecordCustomEvent("HealthCheckError", params)
	}
}
