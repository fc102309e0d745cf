package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/agify-lambda/internal/handler"
	"github.com/deppfellow/agify-lambda/internal/server"
)

// registerSystemRoutes registers endpoints that are not part of the
// prediction flow.
func registerSystemRoutes(r *echo.Echo, s *server.Server, h *handler.Handlers) {
	// Health status endpoint (used by monitors).
	r.GET("/status", h.Health.CheckHealth)

	// Prometheus exposition of the prediction collectors.
	r.GET("/metrics", echo.WrapHandler(s.Metrics.Handler()))
}
