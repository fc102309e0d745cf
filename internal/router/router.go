// Package router initializes the HTTP router (using echo) of the local
// runner.
//
// It registers the middlewares and maps paths to their handlers.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/agify-lambda/internal/handler"
	"github.com/deppfellow/agify-lambda/internal/middleware"
	"github.com/deppfellow/agify-lambda/internal/server"
)

// NewRouter builds the echo instance with the full middleware chain.
//
// Order matters: the request id must exist before the logger is enhanced,
// and the New Relic transaction must exist before the tracing attributes
// and trace ids are read.
func NewRouter(s *server.Server, h *handler.Handlers) *echo.Echo {
	middlewares := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true

	router.HTTPErrorHandler = middlewares.Global.GlobalErrorHandler

	router.Use(
		middleware.RequestID(),
		middlewares.Tracing.NewRelicMiddleware(),
		middlewares.Tracing.EnhanceTracing(),
		middlewares.ContextEnhancer.EnhanceContext(),
		middlewares.Global.RequestLogger(),
		middlewares.Global.Recover(),
		middlewares.Global.Secure(),
		middlewares.Global.CORS(),
		middlewares.Global.BodyLimit(),
	)

	registerSystemRoutes(router, s, h)
	registerPredictRoutes(router, h)

	return router
}

// registerPredictRoutes registers the age prediction endpoints.
func registerPredictRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/predict", h.Predict.Predict)
	r.POST("/predict", h.Predict.Predict)
	r.POST("/invoke", h.Predict.Invoke)
}
