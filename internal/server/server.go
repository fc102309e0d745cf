// Package server defines the core Server struct that composes the function's
// main dependencies.
//
// It owns the lifecycle of:
//   - configuration
//   - logger + optional New Relic service wrapper
//   - the age-prediction API client
//   - Prometheus metrics
//   - the http.Server used by the local HTTP runner
//
// The Lambda entry point uses the same container without ever calling
// SetupHTTPServer/Start.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/agify-lambda/internal/config"
	"github.com/deppfellow/agify-lambda/internal/lib/agify"
	"github.com/deppfellow/agify-lambda/internal/metrics"

	loggerPkg "github.com/deppfellow/agify-lambda/internal/logger"
)

// Server is the application container that holds shared resources.
type Server struct {
	Config *config.Config

	Logger *zerolog.Logger

	// LoggerService optionally holds the New Relic application instance.
	LoggerService *loggerPkg.LoggerService

	// Agify is the outbound age-prediction API client.
	Agify *agify.Client

	Metrics *metrics.Metrics

	// httpServer is configured in SetupHTTPServer and started in Start().
	httpServer *http.Server
}

// New constructs a Server and initializes its dependencies.
//
// It does NOT start an HTTP server. That is done in SetupHTTPServer + Start.
func New(cfg *config.Config, logger *zerolog.Logger, loggerService *loggerPkg.LoggerService) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if logger == nil {
		return nil, errors.New("logger is required")
	}

	server := &Server{
		Config:        cfg,
		Logger:        logger,
		LoggerService: loggerService,
		Agify:         agify.NewClient(cfg, logger),
		Metrics:       metrics.New(),
	}

	logger.Debug().
		Str("base_url", cfg.Upstream.BaseURL).
		Dur("timeout", cfg.Upstream.Timeout).
		Msg("server dependencies initialized")

	return server, nil
}

// SetupHTTPServer configures the internal net/http server with handler as
// its router/middleware stack.
func (s *Server) SetupHTTPServer(handler http.Handler) {
	s.httpServer = &http.Server{
		Addr:    ":" + s.Config.Server.Port,
		Handler: handler,

		// Config stores int values, interpreted here as seconds.
		ReadTimeout:  time.Duration(s.Config.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(s.Config.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(s.Config.Server.IdleTimeout) * time.Second,
	}
}

// Start runs the HTTP server. It blocks until the server stops.
//
// It requires SetupHTTPServer to be called first.
func (s *Server) Start() error {
	if s.httpServer == nil {
		return errors.New("HTTP server not initialized")
	}

	s.Logger.Info().
		Str("port", s.Config.Server.Port).
		Str("env", s.Config.Primary.Env).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server (if any) and flushes New Relic.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown HTTP server: %w", err)
		}
	}

	s.LoggerService.Shutdown()

	return nil
}
