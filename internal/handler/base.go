package handler

import (
	"errors"
	"io"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/agify-lambda/internal/errs"
	"github.com/deppfellow/agify-lambda/internal/lib/jsoncodec"
	"github.com/deppfellow/agify-lambda/internal/middleware"
	"github.com/deppfellow/agify-lambda/internal/server"
	"github.com/deppfellow/agify-lambda/internal/service"
)

// Handler is the base handler type that holds shared application
// dependencies.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// EnvelopeFunc produces an envelope from a raw event payload.
type EnvelopeFunc func(c echo.Context, payload []byte) service.Envelope

// ResponseHandler defines how an envelope is written to the HTTP response.
type ResponseHandler interface {
	// Handle writes the HTTP response for the given envelope.
	Handle(c echo.Context, env service.Envelope) error

	// GetOperation returns an operation name used for structured logging.
	GetOperation() string
}

// ProxyResponseHandler presents the envelope the way an API gateway proxy
// integration does: statusCode becomes the HTTP status and body the
// response body.
type ProxyResponseHandler struct{}

func (h ProxyResponseHandler) Handle(c echo.Context, env service.Envelope) error {
	return c.JSONBlob(env.StatusCode, []byte(env.Body))
}

func (h ProxyResponseHandler) GetOperation() string {
	return "handler_proxy"
}

// InvokeResponseHandler writes the envelope itself as JSON, the way a direct
// function invoke returns it.
type InvokeResponseHandler struct {
	status int
}

func (h InvokeResponseHandler) Handle(c echo.Context, env service.Envelope) error {
	c.Response().Header().Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c.Response().WriteHeader(h.status)
	return jsoncodec.Encode(c.Response(), env)
}

func (h InvokeResponseHandler) GetOperation() string {
	return "handler_invoke"
}

// handleRequest is the shared execution pipeline of the HTTP handlers.
//
// It reads the request body, runs fn, records logging and New Relic
// attributes, and writes the envelope through responseHandler. A body read
// failure (e.g. exceeding the body limit) is returned to the global error
// handler.
func handleRequest(
	c echo.Context,
	fn EnvelopeFunc,
	responseHandler ResponseHandler,
) error {
	start := time.Now()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", c.Path())
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("route", c.Path()).
		Logger()

	logger.Debug().Msg("handling request")

	payload, err := io.ReadAll(c.Request().Body)
	if err != nil {
		logger.Error().Err(err).Msg("failed to read request body")

		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			return err
		}
		return errs.NewBadRequestError("failed to read request body", false, nil, nil)
	}

	env := fn(c, payload)
	duration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("envelope.status_code", env.StatusCode)
		txn.AddAttribute("handler.duration_ms", duration.Milliseconds())
	}

	logger.Info().
		Int("envelope_status", env.StatusCode).
		Dur("total_duration", duration).
		Msg("request completed")

	return responseHandler.Handle(c, env)
}
