package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/aws/aws-lambda-go/lambdacontext"
	"github.com/google/uuid"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/agify-lambda/internal/logger"
	"github.com/deppfellow/agify-lambda/internal/server"
	"github.com/deppfellow/agify-lambda/internal/service"
)

// LambdaHandler is the function entry point handed to lambda.Start.
type LambdaHandler struct {
	Handler
	ageService *service.AgeService
}

func NewLambdaHandler(s *server.Server, services *service.Services) *LambdaHandler {
	return &LambdaHandler{
		Handler:    NewHandler(s),
		ageService: services.Age,
	}
}

// Handle answers one invocation. The error is always nil: every failure is
// already encoded in the returned envelope.
func (h *LambdaHandler) Handle(ctx context.Context, event json.RawMessage) (service.Envelope, error) {
	start := time.Now()

	requestID := uuid.NewString()
	if lc, ok := lambdacontext.FromContext(ctx); ok && lc.AwsRequestID != "" {
		requestID = lc.AwsRequestID
	}

	invocationLogger := h.server.Logger.With().
		Str("request_id", requestID).
		Str("function", lambdacontext.FunctionName).
		Logger()

	if txn := newrelic.FromContext(ctx); txn != nil {
		invocationLogger = logger.WithTraceContext(invocationLogger, txn)
		txn.AddAttribute("request.id", requestID)
	}

	env := h.ageService.PredictEvent(invocationLogger.WithContext(ctx), event)

	invocationLogger.Info().
		Int("status_code", env.StatusCode).
		Dur("duration", time.Since(start)).
		Msg("invocation completed")

	return env, nil
}
