package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/deppfellow/agify-lambda/internal/errs"
	"github.com/deppfellow/agify-lambda/internal/lib/jsoncodec"
	"github.com/deppfellow/agify-lambda/internal/metrics"
	"github.com/deppfellow/agify-lambda/internal/server"
)

// Request is the invocation payload. Only the optional "name" key is read.
type Request map[string]any

// Name returns the effective name: the "name" value rendered as text, or
// defaultName when the key is missing or its value is falsy (nil, "",
// false, zero, empty list or object).
func (r Request) Name(defaultName string) string {
	if name := nameText(r["name"]); name != "" {
		return name
	}
	return defaultName
}

// nameText renders a name value as query text. true renders as "True",
// numbers keep their JSON text, and lists and objects render as compact JSON
// rather than a language-specific repr.
func nameText(v any) string {
	switch v := v.(type) {
	case nil:
		return ""
	case string:
		return v
	case bool:
		if v {
			return "True"
		}
		return ""
	case float64:
		if v == 0 {
			return ""
		}
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		if v == 0 {
			return ""
		}
		return strconv.Itoa(v)
	case json.Number:
		if f, err := v.Float64(); err == nil && f == 0 {
			return ""
		}
		return v.String()
	case []any:
		if len(v) == 0 {
			return ""
		}
		return compositeText(v)
	case map[string]any:
		if len(v) == 0 {
			return ""
		}
		return compositeText(v)
	default:
		return fmt.Sprint(v)
	}
}

func compositeText(v any) string {
	text, err := jsoncodec.MarshalToString(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return text
}

// OutcomeInvalidEvent labels events that are not a JSON object.
const OutcomeInvalidEvent = "invalid_event"

// Envelope is the status-coded result handed back to the caller. Body is
// always a JSON document.
type Envelope struct {
	StatusCode int    `json:"statusCode"`
	Body       string `json:"body"`
}

// Predictor is the outbound call AgeService depends on.
type Predictor interface {
	Predict(ctx context.Context, name string) (any, error)
}

// AgeService forwards a name to the age-prediction API.
type AgeService struct {
	predictor   Predictor
	defaultName string
	logger      *zerolog.Logger
	metrics     *metrics.Metrics
}

func NewAgeService(s *server.Server) *AgeService {
	return &AgeService{
		predictor:   s.Agify,
		defaultName: s.Config.Upstream.DefaultName,
		logger:      s.Logger,
		metrics:     s.Metrics,
	}
}

// Predict performs exactly one outbound call and never fails: success is a
// 200 envelope carrying the upstream JSON, any failure is a 500 envelope
// carrying {"error": "<text>"}.
func (a *AgeService) Predict(ctx context.Context, req Request) Envelope {
	start := time.Now()
	name := req.Name(a.defaultName)

	logger := a.loggerFrom(ctx).With().
		Str("operation", "predict_age").
		Str("name", name).
		Logger()

	body, err := a.predict(ctx, name)
	duration := time.Since(start)

	if err != nil {
		outcome := outcomeOf(err)
		a.metrics.RecordPrediction(outcome)

		logger.Error().
			Err(err).
			Str("outcome", outcome).
			Dur("duration", duration).
			Msg("age prediction failed")

		return errorEnvelope(err)
	}

	a.metrics.RecordPrediction(metrics.OutcomeSuccess)

	logger.Info().
		Dur("duration", duration).
		Msg("age prediction served")

	return Envelope{StatusCode: http.StatusOK, Body: body}
}

// PredictEvent decodes a raw invocation event and predicts on it. An event
// that is not a JSON object yields a 500 envelope like any other failure.
func (a *AgeService) PredictEvent(ctx context.Context, payload []byte) Envelope {
	req, err := DecodeRequest(payload)
	if err != nil {
		a.metrics.RecordPrediction(OutcomeInvalidEvent)

		a.loggerFrom(ctx).Error().
			Err(err).
			Str("operation", "predict_age").
			Str("outcome", OutcomeInvalidEvent).
			Msg("invocation event rejected")

		return errorEnvelope(err)
	}

	return a.Predict(ctx, req)
}

// DecodeRequest parses a raw event. An empty payload or JSON null is an
// empty request.
func DecodeRequest(payload []byte) (Request, error) {
	payload = bytes.TrimSpace(payload)
	if len(payload) == 0 {
		return Request{}, nil
	}

	var req Request
	if err := jsoncodec.Unmarshal(payload, &req); err != nil {
		return nil, fmt.Errorf("invalid event: %w", err)
	}
	if req == nil {
		req = Request{}
	}
	return req, nil
}

func (a *AgeService) predict(ctx context.Context, name string) (string, error) {
	start := time.Now()
	payload, err := a.predictor.Predict(ctx, name)
	a.metrics.ObserveUpstream(outcomeOf(err), time.Since(start))
	if err != nil {
		return "", err
	}

	body, err := jsoncodec.MarshalToString(payload)
	if err != nil {
		return "", errs.NewUpstreamError(errs.OpEncode, err)
	}

	return body, nil
}

// outcomeOf labels err with the stage that failed, or success for nil.
func outcomeOf(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	var upstreamErr *errs.UpstreamError
	if errors.As(err, &upstreamErr) {
		return string(upstreamErr.Op)
	}
	return string(errs.OpRequest)
}

// loggerFrom prefers the request-scoped logger attached to ctx.
func (a *AgeService) loggerFrom(ctx context.Context) *zerolog.Logger {
	if logger := zerolog.Ctx(ctx); logger.GetLevel() != zerolog.Disabled {
		return logger
	}
	if a.logger != nil {
		return a.logger
	}
	nop := zerolog.Nop()
	return &nop
}

func errorEnvelope(err error) Envelope {
	message := err.Error()
	if message == "" {
		message = http.StatusText(http.StatusInternalServerError)
	}

	body, mErr := jsoncodec.MarshalToString(map[string]string{"error": message})
	if mErr != nil {
		body = `{"error":"Internal Server Error"}`
	}

	return Envelope{StatusCode: http.StatusInternalServerError, Body: body}
}
