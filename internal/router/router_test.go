package router

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/agify-lambda/internal/config"
	"github.com/deppfellow/agify-lambda/internal/errs"
	"github.com/deppfellow/agify-lambda/internal/handler"
	"github.com/deppfellow/agify-lambda/internal/lib/jsoncodec"
	"github.com/deppfellow/agify-lambda/internal/middleware"
	"github.com/deppfellow/agify-lambda/internal/server"
	"github.com/deppfellow/agify-lambda/internal/service"
)

func newTestRouter(t *testing.T, upstream http.HandlerFunc) *echo.Echo {
	t.Helper()

	ts := httptest.NewServer(upstream)
	t.Cleanup(ts.Close)

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Upstream: config.UpstreamConfig{
			BaseURL:      ts.URL,
			DefaultName:  config.DefaultName,
			MaxBodyBytes: 1 << 20,
		},
		Server: config.ServerConfig{
			Port:               "0",
			ReadTimeout:        1,
			WriteTimeout:       1,
			IdleTimeout:        1,
			CORSAllowedOrigins: []string{"*"},
		},
	}
	require.NoError(t, config.Finalize(cfg))

	logger := zerolog.New(io.Discard)
	s, err := server.New(cfg, &logger, nil)
	require.NoError(t, err)

	services := service.NewServices(s)
	return NewRouter(s, handler.NewHandlers(s, services))
}

func echoName(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_, _ = io.WriteString(w, `{"name":"`+r.URL.Query().Get("name")+`","age":62,"count":233482}`)
}

func serve(r *echo.Echo, req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestRouter_PredictGet(t *testing.T) {
	r := newTestRouter(t, echoName)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/predict?name=anna", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"anna","age":62,"count":233482}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(middleware.RequestIDHeader))
}

func TestRouter_PredictGetDefaultsName(t *testing.T) {
	r := newTestRouter(t, echoName)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/predict", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"michael","age":62,"count":233482}`, rec.Body.String())
}

func TestRouter_PredictPost(t *testing.T) {
	r := newTestRouter(t, echoName)

	req := httptest.NewRequest(http.MethodPost, "/predict", strings.NewReader(`{"name":"bob"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := serve(r, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"name":"bob","age":62,"count":233482}`, rec.Body.String())
}

func TestRouter_PredictUpstreamFailure(t *testing.T) {
	r := newTestRouter(t, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	})

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/predict?name=anna", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"HTTP Error 429: Too Many Requests"}`, rec.Body.String())
}

func TestRouter_Invoke(t *testing.T) {
	r := newTestRouter(t, echoName)

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(`{"name":"anna"}`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var env service.Envelope
	require.NoError(t, jsoncodec.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusOK, env.StatusCode)
	assert.JSONEq(t, `{"name":"anna","age":62,"count":233482}`, env.Body)
}

func TestRouter_InvokeInvalidEvent(t *testing.T) {
	r := newTestRouter(t, echoName)

	rec := serve(r, httptest.NewRequest(http.MethodPost, "/invoke", strings.NewReader(`"anna"`)))
	require.Equal(t, http.StatusOK, rec.Code)

	var env service.Envelope
	require.NoError(t, jsoncodec.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, http.StatusInternalServerError, env.StatusCode)
	assert.Contains(t, env.Body, "invalid event")
}

func TestRouter_Status(t *testing.T) {
	r := newTestRouter(t, echoName)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/status", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, jsoncodec.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "test", body["environment"])
}

func TestRouter_Metrics(t *testing.T) {
	r := newTestRouter(t, echoName)

	serve(r, httptest.NewRequest(http.MethodGet, "/predict?name=anna", nil))
	rec := serve(r, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `agify_predictions_total{outcome="success"} 1`)
}

func TestRouter_UnknownRoute(t *testing.T) {
	r := newTestRouter(t, echoName)

	rec := serve(r, httptest.NewRequest(http.MethodGet, "/nope", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	var body errs.HTTPError
	require.NoError(t, jsoncodec.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "NOT_FOUND", body.Code)
	assert.Equal(t, "Route not found", body.Message)
}
