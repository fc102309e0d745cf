package logger

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/agify-lambda/internal/config"
)

func TestNewLoggerWithWriter_JSON(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Environment = "production"
	cfg.Logging.Level = "info"

	buf := &bytes.Buffer{}
	logger := NewLoggerWithWriter(cfg, NewLoggerService(cfg), buf)

	logger.Debug().Msg("hidden")
	logger.Info().Str("name", "michael").Msg("prediction served")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "prediction served", entry["message"])
	assert.Equal(t, config.ServiceName, entry["service"])
	assert.Equal(t, "production", entry["environment"])
	assert.Equal(t, "michael", entry["name"])
}

func TestNewLoggerWithWriter_Console(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	cfg.Logging.Format = "console"

	buf := &bytes.Buffer{}
	logger := NewLoggerWithWriter(cfg, nil, buf)
	logger.Info().Msg("hello")

	assert.Contains(t, buf.String(), "hello")
	assert.False(t, json.Valid(bytes.TrimSpace(buf.Bytes())))
}

func TestLoggerService_Disabled(t *testing.T) {
	cfg := config.DefaultObservabilityConfig()
	service := NewLoggerService(cfg)

	assert.Nil(t, service.GetApplication())
	assert.NotPanics(t, service.Shutdown)

	var nilService *LoggerService
	assert.Nil(t, nilService.GetApplication())
}

func TestWithTraceContext_NilTransaction(t *testing.T) {
	buf := &bytes.Buffer{}
	base := zerolog.New(buf)

	logger := WithTraceContext(base, nil)
	logger.Info().Msg("no trace")

	assert.NotContains(t, buf.String(), "trace.id")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.DebugLevel, parseLevel("debug"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("info"))
	assert.Equal(t, zerolog.WarnLevel, parseLevel("warn"))
	assert.Equal(t, zerolog.ErrorLevel, parseLevel("error"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("nonsense"))
}
