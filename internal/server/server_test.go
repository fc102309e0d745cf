package server

import (
	"context"
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/agify-lambda/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	cfg := &config.Config{
		Primary: config.Primary{Env: "test"},
		Upstream: config.UpstreamConfig{
			BaseURL:      config.DefaultBaseURL,
			DefaultName:  config.DefaultName,
			MaxBodyBytes: 1024,
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

	return cfg
}

func TestNew(t *testing.T) {
	logger := zerolog.Nop()

	s, err := New(testConfig(t), &logger, nil)
	require.NoError(t, err)
	assert.NotNil(t, s.Agify)
	assert.NotNil(t, s.Metrics)
	assert.Equal(t, "https://api.agify.io?name=michael", s.Agify.URL("michael"))
}

func TestNew_MissingDependencies(t *testing.T) {
	logger := zerolog.Nop()

	_, err := New(nil, &logger, nil)
	assert.Error(t, err)

	_, err = New(testConfig(t), nil, nil)
	assert.Error(t, err)
}

func TestServer_StartWithoutSetup(t *testing.T) {
	logger := zerolog.Nop()
	s, err := New(testConfig(t), &logger, nil)
	require.NoError(t, err)

	assert.EqualError(t, s.Start(), "HTTP server not initialized")
	assert.NoError(t, s.Shutdown(context.Background()))
}

func TestServer_SetupHTTPServer(t *testing.T) {
	logger := zerolog.Nop()
	s, err := New(testConfig(t), &logger, nil)
	require.NoError(t, err)

	s.SetupHTTPServer(http.NotFoundHandler())
	require.NotNil(t, s.httpServer)
	assert.Equal(t, ":0", s.httpServer.Addr)
	assert.NoError(t, s.Shutdown(context.Background()))
}
