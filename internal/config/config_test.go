package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Primary.Env)
	assert.Equal(t, DefaultBaseURL, cfg.Upstream.BaseURL)
	assert.Equal(t, DefaultName, cfg.Upstream.DefaultName)
	assert.Equal(t, time.Duration(0), cfg.Upstream.Timeout)
	assert.Equal(t, int64(1<<20), cfg.Upstream.MaxBodyBytes)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSAllowedOrigins)

	require.NotNil(t, cfg.Observability)
	assert.Equal(t, ServiceName, cfg.Observability.ServiceName)
	assert.Equal(t, "development", cfg.Observability.Environment)
	assert.Equal(t, "debug", cfg.Observability.GetLogLevel())
	assert.Equal(t, 5*time.Second, cfg.Observability.HealthChecks.Timeout)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("AGIFY_PRIMARY__ENV", "production")
	t.Setenv("AGIFY_UPSTREAM__BASE_URL", "http://localhost:9999")
	t.Setenv("AGIFY_UPSTREAM__DEFAULT_NAME", "anna")
	t.Setenv("AGIFY_UPSTREAM__TIMEOUT", "3s")
	t.Setenv("AGIFY_SERVER__PORT", "9090")
	t.Setenv("AGIFY_SERVER__CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")
	t.Setenv("AGIFY_OBSERVABILITY__LOGGING__LEVEL", "warn")
	t.Setenv("AGIFY_OBSERVABILITY__HEALTH_CHECKS__CHECKS", "upstream")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "production", cfg.Primary.Env)
	assert.Equal(t, "http://localhost:9999", cfg.Upstream.BaseURL)
	assert.Equal(t, "anna", cfg.Upstream.DefaultName)
	assert.Equal(t, 3*time.Second, cfg.Upstream.Timeout)
	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.Server.CORSAllowedOrigins)
	assert.Equal(t, "warn", cfg.Observability.GetLogLevel())
	assert.True(t, cfg.Observability.IsProduction())
	assert.True(t, cfg.Observability.HasCheck("upstream"))
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{name: "base url is not a url", key: "AGIFY_UPSTREAM__BASE_URL", value: "not a url"},
		{name: "empty default name", key: "AGIFY_UPSTREAM__DEFAULT_NAME", value: ""},
		{name: "negative timeout", key: "AGIFY_UPSTREAM__TIMEOUT", value: "-1s"},
		{name: "unknown log level", key: "AGIFY_OBSERVABILITY__LOGGING__LEVEL", value: "verbose"},
		{name: "unknown log format", key: "AGIFY_OBSERVABILITY__LOGGING__FORMAT", value: "xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)

			cfg, err := Load()
			assert.Error(t, err)
			assert.Nil(t, cfg)
		})
	}
}

func TestFinalize_InjectsObservability(t *testing.T) {
	cfg := &Config{
		Primary: Primary{Env: "staging"},
		Upstream: UpstreamConfig{
			BaseURL:      DefaultBaseURL,
			DefaultName:  DefaultName,
			MaxBodyBytes: 1024,
		},
		Server: ServerConfig{
			Port:               "8080",
			ReadTimeout:        1,
			WriteTimeout:       1,
			IdleTimeout:        1,
			CORSAllowedOrigins: []string{"*"},
		},
	}

	require.NoError(t, Finalize(cfg))
	require.NotNil(t, cfg.Observability)
	assert.Equal(t, "staging", cfg.Observability.Environment)
	assert.Equal(t, "info", cfg.Observability.GetLogLevel())
}

func TestObservabilityConfig_GetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		level    string
		expected string
	}{
		{name: "explicit level wins", env: "production", level: "error", expected: "error"},
		{name: "production default", env: "production", level: "", expected: "info"},
		{name: "development default", env: "development", level: "", expected: "debug"},
		{name: "other env default", env: "staging", level: "", expected: "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultObservabilityConfig()
			c.Environment = tt.env
			c.Logging.Level = tt.level

			assert.Equal(t, tt.expected, c.GetLogLevel())
		})
	}
}

func TestObservabilityConfig_HasCheck(t *testing.T) {
	c := DefaultObservabilityConfig()
	assert.False(t, c.HasCheck("upstream"))

	c.HealthChecks.Checks = []string{"upstream"}
	assert.True(t, c.HasCheck("upstream"))

	c.HealthChecks.Enabled = false
	assert.False(t, c.HasCheck("upstream"))
}
