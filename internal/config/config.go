// Package config manages environment variables.
//
// It reads variables from the process environment (and a local `.env` file
// when present), loads them into structured Go types, and validates that
// required values are present so they can be reused across the function's
// runtime.
//
// Responsibilities:
//   - Load environment variables (optionally from a `.env` file).
//   - Map env vars into a structured Go config (structs).
//   - Validate required values so a cold start fails fast on bad config.
//   - Provide defaults for every optional block.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	// Side-effect import: if a `.env` file exists it is loaded into the
	// process env before any variable is read.
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

/*
	Env vars are read using the AGIFY_ prefix. The prefix is removed, the rest
	is lower-cased and a double underscore marks nesting:

		AGIFY_UPSTREAM__BASE_URL -> upstream.base_url -> Config.Upstream.BaseURL

	Dots cannot be used in Lambda environment variable names, hence "__".
*/

const (
	// EnvPrefix is the prefix every configuration variable carries.
	EnvPrefix = "AGIFY_"

	// ServiceName tags logs, traces and metrics.
	ServiceName = "agify-lambda"

	// DefaultBaseURL is the age-prediction service endpoint.
	DefaultBaseURL = "https://api.agify.io"

	// DefaultName is used when a request carries no usable name.
	DefaultName = "michael"
)

// Config is the root configuration object for the function.
//
// Observability is a pointer because it is optional. If no observability
// variables are provided the defaults are injected.
type Config struct {
	Primary       Primary              `koanf:"primary" validate:"required"`
	Upstream      UpstreamConfig       `koanf:"upstream" validate:"required"`
	Server        ServerConfig         `koanf:"server" validate:"required"`
	Observability *ObservabilityConfig `koanf:"observability"`
}

// Primary holds top-level information about the runtime environment.
type Primary struct {
	Env string `koanf:"env" validate:"required"`
}

// UpstreamConfig describes the outbound age-prediction API.
type UpstreamConfig struct {
	// BaseURL is concatenated with the encoded query string, e.g.
	// https://api.agify.io + ?name=michael.
	BaseURL string `koanf:"base_url" validate:"required,url"`

	// DefaultName replaces a missing or falsy request name.
	DefaultName string `koanf:"default_name" validate:"required"`

	// Timeout bounds a single outbound call. Zero leaves the call bounded
	// only by the invocation context.
	Timeout time.Duration `koanf:"timeout"`

	// MaxBodyBytes caps how much of the upstream body is read.
	MaxBodyBytes int64 `koanf:"max_body_bytes" validate:"required,min=1"`

	// UserAgent is sent on every outbound request.
	UserAgent string `koanf:"user_agent"`
}

// ServerConfig groups settings for the local HTTP runner (cmd/server).
// Timeouts are seconds.
type ServerConfig struct {
	Port               string   `koanf:"port" validate:"required"`
	ReadTimeout        int      `koanf:"read_timeout" validate:"required"`
	WriteTimeout       int      `koanf:"write_timeout" validate:"required"`
	IdleTimeout        int      `koanf:"idle_timeout" validate:"required"`
	CORSAllowedOrigins []string `koanf:"cors_allowed_origins" validate:"required"`
}

// defaults returns the flat koanf key/value set loaded before the env.
func defaults() map[string]interface{} {
	return map[string]interface{}{
		"primary.env": "development",

		"upstream.base_url":       DefaultBaseURL,
		"upstream.default_name":   DefaultName,
		"upstream.timeout":        "0s",
		"upstream.max_body_bytes": 1 << 20,
		"upstream.user_agent":     ServiceName,

		"server.port":                 "8080",
		"server.read_timeout":         30,
		"server.write_timeout":        30,
		"server.idle_timeout":         60,
		"server.cors_allowed_origins": []string{"*"},

		"observability.logging.level":                         "",
		"observability.logging.format":                        "json",
		"observability.new_relic.license_key":                 "",
		"observability.new_relic.app_log_forwarding_enabled":  true,
		"observability.new_relic.distributed_tracing_enabled": true,
		"observability.new_relic.debug_logging":               false,
		"observability.health_checks.enabled":                 true,
		"observability.health_checks.timeout":                 "5s",
		"observability.health_checks.checks":                  []string{},
	}
}

// Load reads configuration from environment variables, unmarshals it into
// Config, validates it, applies defaults and returns the result.
//
// Behavior summary:
//   - Loads defaults, then env vars with prefix AGIFY_ on top of them
//   - Unmarshals into Config
//   - Validates required config blocks/fields
//   - Sets default observability if missing
//   - Overrides observability service name + environment
//   - Validates observability config as well
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("could not load default config: %w", err)
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("could not load env variables: %w", err)
	}

	mainConfig := &Config{}
	if err := k.Unmarshal("", mainConfig); err != nil {
		return nil, fmt.Errorf("could not unmarshal main config: %w", err)
	}

	// Env lists arrive as a single comma separated string.
	mainConfig.Server.CORSAllowedOrigins = splitList(mainConfig.Server.CORSAllowedOrigins)
	if mainConfig.Observability != nil {
		mainConfig.Observability.HealthChecks.Checks = splitList(mainConfig.Observability.HealthChecks.Checks)
	}

	if err := Finalize(mainConfig); err != nil {
		return nil, err
	}

	return mainConfig, nil
}

// Finalize validates cfg and fills the observability block. It is exported
// so callers that build a Config by hand go through the same checks.
func Finalize(cfg *Config) error {
	if cfg.Observability == nil {
		cfg.Observability = DefaultObservabilityConfig()
	}

	// Service name and environment are forced regardless of what was set.
	cfg.Observability.ServiceName = ServiceName
	cfg.Observability.Environment = cfg.Primary.Env

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Upstream.Timeout < 0 {
		return fmt.Errorf("upstream timeout must be non-negative")
	}

	if err := cfg.Observability.Validate(); err != nil {
		return fmt.Errorf("invalid observability config: %w", err)
	}

	return nil
}

func splitList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, item := range in {
		for _, part := range strings.Split(item, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
