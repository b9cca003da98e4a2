package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds shared configuration for the analyzer CLIs, populated
// from environment variables
type Config struct {
	// PrometheusURL is the base URL of the metrics backend
	PrometheusURL string `envconfig:"PROMETHEUS_URL" default:"http://localhost:9090"`

	// QueryTimeout bounds each outbound metrics query
	QueryTimeout time.Duration `envconfig:"QUERY_TIMEOUT" default:"30s"`

	// DatabaseURL enables analysis history persistence when set
	DatabaseURL string `envconfig:"DATABASE_URL" default:""`

	// DefaultProbeTimeout is the timeout in seconds suggested for
	// probes that have none configured
	DefaultProbeTimeout int `envconfig:"DEFAULT_PROBE_TIMEOUT" default:"5"`

	// LogLevel controls the zerolog level (debug, info, warn, error)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// Load reads configuration from the environment and validates it
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks if configuration is valid
func (c *Config) Validate() error {
	if c.PrometheusURL == "" {
		return fmt.Errorf("PROMETHEUS_URL must not be empty")
	}
	if c.QueryTimeout < time.Second {
		return fmt.Errorf("query timeout must be at least 1s, got %s", c.QueryTimeout)
	}
	if c.DefaultProbeTimeout < 1 {
		return fmt.Errorf("default probe timeout must be at least 1 second, got %d", c.DefaultProbeTimeout)
	}
	return nil
}
