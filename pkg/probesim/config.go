package probesim

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds the simulator's tunables, populated from environment
// variables. Defaults reproduce the canonical fixture deployment.
type Config struct {
	// Port is the HTTP listen port
	Port int `envconfig:"PORT" default:"8080"`

	// SlowDelay is how long /slow (and the slow half of /flaky) blocks
	SlowDelay time.Duration `envconfig:"SLOW_DELAY" default:"5s"`

	// TimeoutDelay is how long /timeout blocks, chosen to exceed any
	// sane probe timeout
	TimeoutDelay time.Duration `envconfig:"TIMEOUT_DELAY" default:"10s"`

	// StartupDelay is how long /startup blocks
	StartupDelay time.Duration `envconfig:"STARTUP_DELAY" default:"10s"`

	// FlakyRate is the probability that /flaky takes the slow path
	FlakyRate float64 `envconfig:"FLAKY_RATE" default:"0.5"`

	// LogLevel controls the zerolog level (debug, info, warn, error)
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// LoadConfig reads simulator configuration from the environment and
// validates it
func LoadConfig() (*Config, error) {
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
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("port must be between 1 and 65535, got %d", c.Port)
	}
	if c.FlakyRate < 0 || c.FlakyRate > 1 {
		return fmt.Errorf("flaky rate must be between 0 and 1, got %.2f", c.FlakyRate)
	}
	return nil
}
