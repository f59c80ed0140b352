package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// EnvConfig holds settings read from FRAMETRACE_* environment variables.
// Command-line flags take precedence over these.
type EnvConfig struct {
	LogLevel    string `env:"FRAMETRACE_LOG_LEVEL" envDefault:"warn"`
	LogDev      bool   `env:"FRAMETRACE_LOG_DEV" envDefault:"false"`
	ProfilePath string `env:"FRAMETRACE_PROFILE" envDefault:""`
	Attributes  string `env:"FRAMETRACE_ATTRIBUTES" envDefault:""`
}

// ParseEnvConfig parses FRAMETRACE_* environment variables.
func ParseEnvConfig() (*EnvConfig, error) {
	var cfg EnvConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse environment config: %w", err)
	}
	return &cfg, nil
}

// ApplyEnv fills settings not given on the command line from the environment.
// Attributes from FRAMETRACE_ATTRIBUTES come before those given with -a.
func (c *Config) ApplyEnv(e *EnvConfig) error {
	if e == nil {
		return nil
	}
	if c.ProfilePath == "" {
		c.ProfilePath = e.ProfilePath
	}
	if c.LogLevel == "" {
		c.LogLevel = e.LogLevel
	}
	c.LogDev = c.LogDev || e.LogDev

	envAttrs, err := ParseAttributeString(e.Attributes)
	if err != nil {
		return fmt.Errorf("FRAMETRACE_ATTRIBUTES: %w", err)
	}
	if len(envAttrs) > 0 {
		c.CustomAttributes = append(envAttrs, c.CustomAttributes...)
	}
	return nil
}
