package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"go.opentelemetry.io/otel/attribute"
)

// DefaultOTLPEndpoint is the local collector's OTLP/HTTP port.
const DefaultOTLPEndpoint = "localhost:4318"

// OTELConfig holds span export settings. The standard OTEL_* variables are
// honored; FRAMETRACE_OTLP_* ones tune the exporter for one-shot runs.
type OTELConfig struct {
	ServiceName        string        `env:"OTEL_SERVICE_NAME" envDefault:"frametrace"`
	ResourceAttributes string        `env:"OTEL_RESOURCE_ATTRIBUTES"`
	ExporterEndpoint   string        `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	TracesEndpoint     string        `env:"OTEL_EXPORTER_OTLP_TRACES_ENDPOINT"`
	Timeout            time.Duration `env:"FRAMETRACE_OTLP_TIMEOUT" envDefault:"10s"`
}

// ParseOTELConfig parses OTEL configuration from environment variables
func ParseOTELConfig() (*OTELConfig, error) {
	var cfg OTELConfig
	if err := env.Parse(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse OTEL config: %w", err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("FRAMETRACE_OTLP_TIMEOUT must be positive, got %s", cfg.Timeout)
	}
	return &cfg, nil
}

// rawEndpoint picks the traces endpoint over the generic one.
func (c *OTELConfig) rawEndpoint() string {
	if c.TracesEndpoint != "" {
		return c.TracesEndpoint
	}
	return c.ExporterEndpoint
}

// GetEndpoint returns the collector as host:port, the form the OTLP/HTTP
// exporter takes. A URL scheme and trailing path are dropped.
func (c *OTELConfig) GetEndpoint() string {
	ep := c.rawEndpoint()
	if ep == "" {
		return DefaultOTLPEndpoint
	}
	if _, rest, ok := strings.Cut(ep, "://"); ok {
		ep = rest
	}
	host, _, _ := strings.Cut(ep, "/")
	return host
}

// UseTLS reports whether the configured endpoint asks for https.
func (c *OTELConfig) UseTLS() bool {
	return strings.HasPrefix(strings.ToLower(c.rawEndpoint()), "https://")
}

// ParseResourceAttributes parses OTEL_RESOURCE_ATTRIBUTES ("k1=v1,k2=v2").
// Pairs without '=' or with an empty key are skipped.
func (c *OTELConfig) ParseResourceAttributes() []attribute.KeyValue {
	var attrs []attribute.KeyValue
	for _, pair := range strings.Split(c.ResourceAttributes, ",") {
		key, value, ok := strings.Cut(pair, "=")
		key = strings.TrimSpace(key)
		if !ok || key == "" {
			continue
		}
		attrs = append(attrs, attribute.String(key, strings.TrimSpace(value)))
	}
	return attrs
}
