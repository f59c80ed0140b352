// Package otel provides OpenTelemetry tracer provider initialization and management.
package otel

import (
	"context"
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand"
	"os"
	"sync"

	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.24.0"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mrzor/frametrace/internal/config"
)

// logProxyConfig reports proxy settings, since the HTTP exporter honors them silently.
func logProxyConfig(logger *zap.Logger) {
	httpProxy := os.Getenv("HTTP_PROXY")
	if httpProxy == "" {
		httpProxy = os.Getenv("http_proxy")
	}
	httpsProxy := os.Getenv("HTTPS_PROXY")
	if httpsProxy == "" {
		httpsProxy = os.Getenv("https_proxy")
	}

	if httpProxy != "" || httpsProxy != "" {
		logger.Debug("proxy configuration",
			zap.String("HTTP_PROXY", httpProxy),
			zap.String("HTTPS_PROXY", httpsProxy))
	} else {
		logger.Debug("no proxy configured (HTTP_PROXY/HTTPS_PROXY not set)")
	}
}

// InitProvider initializes the OpenTelemetry tracer provider exporting over OTLP/HTTP.
// Every span started from it belongs to traceID.
//
// Note: Uses OTLP/HTTP protocol. The HTTP client automatically honors HTTP_PROXY,
// HTTPS_PROXY, and NO_PROXY environment variables through Go's standard net/http transport.
func InitProvider(cfg *config.OTELConfig, traceID trace.TraceID, logger *zap.Logger) (*sdktrace.TracerProvider, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	endpoint := cfg.GetEndpoint()

	logger.Debug("OTEL configuration",
		zap.String("service_name", cfg.ServiceName),
		zap.String("endpoint", endpoint),
		zap.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.ExporterEndpoint),
		zap.String("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", cfg.TracesEndpoint),
		zap.String("resource_attributes", cfg.ResourceAttributes),
		zap.Bool("tls", cfg.UseTLS()),
		zap.Duration("timeout", cfg.Timeout),
		zap.Stringer("trace_id", traceID))
	logProxyConfig(logger)

	opts := []otlptracehttp.Option{
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithTimeout(cfg.Timeout),
	}
	if !cfg.UseTLS() {
		opts = append(opts, otlptracehttp.WithInsecure())
	}
	exporter, err := otlptracehttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OTLP trace exporter: %w", err)
	}

	res, err := NewResource(ctx, cfg)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(res),
		sdktrace.WithIDGenerator(NewTraceIDGenerator(traceID)),
	)

	return tp, nil
}

// NewResource builds the service resource from OTEL_* settings.
func NewResource(ctx context.Context, cfg *config.OTELConfig) (*resource.Resource, error) {
	resourceAttrs := []resource.Option{
		resource.WithAttributes(semconv.ServiceName(cfg.ServiceName)),
	}

	customAttrs := cfg.ParseResourceAttributes()
	if len(customAttrs) > 0 {
		resourceAttrs = append(resourceAttrs, resource.WithAttributes(customAttrs...))
	}

	res, err := resource.New(ctx, resourceAttrs...)
	if err != nil {
		return nil, fmt.Errorf("failed to create resource: %w", err)
	}
	return res, nil
}

// ShutdownProvider gracefully shuts down the tracer provider, flushing any remaining spans.
func ShutdownProvider(tp *sdktrace.TracerProvider, ctx context.Context) error {
	if tp == nil {
		return nil
	}

	if err := tp.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown tracer provider: %w", err)
	}

	return nil
}

// RandomTraceID returns a new random, valid trace ID.
func RandomTraceID() trace.TraceID {
	var id trace.TraceID
	for !id.IsValid() {
		_, _ = crand.Read(id[:])
	}
	return id
}

// traceIDGenerator gives every root span the same trace ID so that all
// frames of a run land in one trace.
type traceIDGenerator struct {
	traceID trace.TraceID

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewTraceIDGenerator returns an IDGenerator that always uses traceID for
// new traces. An invalid traceID is replaced with a random one.
func NewTraceIDGenerator(traceID trace.TraceID) sdktrace.IDGenerator {
	if !traceID.IsValid() {
		traceID = RandomTraceID()
	}
	var seed [8]byte
	_, _ = crand.Read(seed[:])
	//nolint:gosec // span IDs need uniqueness, not unpredictability
	rnd := rand.New(rand.NewSource(int64(binary.LittleEndian.Uint64(seed[:]))))
	return &traceIDGenerator{traceID: traceID, rnd: rnd}
}

// NewIDs implements sdktrace.IDGenerator.
func (g *traceIDGenerator) NewIDs(_ context.Context) (trace.TraceID, trace.SpanID) {
	return g.traceID, g.newSpanID()
}

// NewSpanID implements sdktrace.IDGenerator.
func (g *traceIDGenerator) NewSpanID(_ context.Context, _ trace.TraceID) trace.SpanID {
	return g.newSpanID()
}

func (g *traceIDGenerator) newSpanID() trace.SpanID {
	g.mu.Lock()
	defer g.mu.Unlock()

	var sid trace.SpanID
	for !sid.IsValid() {
		_, _ = g.rnd.Read(sid[:])
	}
	return sid
}
