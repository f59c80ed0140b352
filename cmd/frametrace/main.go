// frametrace reconstructs per-frame timelines from GStreamer debug traces and
// reports how long each frame spent between pipeline stages.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/mrzor/frametrace/internal/attributes"
	"github.com/mrzor/frametrace/internal/classifier"
	"github.com/mrzor/frametrace/internal/config"
	"github.com/mrzor/frametrace/internal/correlation"
	"github.com/mrzor/frametrace/internal/eventprocessor"
	"github.com/mrzor/frametrace/internal/eventstream"
	"github.com/mrzor/frametrace/internal/input"
	"github.com/mrzor/frametrace/internal/logging"
	"github.com/mrzor/frametrace/internal/metrics"
	"github.com/mrzor/frametrace/internal/otel"
	"github.com/mrzor/frametrace/internal/output"
	"github.com/mrzor/frametrace/internal/stats"
	"github.com/mrzor/frametrace/internal/timeline"
	"github.com/mrzor/frametrace/internal/timesync"
)

// Version information injected by GoReleaser at build time.
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// setupLogging builds the diagnostics logger from flags and environment.
func setupLogging(cfg *config.Config) (*zap.Logger, func(), error) {
	logger, err := logging.New(logging.Config{
		Level:       cfg.LogLevel,
		Development: cfg.LogDev,
	})
	if err != nil {
		return nil, nil, err
	}

	cleanup := func() {
		_ = logger.Sync() //nolint:errcheck // stderr sync fails on some terminals
	}
	return logger, cleanup, nil
}

// setupOTEL initializes the OTEL provider and returns a span formatter and cleanup function.
func setupOTEL(cfg *config.Config, logger *zap.Logger) (*output.OTELFormatter, func(), error) {
	otelCfg, err := config.ParseOTELConfig()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse OTEL config: %w", err)
	}

	evaluator, err := attributes.NewEvaluator(cfg.CustomAttributes, logger)
	if err != nil {
		return nil, nil, err
	}

	runInfo := attributes.CurrentRun(cfg.Inputs)

	traceEval, err := attributes.NewTraceIDEvaluator(cfg.TraceID)
	if err != nil {
		return nil, nil, err
	}
	traceID, runAttrs, err := traceEval.EvaluateAndValidate(runInfo)
	if err != nil {
		return nil, nil, err
	}
	if !traceID.IsValid() {
		traceID = otel.RandomTraceID()
	}

	parentEval, err := attributes.NewParentIDEvaluator(cfg.ParentID)
	if err != nil {
		return nil, nil, err
	}
	parentID, parentWarnings, err := parentEval.EvaluateAndValidate(runInfo)
	if err != nil {
		return nil, nil, err
	}
	runAttrs = append(runAttrs, parentWarnings...)

	var parent trace.SpanContext
	if parentID.IsValid() {
		parent = trace.NewSpanContext(trace.SpanContextConfig{
			TraceID:    traceID,
			SpanID:     parentID,
			TraceFlags: trace.FlagsSampled,
			Remote:     true,
		})
	}

	tp, err := otel.InitProvider(otelCfg, traceID, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("ABORT: failed to initialize OTEL provider: %w", err)
	}

	cleanup := func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := otel.ShutdownProvider(tp, shutdownCtx); err != nil {
			logger.Error("error shutting down OTEL provider", zap.Error(err))
		}
	}

	logger.Info("exporting frames as spans", zap.Stringer("trace_id", traceID))

	formatter := output.NewOTELFormatter(
		tp.Tracer("frametrace"),
		timesync.NewConverter(),
		evaluator,
		parent,
		runAttrs,
	)
	return formatter, cleanup, nil
}

// readSources feeds every input through the stream as one continuous trace.
// An interrupt stops reading; what was read so far is still reported.
func readSources(ctx context.Context, stream *eventstream.Stream, paths []string, logger *zap.Logger) error {
	for _, path := range input.Sources(paths) {
		rc, err := input.Open(path, os.Stdin)
		if err != nil {
			return err
		}

		err = stream.Run(ctx, rc)
		closeErr := rc.Close()

		if errors.Is(err, context.Canceled) {
			logger.Warn("interrupted, reporting the trace read so far",
				zap.String("input", path),
				zap.Int("lines", stream.Lines()))
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		if closeErr != nil {
			return fmt.Errorf("closing %s: %w", path, closeErr)
		}

		logger.Debug("input done", zap.String("input", path), zap.Int("lines", stream.Lines()))
	}
	return nil
}

// report writes the text report and, when asked, the extended statistics.
func report(w io.Writer, cfg *config.Config, frames []timeline.Frame, state *correlation.State) error {
	reporter := output.NewTextReporter(w)
	if err := reporter.Report(frames, state.Aggregate); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	if cfg.Stats {
		if err := reporter.WriteStats(stats.Compute(frames)); err != nil {
			return fmt.Errorf("writing statistics: %w", err)
		}
	}
	return nil
}

func run() error {
	cfg, err := config.ParseArgs(os.Args)
	switch {
	case errors.Is(err, config.ErrHelp):
		fmt.Print(config.Usage(filepath.Base(os.Args[0])))
		return nil
	case errors.Is(err, config.ErrVersion):
		fmt.Printf("frametrace %s (commit: %s, built: %s)\n", version, commit, date)
		return nil
	case err != nil:
		return err
	}

	envCfg, err := config.ParseEnvConfig()
	if err != nil {
		return err
	}
	if err := cfg.ApplyEnv(envCfg); err != nil {
		return err
	}

	logger, cleanupLogging, err := setupLogging(cfg)
	if err != nil {
		return err
	}
	defer cleanupLogging()

	logger.Debug("starting frametrace",
		zap.String("version", version),
		zap.String("commit", commit),
		zap.String("built", date))

	profile, err := config.LoadProfile(cfg.ProfilePath)
	if err != nil {
		return err
	}

	filter, err := attributes.NewFilter(cfg.Filter)
	if err != nil {
		return err
	}

	var formatter *output.OTELFormatter
	if cfg.OTLP {
		var cleanupOTEL func()
		formatter, cleanupOTEL, err = setupOTEL(cfg, logger)
		if err != nil {
			return err
		}
		defer cleanupOTEL()
	} else if len(cfg.CustomAttributes) > 0 {
		logger.Warn("custom attributes only apply to exported spans; add --otlp")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Echoed lines and the report share one buffered stdout so they stay in order.
	out := bufio.NewWriter(os.Stdout)

	state := correlation.NewState()
	processor := eventprocessor.NewProcessor(state, profile, out, logger)
	stream := eventstream.New(classifier.New(profile), processor)

	if err := readSources(ctx, stream, cfg.Inputs, logger); err != nil {
		_ = out.Flush()
		return err
	}

	frames, err := filter.Apply(state.Timelines.Frames())
	if err != nil {
		logger.Warn("filter failed on some frames; they are left out", zap.Error(err))
	}
	logger.Debug("correlation done",
		zap.Int("timelines", state.Timelines.Len()),
		zap.Int("reported", len(frames)),
		zap.Int("pending_captures", state.PendingCaptures()),
		zap.Int("pending_decodes", state.PendingDecodes()))

	if err := report(out, cfg, frames, state); err != nil {
		return err
	}
	if err := out.Flush(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if formatter != nil {
		if err := formatter.Export(context.Background(), frames, state.Aggregate); err != nil {
			return fmt.Errorf("exporting spans: %w", err)
		}
	}

	if cfg.MetricsTextfile != "" {
		recorder := metrics.NewRecorder()
		recorder.Observe(state, frames)
		if err := recorder.WriteTextfile(cfg.MetricsTextfile); err != nil {
			return err
		}
	}

	return nil
}
