package output

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/mrzor/frametrace/internal/attributes"
	"github.com/mrzor/frametrace/internal/correlation"
	"github.com/mrzor/frametrace/internal/timeline"
	"github.com/mrzor/frametrace/internal/timesync"
)

// Span attribute keys.
const (
	AttrFrameKey     = attribute.Key("frametrace.frame_key")
	AttrFrameNo      = attribute.Key("frametrace.frame_no")
	AttrTotalUS      = attribute.Key("frametrace.total_us")
	AttrEntries      = attribute.Key("frametrace.entries")
	AttrGapUS        = attribute.Key("frametrace.gap_us")
	AttrFrames       = attribute.Key("frametrace.frames")
	AttrEncodedBytes = attribute.Key("frametrace.encoded_bytes")
)

// OTELFormatter formats frames as OpenTelemetry spans.
//
// One "frametrace run" span covers the whole trace; each frame is a child
// span from its first to its last entry, and each entry is a span event.
type OTELFormatter struct {
	tracer    trace.Tracer
	converter *timesync.Converter
	evaluator *attributes.Evaluator
	parent    trace.SpanContext
	runAttrs  []attribute.KeyValue
}

// NewOTELFormatter creates a new OTELFormatter.
// A valid parent makes the run span its child; runAttrs are set on the run span.
func NewOTELFormatter(
	tracer trace.Tracer,
	converter *timesync.Converter,
	evaluator *attributes.Evaluator,
	parent trace.SpanContext,
	runAttrs []attribute.KeyValue,
) *OTELFormatter {
	return &OTELFormatter{
		tracer:    tracer,
		converter: converter,
		evaluator: evaluator,
		parent:    parent,
		runAttrs:  runAttrs,
	}
}

// Export creates the run span and one span per frame.
// Spans are ended with their trace timestamps; export happens in the provider.
func (f *OTELFormatter) Export(ctx context.Context, frames []timeline.Frame, agg *correlation.Aggregate) error {
	if len(frames) == 0 {
		return nil
	}

	if f.parent.IsValid() {
		ctx = trace.ContextWithRemoteSpanContext(ctx, f.parent)
	}

	start, end := f.bounds(frames)
	runAttrs := append([]attribute.KeyValue{
		AttrFrames.Int(len(frames)),
	}, f.runAttrs...)
	if agg != nil {
		runAttrs = append(runAttrs, AttrEncodedBytes.Int64(agg.EncodedBytes))
	}

	runCtx, run := f.tracer.Start(ctx, "frametrace run",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(start),
		trace.WithAttributes(runAttrs...),
	)
	defer run.End(trace.WithTimestamp(end))

	for _, frame := range frames {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("exporting frame %d: %w", frame.No, err)
		}
		f.exportFrame(runCtx, frame)
	}
	return nil
}

func (f *OTELFormatter) exportFrame(ctx context.Context, frame timeline.Frame) {
	steps := frame.Steps()
	if len(steps) == 0 {
		return
	}

	attrs := []attribute.KeyValue{
		AttrFrameKey.String(frame.Key),
		AttrFrameNo.Int(frame.No),
		AttrTotalUS.Int64(frame.Total().Microseconds()),
		AttrEntries.Int(len(steps)),
	}
	if f.evaluator != nil {
		attrs = append(attrs, f.evaluator.EvaluateCustomAttributes(frame)...)
	}

	_, span := f.tracer.Start(ctx, "frame "+frame.Key,
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithTimestamp(f.converter.ToWallClock(steps[0].Offset)),
		trace.WithAttributes(attrs...),
	)

	for _, step := range steps {
		span.AddEvent(step.Label,
			trace.WithTimestamp(f.converter.ToWallClock(step.Offset)),
			trace.WithAttributes(AttrGapUS.Int64(step.Gap.Microseconds())),
		)
	}

	span.End(trace.WithTimestamp(f.converter.ToWallClock(steps[len(steps)-1].Offset)))
}

// bounds returns the earliest and latest entry times over all frames.
func (f *OTELFormatter) bounds(frames []timeline.Frame) (time.Time, time.Time) {
	var lo, hi time.Duration
	seen := false
	for _, frame := range frames {
		for _, e := range frame.Entries {
			off := e.Offset()
			if !seen || off < lo {
				lo = off
			}
			if !seen || off > hi {
				hi = off
			}
			seen = true
		}
	}
	return f.converter.ToWallClock(lo), f.converter.ToWallClock(hi)
}
