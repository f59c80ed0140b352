package output

import (
	"fmt"
	"io"

	"github.com/mrzor/frametrace/internal/correlation"
	"github.com/mrzor/frametrace/internal/stats"
	"github.com/mrzor/frametrace/internal/timeline"
	"github.com/mrzor/frametrace/internal/timesync"
)

// TextReporter writes the per-frame latency report.
type TextReporter struct {
	w   io.Writer
	err error
}

// NewTextReporter creates a reporter writing to w.
func NewTextReporter(w io.Writer) *TextReporter {
	return &TextReporter{w: w}
}

// printf writes until the first error, which it keeps.
func (r *TextReporter) printf(format string, args ...interface{}) {
	if r.err != nil {
		return
	}
	_, r.err = fmt.Fprintf(r.w, format, args...)
}

// Report writes every frame in order followed by the stream totals.
// With no frames only the no-frame marker is written.
func (r *TextReporter) Report(frames []timeline.Frame, agg *correlation.Aggregate) error {
	var sum int64
	for _, f := range frames {
		sum += r.writeFrame(f)
	}

	if len(frames) == 0 {
		r.printf("\n=-= No frame, the pipeline produced no frames\n")
		return r.err
	}

	if kb, ok := agg.EncodedKB(); ok {
		r.printf("\n=-= Encoded stream size: %d KB\n", kb)
	} else {
		r.printf("\n=-= Encoded stream size: N/A (lack of encoder traces)\n")
	}
	r.printf("\n=-= Average: %6d us on %d frames\n", sum/int64(len(frames)), len(frames))
	return r.err
}

// writeFrame writes one frame and returns its total in microseconds.
func (r *TextReporter) writeFrame(f timeline.Frame) int64 {
	r.printf("\n*** Frame no: %d, timestamp: %s\n", f.No, f.Key)
	for _, step := range f.Steps() {
		later := "(    first event)"
		if !step.First {
			later = fmt.Sprintf("(%6d us later)", step.Gap.Microseconds())
		}
		r.printf("At %s %s Func: %s\n", displayClock(step.Entry), later, step.Label)
	}
	total := f.Total().Microseconds()
	r.printf("*** Total: %6d us\n", total)
	return total
}

// displayClock normalizes the entry clock, or keeps it as printed when it cannot be parsed.
func displayClock(e timeline.Entry) string {
	d, err := timesync.ParseClock(e.Timestamp)
	if err != nil {
		return e.Timestamp
	}
	return timesync.FormatClock(d)
}

// WriteStats writes the extended latency summary.
func (r *TextReporter) WriteStats(s stats.Summary) error {
	if s.Frames == 0 {
		return nil
	}

	r.printf("\n=-= Latency: min %d us, max %d us, mean %.1f us, stddev %.1f us\n",
		int64(s.Min), int64(s.Max), s.Mean, s.StdDev)
	r.printf("=-= Percentiles: p50 %d us, p95 %d us, p99 %d us\n",
		int64(s.P50), int64(s.P95), int64(s.P99))

	if len(s.Labels) == 0 {
		return r.err
	}
	r.printf("\n=-= Mean gap per event:\n")
	for _, l := range s.Labels {
		r.printf("%10.1f us %6d samples  %s\n", l.MeanGapUS, l.Count, l.Label)
	}
	return r.err
}
