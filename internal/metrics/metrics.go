// Package metrics exposes run totals as Prometheus metrics.
//
// frametrace is a batch tool, so nothing is served over HTTP. The registry
// is written once at the end of the run in the node_exporter textfile
// format, ready for a textfile collector to pick up.
package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mrzor/frametrace/internal/correlation"
	"github.com/mrzor/frametrace/internal/event"
	"github.com/mrzor/frametrace/internal/timeline"
)

// Recorder holds all Prometheus metrics of a run
type Recorder struct {
	registry *prometheus.Registry

	LinesTotal        *prometheus.CounterVec
	FramesTotal       prometheus.Counter
	EncodedBytesTotal prometheus.Counter
	FrameLatency      prometheus.Histogram
	PendingBuffers    *prometheus.GaugeVec
}

// NewRecorder creates metrics on a private registry
func NewRecorder() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,

		LinesTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "frametrace_lines_total",
				Help: "Trace lines read, by classification",
			},
			[]string{"kind"},
		),
		FramesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "frametrace_frames_total",
				Help: "Frames reported",
			},
		),
		EncodedBytesTotal: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "frametrace_encoded_bytes_total",
				Help: "Bytes produced by the encoder",
			},
		),
		FrameLatency: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "frametrace_frame_latency_seconds",
				Help:    "Time from the first to the last event of a frame",
				Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
			},
		),
		PendingBuffers: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "frametrace_pending_buffers",
				Help: "Buffers still awaiting correlation at the end of the run",
			},
			[]string{"stage"},
		),
	}
}

// Observe records the final state of a run and the reported frames.
func (r *Recorder) Observe(state *correlation.State, frames []timeline.Frame) {
	for _, k := range event.Kinds() {
		r.LinesTotal.WithLabelValues(k.String()).Add(float64(state.Aggregate.Lines[k]))
	}
	if b := state.Aggregate.EncodedBytes; b > 0 {
		r.EncodedBytesTotal.Add(float64(b))
	}
	r.PendingBuffers.WithLabelValues("capture").Set(float64(state.PendingCaptures()))
	r.PendingBuffers.WithLabelValues("decode").Set(float64(state.PendingDecodes()))

	for _, f := range frames {
		r.FramesTotal.Inc()
		r.FrameLatency.Observe(f.Total().Seconds())
	}
}

// WriteTextfile writes the registry atomically to path.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}

// Registry returns the registry holding the metrics.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}
