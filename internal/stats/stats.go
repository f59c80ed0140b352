// Package stats summarizes frame latencies beyond the plain average.
package stats

import (
	"math"

	"github.com/influxdata/tdigest"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/mrzor/frametrace/internal/timeline"
)

// Summary describes the distribution of frame totals, in microseconds.
type Summary struct {
	Frames int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
	P50    float64
	P95    float64
	P99    float64
	Labels []LabelStat
}

// LabelStat is the mean gap from the previous entry to entries with Label.
type LabelStat struct {
	Label     string
	MeanGapUS float64
	Count     int
}

// Compute summarizes frames. Percentiles come from a t-digest and are
// approximate for large frame counts.
func Compute(frames []timeline.Frame) Summary {
	s := Summary{Frames: len(frames)}
	if len(frames) == 0 {
		return s
	}

	totals := make([]float64, len(frames))
	digest := tdigest.NewWithCompression(100)
	for i, f := range frames {
		us := float64(f.Total().Microseconds())
		totals[i] = us
		digest.Add(us, 1)
	}

	s.Min = floats.Min(totals)
	s.Max = floats.Max(totals)
	if len(totals) > 1 {
		s.Mean, s.StdDev = stat.MeanStdDev(totals, nil)
	} else {
		s.Mean = totals[0]
	}
	s.P50 = clamp(digest.Quantile(0.50), s.Min, s.Max)
	s.P95 = clamp(digest.Quantile(0.95), s.Min, s.Max)
	s.P99 = clamp(digest.Quantile(0.99), s.Min, s.Max)
	s.Labels = labelStats(frames)
	return s
}

// labelStats averages gaps per label in first-seen order.
// First entries have no predecessor and are not counted.
func labelStats(frames []timeline.Frame) []LabelStat {
	var order []string
	gaps := make(map[string][]float64)
	for _, f := range frames {
		for _, step := range f.Steps() {
			if step.First {
				continue
			}
			if _, seen := gaps[step.Label]; !seen {
				order = append(order, step.Label)
			}
			gaps[step.Label] = append(gaps[step.Label], float64(step.Gap.Microseconds()))
		}
	}

	out := make([]LabelStat, len(order))
	for i, label := range order {
		out[i] = LabelStat{
			Label:     label,
			MeanGapUS: stat.Mean(gaps[label], nil),
			Count:     len(gaps[label]),
		}
	}
	return out
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
