package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/frametrace/internal/correlation"
	"github.com/mrzor/frametrace/internal/stats"
	"github.com/mrzor/frametrace/internal/timeline"
)

func twoFrames() []timeline.Frame {
	s := timeline.NewStore()

	a := s.GetOrCreate("0:00:00.033333333")
	a.Append("10:00:00.000000", "FillBufferDone")
	a.Append("10:00:00.010000", "gst_pad_push:<cam0:src>")
	a.Append("10:00:01.020500", "After DRI2WaitSBC")

	b := s.GetOrCreate("0:00:00.066666666")
	b.Append("10:00:00.040000", "FillBufferDone")
	b.Append("10:00:00.045000", "gst_pad_push:<cam0:src>")

	return s.Frames()
}

func TestTextReporter_Report(t *testing.T) {
	var buf bytes.Buffer
	agg := correlation.NewAggregate()
	agg.AddEncoded(3000)
	agg.AddEncoded(2000)

	require.NoError(t, NewTextReporter(&buf).Report(twoFrames(), agg))

	want := `
*** Frame no: 1, timestamp: 0:00:00.033333333
At 10:00:00.000000 (    first event) Func: FillBufferDone
At 10:00:00.010000 ( 10000 us later) Func: gst_pad_push:<cam0:src>
At 10:00:01.020500 (1010500 us later) Func: After DRI2WaitSBC
*** Total: 1020500 us

*** Frame no: 2, timestamp: 0:00:00.066666666
At 10:00:00.040000 (    first event) Func: FillBufferDone
At 10:00:00.045000 (  5000 us later) Func: gst_pad_push:<cam0:src>
*** Total:   5000 us

=-= Encoded stream size: 4 KB

=-= Average: 512750 us on 2 frames
`
	assert.Equal(t, want, buf.String())
}

func TestTextReporter_NoEncoder(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewTextReporter(&buf).Report(twoFrames()[1:], correlation.NewAggregate()))

	assert.Contains(t, buf.String(), "\n=-= Encoded stream size: N/A (lack of encoder traces)\n")
	assert.Contains(t, buf.String(), "\n=-= Average:   5000 us on 1 frames\n")
}

func TestTextReporter_ZeroByteEncoder(t *testing.T) {
	var buf bytes.Buffer
	agg := correlation.NewAggregate()
	agg.AddEncoded(0)

	require.NoError(t, NewTextReporter(&buf).Report(twoFrames()[1:], agg))

	assert.Contains(t, buf.String(), "\n=-= Encoded stream size: 0 KB\n")
	assert.NotContains(t, buf.String(), "N/A")
}

func TestTextReporter_NoFrames(t *testing.T) {
	var buf bytes.Buffer
	agg := correlation.NewAggregate()
	agg.AddEncoded(4096)

	require.NoError(t, NewTextReporter(&buf).Report(nil, agg))

	assert.Equal(t, "\n=-= No frame, the pipeline produced no frames\n", buf.String())
}

func TestTextReporter_KeepsFrameNumbers(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, NewTextReporter(&buf).Report(twoFrames()[1:], correlation.NewAggregate()))

	assert.Contains(t, buf.String(), "*** Frame no: 2, timestamp: 0:00:00.066666666\n")
}

func TestTextReporter_AverageTruncates(t *testing.T) {
	s := timeline.NewStore()
	for i, end := range []string{"0:00:00.000001", "0:00:00.000002"} {
		tl := s.GetOrCreate(string(rune('a' + i)))
		tl.Append("0:00:00.000000", "FillBufferDone")
		tl.Append(end, "x")
	}

	var buf bytes.Buffer
	require.NoError(t, NewTextReporter(&buf).Report(s.Frames(), correlation.NewAggregate()))
	assert.Contains(t, buf.String(), "=-= Average:      1 us on 2 frames")
}

func TestTextReporter_UnparseableClock(t *testing.T) {
	s := timeline.NewStore()
	tl := s.GetOrCreate("k")
	tl.Append("bogus", "FillBufferDone")
	tl.Append("0:00:00.000250", "x")

	var buf bytes.Buffer
	require.NoError(t, NewTextReporter(&buf).Report(s.Frames(), correlation.NewAggregate()))
	assert.Contains(t, buf.String(), "At bogus (    first event) Func: FillBufferDone\n")
	assert.Contains(t, buf.String(), "At 00:00:00.000250 (   250 us later) Func: x\n")
	assert.Contains(t, buf.String(), "*** Total:    250 us\n")
}

func TestTextReporter_WriteStats(t *testing.T) {
	var buf bytes.Buffer
	summary := stats.Summary{
		Frames: 2,
		Min:    5000,
		Max:    1020500,
		Mean:   512750,
		StdDev: 718138.4,
		P50:    5000,
		P95:    1020500,
		P99:    1020500,
		Labels: []stats.LabelStat{
			{Label: "gst_pad_push:<cam0:src>", MeanGapUS: 7500, Count: 2},
			{Label: "After DRI2WaitSBC", MeanGapUS: 1010500, Count: 1},
		},
	}

	require.NoError(t, NewTextReporter(&buf).WriteStats(summary))

	want := `
=-= Latency: min 5000 us, max 1020500 us, mean 512750.0 us, stddev 718138.4 us
=-= Percentiles: p50 5000 us, p95 1020500 us, p99 1020500 us

=-= Mean gap per event:
    7500.0 us      2 samples  gst_pad_push:<cam0:src>
 1010500.0 us      1 samples  After DRI2WaitSBC
`
	assert.Equal(t, want, buf.String())
}

func TestTextReporter_WriteStatsEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, NewTextReporter(&buf).WriteStats(stats.Summary{}))
	assert.Empty(t, buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, errors.New("disk full")
}

func TestTextReporter_WriteError(t *testing.T) {
	err := NewTextReporter(failingWriter{}).Report(twoFrames(), correlation.NewAggregate())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
}
