package metrics

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrzor/frametrace/internal/correlation"
	"github.com/mrzor/frametrace/internal/event"
)

func testState() *correlation.State {
	s := correlation.NewState()
	s.Aggregate.CountLine(event.KindChainCall)
	s.Aggregate.CountLine(event.KindChainCall)
	s.Aggregate.CountLine(event.KindUnrecognized)
	s.Aggregate.AddEncoded(3000)
	s.RecordCapture("0xa", "0:00:01.0")

	a := s.Timelines.GetOrCreate("A")
	a.Append("0:00:01.000000", "FillBufferDone")
	a.Append("0:00:01.020000", "After DRI2WaitSBC")
	b := s.Timelines.GetOrCreate("B")
	b.Append("0:00:02.000000", "FillBufferDone")
	b.Append("0:00:02.003000", "After DRI2WaitSBC")
	return s
}

func TestRecorder_Observe(t *testing.T) {
	s := testState()
	r := NewRecorder()

	r.Observe(s, s.Timelines.Frames())

	assert.Equal(t, 2.0, testutil.ToFloat64(r.LinesTotal.WithLabelValues("chain_call")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.LinesTotal.WithLabelValues("unrecognized")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.LinesTotal.WithLabelValues("display")))
	assert.Equal(t, 2.0, testutil.ToFloat64(r.FramesTotal))
	assert.Equal(t, 3000.0, testutil.ToFloat64(r.EncodedBytesTotal))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.PendingBuffers.WithLabelValues("capture")))
	assert.Equal(t, 0.0, testutil.ToFloat64(r.PendingBuffers.WithLabelValues("decode")))
	assert.Equal(t, 1, testutil.CollectAndCount(r.FrameLatency))
	assert.Equal(t, len(event.Kinds()), testutil.CollectAndCount(r.LinesTotal))
}

func TestRecorder_ObserveHugeEncodedTotal(t *testing.T) {
	s := correlation.NewState()
	s.Aggregate.AddEncoded(math.MaxInt64)
	s.Aggregate.AddEncoded(math.MaxInt64)
	r := NewRecorder()

	assert.NotPanics(t, func() { r.Observe(s, nil) })
	assert.Equal(t, float64(math.MaxInt64), testutil.ToFloat64(r.EncodedBytesTotal))
}

func TestRecorder_WriteTextfile(t *testing.T) {
	s := testState()
	r := NewRecorder()
	r.Observe(s, s.Timelines.Frames())

	path := filepath.Join(t.TempDir(), "frametrace.prom")
	require.NoError(t, r.WriteTextfile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	text := string(data)
	assert.Contains(t, text, "frametrace_frames_total 2")
	assert.Contains(t, text, `frametrace_lines_total{kind="chain_call"} 2`)
	assert.Contains(t, text, "frametrace_frame_latency_seconds_count 2")
}

func TestRecorder_WriteTextfileError(t *testing.T) {
	r := NewRecorder()
	err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "dir", "m.prom"))
	require.Error(t, err)
}

func TestRecorder_PrivateRegistry(t *testing.T) {
	// Two recorders must not collide on registration.
	a := NewRecorder()
	b := NewRecorder()
	assert.NotSame(t, a.Registry(), b.Registry())
}
