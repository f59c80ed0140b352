package correlation

import (
	"math"

	"github.com/mrzor/frametrace/internal/event"
	"github.com/mrzor/frametrace/internal/timeline"
)

// State is everything accumulated while reading a trace.
type State struct {
	capturePending map[string]string // buffer ID -> capture clock
	decodePending  map[string]string // buffer ID -> frame key
	Timelines      *timeline.Store
	Aggregate      *Aggregate
}

// NewState creates empty correlation state.
func NewState() *State {
	return &State{
		capturePending: make(map[string]string),
		decodePending:  make(map[string]string),
		Timelines:      timeline.NewStore(),
		Aggregate:      NewAggregate(),
	}
}

// RecordCapture remembers when the capture stage filled a buffer.
func (s *State) RecordCapture(bufferID, ts string) {
	s.capturePending[bufferID] = ts
}

// TakeCapture returns and forgets the capture clock of a buffer.
func (s *State) TakeCapture(bufferID string) (string, bool) {
	ts, ok := s.capturePending[bufferID]
	if ok {
		delete(s.capturePending, bufferID)
	}
	return ts, ok
}

// RecordDecode maps a decoder output buffer to its frame.
func (s *State) RecordDecode(bufferID, frameKey string) {
	s.decodePending[bufferID] = frameKey
}

// DecodeOwner returns the frame a decoder output buffer belongs to.
func (s *State) DecodeOwner(bufferID string) (string, bool) {
	key, ok := s.decodePending[bufferID]
	return key, ok
}

// PendingCaptures returns the number of captured buffers not yet pushed.
func (s *State) PendingCaptures() int {
	return len(s.capturePending)
}

// PendingDecodes returns the number of known decoder output buffers.
func (s *State) PendingDecodes() int {
	return len(s.decodePending)
}

// Aggregate holds stream-wide totals.
type Aggregate struct {
	EncodedBytes int64
	// EncodeEvents tells a zero-byte stream apart from a missing encoder.
	EncodeEvents int
	Lines        map[event.Kind]int
}

// NewAggregate creates zeroed totals.
func NewAggregate() *Aggregate {
	return &Aggregate{Lines: make(map[event.Kind]int)}
}

// AddEncoded accounts for one encoded frame. The total saturates at
// math.MaxInt64; negative sizes count as an event but add nothing.
func (a *Aggregate) AddEncoded(bytes int64) {
	a.EncodeEvents++
	switch {
	case bytes <= 0:
	case a.EncodedBytes > math.MaxInt64-bytes:
		a.EncodedBytes = math.MaxInt64
	default:
		a.EncodedBytes += bytes
	}
}

// CountLine tallies a classified line.
func (a *Aggregate) CountLine(k event.Kind) {
	a.Lines[k]++
}

// EncodedKB returns the encoded stream size in whole KiB and whether any
// encoder output was seen at all.
func (a *Aggregate) EncodedKB() (int64, bool) {
	return a.EncodedBytes / 1024, a.EncodeEvents > 0
}
