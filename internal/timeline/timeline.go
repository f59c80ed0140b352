package timeline

import (
	"time"

	"github.com/mrzor/frametrace/internal/timesync"
)

// Entry is one point on a frame's timeline.
type Entry struct {
	Timestamp string // trace clock as printed in the log
	Label     string // e.g. "FillBufferDone" or "gst_pad_push:<cam0:src>"
}

// Offset is the entry's trace clock. Unparseable clocks read as zero.
func (e Entry) Offset() time.Duration {
	d, err := timesync.ParseClock(e.Timestamp)
	if err != nil {
		return 0
	}
	return d
}

// Timeline is the ordered entries recorded for one frame.
type Timeline struct {
	Key     string
	Entries []Entry
}

// Append adds an entry at the end.
func (t *Timeline) Append(ts, label string) {
	t.Entries = append(t.Entries, Entry{Timestamp: ts, Label: label})
}

// Step is an entry with its position relative to its predecessor.
type Step struct {
	Entry
	Offset time.Duration
	// Gap is the time since the previous entry; zero for the first one.
	Gap   time.Duration
	First bool
}

// Steps returns the entries with offsets and gaps resolved.
func (t *Timeline) Steps() []Step {
	steps := make([]Step, len(t.Entries))
	var prev time.Duration
	for i, e := range t.Entries {
		off := e.Offset()
		steps[i] = Step{Entry: e, Offset: off, First: i == 0}
		if i > 0 {
			steps[i].Gap = off - prev
		}
		prev = off
	}
	return steps
}

// Total is the time between the first and last entries.
func (t *Timeline) Total() time.Duration {
	if len(t.Entries) == 0 {
		return 0
	}
	return t.Entries[len(t.Entries)-1].Offset() - t.Entries[0].Offset()
}

// Labels returns entry labels in order.
func (t *Timeline) Labels() []string {
	labels := make([]string, len(t.Entries))
	for i, e := range t.Entries {
		labels[i] = e.Label
	}
	return labels
}

// Frame is a timeline with its 1-based creation-order number.
type Frame struct {
	No int
	*Timeline
}
