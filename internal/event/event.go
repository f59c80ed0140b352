// Package event defines the typed events produced by classifying trace lines.
package event

import "fmt"

// Kind identifies which payload of an Event is valid.
type Kind int

const (
	// KindIgnored marks a debug log line with no bearing on frame timelines.
	KindIgnored Kind = iota
	// KindUnrecognized marks a line without the debug log header; it is echoed verbatim.
	KindUnrecognized
	// KindChainCall: a stage pushed a buffer into its peer's chain function.
	KindChainCall
	// KindCaptureDone: the capture stage filled a buffer.
	KindCaptureDone
	// KindEncodeDone: the encoder produced an output frame.
	KindEncodeDone
	// KindDisplay: the display stage reached a named phase for a buffer.
	KindDisplay
)

var kindNames = [...]string{
	KindIgnored:      "ignored",
	KindUnrecognized: "unrecognized",
	KindChainCall:    "chain_call",
	KindCaptureDone:  "capture_done",
	KindEncodeDone:   "encode_done",
	KindDisplay:      "display",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("kind(%d)", int(k))
	}
	return kindNames[k]
}

// Kinds lists every kind in declaration order.
func Kinds() []Kind {
	return []Kind{KindIgnored, KindUnrecognized, KindChainCall, KindCaptureDone, KindEncodeDone, KindDisplay}
}

// Event is the tagged union of classified trace lines.
// Which fields are meaningful depends on Kind.
type Event struct {
	Kind      Kind
	Timestamp string // header clock of the line
	BufferID  string // ChainCall, CaptureDone, Display

	Chain ChainCall // ChainCall
	Bytes int64     // EncodeDone
	Phase string    // Display
	Raw   string    // Unrecognized
}

// ChainCall holds the fields of a scheduling trace for a pushed buffer.
type ChainCall struct {
	Func     string // calling function, e.g. gst_pad_push
	Stage    string // element name without its instance number
	Instance string
	Pad      string
	BufferTS string // buffer timestamp; doubles as the frame key
	Duration string
}

// Label renders the timeline label for this push, e.g. "gst_pad_push:<cam0:src>".
func (c ChainCall) Label() string {
	return fmt.Sprintf("%s:<%s%s:%s>", c.Func, c.Stage, c.Instance, c.Pad)
}

// Ignored returns an event for a header-shaped line that carries nothing of interest.
func Ignored(ts string) Event {
	return Event{Kind: KindIgnored, Timestamp: ts}
}

// Unrecognized returns a passthrough event for a non-trace line.
func Unrecognized(raw string) Event {
	return Event{Kind: KindUnrecognized, Raw: raw}
}

// NewChainCall returns a chain call event.
func NewChainCall(ts, bufferID string, c ChainCall) Event {
	return Event{Kind: KindChainCall, Timestamp: ts, BufferID: bufferID, Chain: c}
}

// NewCaptureDone returns a capture completion event.
func NewCaptureDone(ts, bufferID string) Event {
	return Event{Kind: KindCaptureDone, Timestamp: ts, BufferID: bufferID}
}

// NewEncodeDone returns an encode completion event.
func NewEncodeDone(ts string, bytes int64) Event {
	return Event{Kind: KindEncodeDone, Timestamp: ts, Bytes: bytes}
}

// NewDisplay returns a display phase event.
func NewDisplay(ts, phase, bufferID string) Event {
	return Event{Kind: KindDisplay, Timestamp: ts, Phase: phase, BufferID: bufferID}
}
