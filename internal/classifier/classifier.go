// Package classifier turns raw trace lines into typed events.
//
// Each line is first split into its debug log header (see package record).
// The message is then tried against an ordered list of named matchers and
// the first one that matches decides the event. Element names in the
// matchers come from a config.Profile, so the same code serves any pipeline
// that emits the same trace shapes.
package classifier

import (
	"fmt"
	"regexp"
	"strconv"

	"github.com/mrzor/frametrace/internal/config"
	"github.com/mrzor/frametrace/internal/event"
	"github.com/mrzor/frametrace/internal/record"
)

// matcher recognizes one message shape.
type matcher struct {
	name  string
	re    *regexp.Regexp
	build func(ts string, m []string) event.Event
}

// Classifier holds matchers compiled for one pipeline profile.
// It keeps no state between lines and is safe for concurrent use.
type Classifier struct {
	profile  config.Profile
	matchers []matcher
}

// New compiles the matchers for profile.
func New(profile config.Profile) *Classifier {
	c := &Classifier{profile: profile}
	c.matchers = []matcher{
		{
			name: "chain_call",
			re: regexp.MustCompile(`^GST_SCHEDULING\s+gstpad.c:\w+:(\w+):<([A-Za-z0-9_]+)([0-9]+):(\w+)> ` +
				`calling chainfunction &\w+ with buffer (\w+), data (\w+), malloc ([\w()]+), ts ([\w:.]+), dur ([\w:.]+)`),
			build: c.chainCall,
		},
		{
			name: "capture_done",
			re: regexp.MustCompile(fmt.Sprintf(
				`^GST_PERFORMANCE gstomx_core.c:\w+:FillBufferDone:<%s> FillBufferDone: GstBuffer=(\w+)`,
				regexp.QuoteMeta(profile.Capture))),
			build: func(ts string, m []string) event.Event {
				return event.NewCaptureDone(ts, m[1])
			},
		},
		{
			name: "encode_done",
			re: regexp.MustCompile(fmt.Sprintf(
				`^GST_PERFORMANCE gstducatividenc.c:\w+:gst_ducati_videnc_handle_frame:<%s\w+> Encoded frame in (\d+) bytes`,
				regexp.QuoteMeta(profile.Encoder))),
			build: encodeDone,
		},
		{
			name: "display",
			re: regexp.MustCompile(fmt.Sprintf(
				`^GST_PERFORMANCE gstdri2util.c:\w+:gst_dri2window_buffer_show:<%s\w+> (Before DRI2SwapBuffersVid|After DRI2WaitSBC), buf=(\w+)`,
				regexp.QuoteMeta(profile.Display))),
			build: func(ts string, m []string) event.Event {
				return event.NewDisplay(ts, m[1], m[2])
			},
		},
	}
	return c
}

// Classify returns the event for one line.
// Lines without the debug log header are Unrecognized and carry the raw text.
// Header-shaped lines that match no matcher, or that a matcher filters out,
// are Ignored.
func (c *Classifier) Classify(line string) event.Event {
	rec, ok := record.Parse(line)
	if !ok {
		return event.Unrecognized(line)
	}

	for _, mt := range c.matchers {
		m := mt.re.FindStringSubmatch(rec.Message)
		if m == nil {
			continue
		}
		return mt.build(rec.Timestamp, m)
	}
	return event.Ignored(rec.Timestamp)
}

// Matchers lists matcher names in evaluation order.
func (c *Classifier) Matchers() []string {
	names := make([]string, len(c.matchers))
	for i, mt := range c.matchers {
		names[i] = mt.name
	}
	return names
}

func (c *Classifier) chainCall(ts string, m []string) event.Event {
	call := event.ChainCall{
		Func:     m[1],
		Stage:    m[2],
		Instance: m[3],
		Pad:      m[4],
		BufferTS: m[8],
		Duration: m[9],
	}
	if call.Func != c.profile.PushFunction || c.profile.IsNoisy(call.Stage) {
		return event.Ignored(ts)
	}
	return event.NewChainCall(ts, m[5], call)
}

func encodeDone(ts string, m []string) event.Event {
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		// Only reachable on overflow of a digit run.
		return event.Ignored(ts)
	}
	return event.NewEncodeDone(ts, n)
}
