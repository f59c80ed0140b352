package eventprocessor

import (
	"fmt"
	"io"

	"go.uber.org/zap"

	"github.com/mrzor/frametrace/internal/config"
	"github.com/mrzor/frametrace/internal/correlation"
	"github.com/mrzor/frametrace/internal/event"
	"github.com/mrzor/frametrace/internal/timeline"
)

// CaptureLabel is the label of the first entry of every frame.
const CaptureLabel = "FillBufferDone"

// Processor coordinates event processing.
// It routes events by kind and updates the correlation state.
type Processor struct {
	state   *correlation.State
	profile config.Profile
	echo    io.Writer
	logger  *zap.Logger
}

// NewProcessor creates a new event processor.
// Unrecognized lines are copied to echo as they arrive.
func NewProcessor(state *correlation.State, profile config.Profile, echo io.Writer, logger *zap.Logger) *Processor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Processor{
		state:   state,
		profile: profile,
		echo:    echo,
		logger:  logger,
	}
}

// State returns the correlation state being built.
func (p *Processor) State() *correlation.State {
	return p.state
}

// HandleEvent routes events by kind to specialized handlers.
func (p *Processor) HandleEvent(ev event.Event) error {
	p.state.Aggregate.CountLine(ev.Kind)

	switch ev.Kind {
	case event.KindUnrecognized:
		return p.handleUnrecognized(ev)
	case event.KindCaptureDone:
		p.state.RecordCapture(ev.BufferID, ev.Timestamp)
	case event.KindChainCall:
		p.handleChainCall(ev)
	case event.KindDisplay:
		p.handleDisplay(ev)
	case event.KindEncodeDone:
		p.state.Aggregate.AddEncoded(ev.Bytes)
	default:
		// Ignored lines only count.
	}
	return nil
}

func (p *Processor) handleUnrecognized(ev event.Event) error {
	if _, err := fmt.Fprintln(p.echo, ev.Raw); err != nil {
		return fmt.Errorf("echoing line: %w", err)
	}
	return nil
}

// handleChainCall processes a buffer push between two stages.
func (p *Processor) handleChainCall(ev event.Event) {
	c := ev.Chain
	frames := p.state.Timelines

	switch {
	case c.Stage == p.profile.Capture && c.Pad == p.profile.OutputPad:
		if captured, ok := p.state.TakeCapture(ev.BufferID); ok {
			if frames.Get(c.BufferTS) != nil {
				p.logger.Debug("restarting frame",
					zap.String("frame", c.BufferTS),
					zap.String("buffer", ev.BufferID))
			}
			frames.Restart(c.BufferTS, timeline.Entry{Timestamp: captured, Label: CaptureLabel})
		}
	case c.Stage == p.profile.Decoder && c.Pad == p.profile.OutputPad:
		p.state.RecordDecode(ev.BufferID, c.BufferTS)
	}

	frames.GetOrCreate(c.BufferTS).Append(ev.Timestamp, c.Label())
}

// handleDisplay appends a display phase to the frame that owns the decoded buffer.
func (p *Processor) handleDisplay(ev event.Event) {
	key, ok := p.state.DecodeOwner(ev.BufferID)
	if !ok {
		p.logger.Debug("display of unknown buffer",
			zap.String("buffer", ev.BufferID),
			zap.String("phase", ev.Phase))
		return
	}
	p.state.Timelines.GetOrCreate(key).Append(ev.Timestamp, ev.Phase)
}
