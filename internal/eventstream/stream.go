// Package eventstream reads trace lines and dispatches their events in order.
package eventstream

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/mrzor/frametrace/internal/event"
)

// MaxLineSize bounds a single trace line. GStreamer caps dumps can run long.
const MaxLineSize = 1 << 20

// Classifier turns one line into an event.
type Classifier interface {
	Classify(line string) event.Event
}

// EventHandler consumes events in input order.
type EventHandler interface {
	HandleEvent(ev event.Event) error
}

// Stream classifies lines from readers and dispatches them to a handler.
type Stream struct {
	classifier Classifier
	handler    EventHandler
	lines      int
}

// New creates a new Stream with the given classifier and event handler.
func New(classifier Classifier, handler EventHandler) *Stream {
	return &Stream{
		classifier: classifier,
		handler:    handler,
	}
}

// Run reads r to the end, one event per line.
// It stops early when ctx is cancelled or the handler fails.
// Several readers may be run in turn; they form one continuous trace.
func (s *Stream) Run(ctx context.Context, r io.Reader) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		s.lines++
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if err := s.handler.HandleEvent(s.classifier.Classify(line)); err != nil {
			return fmt.Errorf("line %d: %w", s.lines, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return fmt.Errorf("reading line %d: %w", s.lines+1, err)
	}
	return nil
}

// Lines returns the number of lines read so far.
func (s *Stream) Lines() int {
	return s.lines
}
