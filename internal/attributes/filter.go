package attributes

import (
	"errors"
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"github.com/mrzor/frametrace/internal/timeline"
)

// Filter selects frames with a boolean expression.
type Filter struct {
	program *vm.Program
	rawExpr string
}

// NewFilter compiles a filter expression. An empty expression keeps every frame.
func NewFilter(exprStr string) (*Filter, error) {
	if exprStr == "" {
		return &Filter{}, nil
	}

	program, err := expr.Compile(exprStr, expr.Env(frameEnvSchema), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("failed to compile filter expression: %w", err)
	}
	return &Filter{program: program, rawExpr: exprStr}, nil
}

// Match reports whether a frame passes the filter.
func (f *Filter) Match(frame timeline.Frame) (bool, error) {
	if f.program == nil {
		return true, nil
	}
	output, err := expr.Run(f.program, FrameEnv(frame))
	if err != nil {
		return false, fmt.Errorf("frame %d (%s): %w", frame.No, frame.Key, err)
	}
	ok, _ := output.(bool)
	return ok, nil
}

// Apply returns the frames that pass, keeping their numbers.
// Frames whose evaluation fails are left out and their errors joined.
func (f *Filter) Apply(frames []timeline.Frame) ([]timeline.Frame, error) {
	if f.program == nil {
		return frames, nil
	}

	kept := make([]timeline.Frame, 0, len(frames))
	var errs []error
	for _, frame := range frames {
		ok, err := f.Match(frame)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if ok {
			kept = append(kept, frame)
		}
	}
	return kept, errors.Join(errs...)
}

// String returns the source expression.
func (f *Filter) String() string {
	return f.rawExpr
}
