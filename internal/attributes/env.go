package attributes

import (
	"os"
	"strings"

	"github.com/mrzor/frametrace/internal/timeline"
)

// frameEnvSchema types frame expressions at compile time.
var frameEnvSchema = map[string]interface{}{
	"key":      "",
	"no":       0,
	"total_us": 0,
	"entries":  0,
	"labels":   []string{},
	"gaps_us":  []int{},
}

// runEnvSchema types run expressions at compile time.
var runEnvSchema = map[string]interface{}{
	"env":    map[string]string{},
	"inputs": []string{},
}

// FrameEnv builds the expression environment of a frame.
func FrameEnv(f timeline.Frame) map[string]interface{} {
	steps := f.Steps()
	gaps := make([]int, len(steps))
	for i, s := range steps {
		gaps[i] = int(s.Gap.Microseconds())
	}
	return map[string]interface{}{
		"key":      f.Key,
		"no":       f.No,
		"total_us": int(f.Total().Microseconds()),
		"entries":  len(f.Entries),
		"labels":   f.Labels(),
		"gaps_us":  gaps,
	}
}

// RunInfo describes the current invocation for trace and parent ID expressions.
type RunInfo struct {
	Environ map[string]string
	Inputs  []string
}

// CurrentRun captures the process environment and the given input paths.
func CurrentRun(inputs []string) RunInfo {
	environ := make(map[string]string)
	for _, kv := range os.Environ() {
		if k, v, ok := strings.Cut(kv, "="); ok {
			environ[k] = v
		}
	}
	return RunInfo{Environ: environ, Inputs: inputs}
}

func (r RunInfo) env() map[string]interface{} {
	environ := r.Environ
	if environ == nil {
		environ = map[string]string{}
	}
	inputs := r.Inputs
	if inputs == nil {
		inputs = []string{}
	}
	return map[string]interface{}{
		"env":    environ,
		"inputs": inputs,
	}
}
