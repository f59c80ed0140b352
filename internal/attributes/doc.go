// Package attributes evaluates user expressions over frames and over the run.
//
// Expressions use the expr language. Frame expressions see:
//
//	key       string    frame key (buffer timestamp)
//	no        int       1-based creation-order frame number
//	total_us  int       first to last entry, microseconds
//	entries   int       number of timeline entries
//	labels    []string  entry labels in order
//	gaps_us   []int     per-entry gap to the previous entry (0 for the first)
//
// Run expressions (trace and parent IDs) see:
//
//	env     map[string]string  process environment
//	inputs  []string           input paths
//
// Four evaluators:
//   - Filter: Selects frames with a boolean expression
//   - Evaluator: Evaluates custom span attribute expressions per frame
//   - TraceIDEvaluator: Evaluates and validates trace ID expressions (32 hex chars)
//   - ParentIDEvaluator: Evaluates and validates parent span ID expressions (16 hex chars)
//
// Invalid trace IDs are automatically hashed with SHA-256 to produce valid IDs.
// Invalid parent IDs result in a null parent (zero span ID).
package attributes
