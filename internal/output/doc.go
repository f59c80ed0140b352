// Package output renders correlated frames.
//
// TextReporter writes the human-readable per-frame latency report.
// OTELFormatter exports the same frames as OpenTelemetry spans.
//
// Both are pure formatting layers that:
//   - Receive frames already correlated and filtered
//   - Read totals from correlation.Aggregate
//
// They do NOT:
//   - Parse or classify trace lines
//   - Correlate buffers to frames
//   - Select frames
//
// Clock conversion is delegated to timesync and expression evaluation to
// attributes.
package output
