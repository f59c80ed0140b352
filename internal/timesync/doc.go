// Package timesync converts GStreamer trace clock values to durations and wall-clock time.
//
// GStreamer debug lines carry the pipeline running time as "H:MM:SS.fffffffff"
// (nanosecond fraction, unpadded hours). Latency arithmetic works on microseconds,
// so parsed values are truncated to microsecond precision.
//
// The trace carries no calendar date. Converter anchors clock offsets to a fixed
// wall-clock origin so the timelines can be exported as spans.
package timesync
