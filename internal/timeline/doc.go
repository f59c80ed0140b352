// Package timeline stores per-frame event timelines.
//
// A Timeline is the ordered list of (trace clock, label) entries recorded
// for one frame, keyed by the buffer timestamp that travels with the frame
// through the pipeline.
//
// Store keeps timelines in creation order:
//
// Queries:
//   - Get(key) - Look up a timeline
//   - Len() - Number of timelines
//   - All() - Timelines in creation order
//   - Frames() - Timelines numbered from 1 in creation order
//
// Commands:
//   - GetOrCreate(key) - Look up or append an empty timeline
//   - Restart(key, first) - Replace entries, keeping the creation position
//
// Store is used from a single goroutine and has no locking.
package timeline
