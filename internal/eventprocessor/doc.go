// Package eventprocessor correlates classified trace events into frame timelines.
//
// Architecture:
//
//	┌─────────────────────────────────────────┐
//	│   trace lines (files or stdin)          │
//	└─────────────────┬───────────────────────┘
//	                  │  classifier
//	                  ▼
//	┌─────────────────────────────────────────┐
//	│   eventprocessor                        │  ← Event routing
//	│   - Routes by event kind                │
//	│   - Mutates correlation.State           │
//	└─────────┬───────────────────────────────┘
//	          │
//	          ├──→ CaptureDone ───→ capture pending[buffer]
//	          │
//	          ├──→ ChainCall ─────→ timeline.Store
//	          │                      - capture output starts a frame
//	          │                      - decoder output maps buffer to frame
//	          │                      - every push appends an entry
//	          │
//	          ├──→ Display ───────→ frame of decode pending[buffer]
//	          │
//	          ├──→ EncodeDone ────→ Aggregate
//	          │
//	          └──→ Unrecognized ──→ echo writer
//
// Events must be handled in input order. Malformed or unmatched data never
// fails; only writes to the echo writer can return an error.
package eventprocessor
