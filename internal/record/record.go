// Package record splits raw GStreamer debug lines into header fields and message text.
package record

import "regexp"

// headerRe matches "<timestamp> <pid> <thread> <severity> <message>".
// GStreamer prints these columns with variable padding, so any whitespace run separates them.
var headerRe = regexp.MustCompile(`^([\w:.]+)\s+(\w+)\s+(\w+)\s+(\w+)\s+(.*)`)

// Record is one trace line split into its header fields and free-text message.
type Record struct {
	Timestamp string // trace clock, e.g. "0:00:01.234567890"
	PID       string
	Thread    string
	Severity  string
	Message   string // category, source location and text
}

// Parse splits a raw line into a Record.
// Returns false when the line does not have the debug log header shape.
func Parse(line string) (Record, bool) {
	m := headerRe.FindStringSubmatch(line)
	if m == nil {
		return Record{}, false
	}
	return Record{
		Timestamp: m[1],
		PID:       m[2],
		Thread:    m[3],
		Severity:  m[4],
		Message:   m[5],
	}, true
}
