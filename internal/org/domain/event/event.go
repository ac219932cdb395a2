// Package event defines the immutable event envelope shared by the journal,
// the aggregates, and the projection layer.
package event

import (
	"strings"
	"time"
)

// Type identifies the kind of an event within its stream.
type Type string

// Event represents one immutable fact recorded for a stream.
type Event struct {
	// StreamID is the aggregate identifier the event belongs to.
	StreamID string
	// Version is the event position within the stream (starts at 1).
	// Assigned by storage on append.
	Version uint64
	// Type identifies the kind of event.
	Type Type
	// Timestamp is when the event occurred.
	Timestamp time.Time
	// PayloadJSON holds event-specific data as JSON.
	PayloadJSON []byte
}

// IsValid reports whether the event type is usable.
func (t Type) IsValid() bool {
	return strings.TrimSpace(string(t)) != ""
}

// Domain returns the domain prefix of the event type (e.g., "person",
// "orgunit").
func (t Type) Domain() string {
	for i, c := range t {
		if c == '.' {
			return string(t[:i])
		}
	}
	return string(t)
}
