// Package aggregate provides the shared bookkeeping that every write-side
// aggregate embeds: the stream version observed at load time and the buffer
// of events produced but not yet persisted.
package aggregate

import "github.com/orgledger/orgledger/internal/org/domain/event"

// Root is embedded by each aggregate type. It is not safe for concurrent
// use; every repository load produces an independent instance.
type Root struct {
	version     uint64
	uncommitted []event.Event
}

// Version returns the stream version the aggregate has folded up to.
func (r *Root) Version() uint64 {
	return r.version
}

// SetVersion records the stream version after a fold or a successful append.
func (r *Root) SetVersion(version uint64) {
	r.version = version
}

// Record buffers an event produced by an intent method until the repository
// persists it.
func (r *Root) Record(evt event.Event) {
	r.uncommitted = append(r.uncommitted, evt)
}

// UncommittedEvents returns the buffered events in production order.
func (r *Root) UncommittedEvents() []event.Event {
	return append([]event.Event(nil), r.uncommitted...)
}

// ClearUncommittedEvents resets the buffer after a successful append.
func (r *Root) ClearUncommittedEvents() {
	r.uncommitted = nil
}
