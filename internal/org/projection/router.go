package projection

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/orgledger/orgledger/internal/org/domain/event"
)

// Router dispatches journal events to typed projection handlers. Typed
// handlers registered via HandleProjection receive auto-unmarshalled
// payloads, eliminating per-handler decode boilerplate.
type Router struct {
	handlers map[event.Type]func(a Applier, ctx context.Context, evt event.Event) error
	types    []event.Type
}

// NewRouter creates an empty Router.
func NewRouter() *Router {
	return &Router{
		handlers: make(map[event.Type]func(a Applier, ctx context.Context, evt event.Event) error),
	}
}

// Handles reports whether a handler is registered for the event type. Events
// without a handler are outside the read-model vocabulary and get skipped by
// the engine.
func (r *Router) Handles(t event.Type) bool {
	_, ok := r.handlers[t]
	return ok
}

// Route dispatches an event to its registered handler.
func (r *Router) Route(a Applier, ctx context.Context, evt event.Event) error {
	h, ok := r.handlers[evt.Type]
	if !ok {
		return fmt.Errorf("unhandled projection event type: %s", evt.Type)
	}
	return h(a, ctx, evt)
}

// HandledTypes returns all registered event types in registration order.
func (r *Router) HandledTypes() []event.Type {
	return append([]event.Type(nil), r.types...)
}

// HandleProjection registers a typed handler for the given event type. The
// handler receives a pre-unmarshalled payload plus the event envelope for
// stream and timestamp fields.
func HandleProjection[P any](r *Router, t event.Type, fn func(a Applier, ctx context.Context, evt event.Event, payload P) error) {
	r.handlers[t] = func(a Applier, ctx context.Context, evt event.Event) error {
		var payload P
		if err := json.Unmarshal(evt.PayloadJSON, &payload); err != nil {
			return fmt.Errorf("decode %s payload: %w", t, err)
		}
		return fn(a, ctx, evt, payload)
	}
	r.types = append(r.types, t)
}
