package orgunit

import (
	"encoding/json"
	"fmt"

	"github.com/orgledger/orgledger/internal/org/domain/event"
)

// Organization unit lifecycle events.
const (
	// EventTypeCreated records the creation of an organization unit.
	EventTypeCreated event.Type = "orgunit.created"
	// EventTypeUpdated records updates to unit metadata.
	EventTypeUpdated event.Type = "orgunit.updated"
	// EventTypeDeleted records the deletion of an organization unit.
	EventTypeDeleted event.Type = "orgunit.deleted"
)

// Types returns the event vocabulary of the organization unit stream.
func Types() []event.Type {
	return []event.Type{EventTypeCreated, EventTypeUpdated, EventTypeDeleted}
}

// Payload is the closed set of typed organization unit event payloads.
type Payload interface {
	EventType() event.Type
	isOrgUnitPayload()
}

// Created carries the initial unit fields.
type Created struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// Updated carries replacement unit fields.
type Updated struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	ParentID *string `json:"parent_id,omitempty"`
}

// Deleted marks the unit as removed.
type Deleted struct {
	ID string `json:"id"`
}

func (Created) EventType() event.Type { return EventTypeCreated }
func (Updated) EventType() event.Type { return EventTypeUpdated }
func (Deleted) EventType() event.Type { return EventTypeDeleted }

func (Created) isOrgUnitPayload() {}
func (Updated) isOrgUnitPayload() {}
func (Deleted) isOrgUnitPayload() {}

// DecodePayload unmarshals the typed payload for a unit-stream event. The
// boolean reports whether the event type belongs to the unit vocabulary.
func DecodePayload(evt event.Event) (Payload, bool, error) {
	switch evt.Type {
	case EventTypeCreated:
		var payload Created
		return payload, true, unmarshalPayload(evt, &payload)
	case EventTypeUpdated:
		var payload Updated
		return payload, true, unmarshalPayload(evt, &payload)
	case EventTypeDeleted:
		var payload Deleted
		return payload, true, unmarshalPayload(evt, &payload)
	default:
		return nil, false, nil
	}
}

func unmarshalPayload(evt event.Event, target any) error {
	if err := json.Unmarshal(evt.PayloadJSON, target); err != nil {
		return fmt.Errorf("decode %s payload: %w", evt.Type, err)
	}
	return nil
}
