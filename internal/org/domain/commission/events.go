package commission

import (
	"encoding/json"
	"fmt"

	"github.com/orgledger/orgledger/internal/org/domain/event"
)

// Admin commission lifecycle events.
const (
	// EventTypeCreated records the creation of an admin commission.
	EventTypeCreated event.Type = "commission.created"
	// EventTypeUpdated records updates to commission metadata.
	EventTypeUpdated event.Type = "commission.updated"
	// EventTypeDeleted records the deletion of an admin commission.
	EventTypeDeleted event.Type = "commission.deleted"
)

// Types returns the event vocabulary of the commission stream.
func Types() []event.Type {
	return []event.Type{EventTypeCreated, EventTypeUpdated, EventTypeDeleted}
}

// Payload is the closed set of typed commission event payloads.
type Payload interface {
	EventType() event.Type
	isCommissionPayload()
}

// Created carries the initial commission fields.
type Created struct {
	ID                        string `json:"id"`
	Name                      string `json:"name"`
	ResponsibleOrganizationID string `json:"responsible_organization_id"`
}

// Updated carries replacement commission fields.
type Updated struct {
	ID                        string `json:"id"`
	Name                      string `json:"name"`
	ResponsibleOrganizationID string `json:"responsible_organization_id"`
}

// Deleted marks the commission as removed.
type Deleted struct {
	ID string `json:"id"`
}

func (Created) EventType() event.Type { return EventTypeCreated }
func (Updated) EventType() event.Type { return EventTypeUpdated }
func (Deleted) EventType() event.Type { return EventTypeDeleted }

func (Created) isCommissionPayload() {}
func (Updated) isCommissionPayload() {}
func (Deleted) isCommissionPayload() {}

// DecodePayload unmarshals the typed payload for a commission-stream event.
// The boolean reports whether the event type belongs to the commission
// vocabulary.
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
