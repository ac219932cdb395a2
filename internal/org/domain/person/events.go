package person

import (
	"encoding/json"
	"fmt"

	"github.com/orgledger/orgledger/internal/org/domain/event"
)

// Person lifecycle events.
const (
	// EventTypeCreated records the creation of a person.
	EventTypeCreated event.Type = "person.created"
	// EventTypeUpdated records updates to person metadata.
	EventTypeUpdated event.Type = "person.updated"
	// EventTypeDeleted records the deletion of a person.
	EventTypeDeleted event.Type = "person.deleted"
)

// Employment events. Employments live on the person stream: they describe the
// person's relationship to an organization unit.
const (
	// EventTypeEmploymentCreated records a person taking a role at a unit.
	EventTypeEmploymentCreated event.Type = "employment.created"
	// EventTypeEmploymentUpdated records a role change at a unit.
	EventTypeEmploymentUpdated event.Type = "employment.updated"
	// EventTypeEmploymentDeleted records a person leaving a unit.
	EventTypeEmploymentDeleted event.Type = "employment.deleted"
)

// Types returns the event vocabulary of the person stream.
func Types() []event.Type {
	return []event.Type{
		EventTypeCreated,
		EventTypeUpdated,
		EventTypeDeleted,
		EventTypeEmploymentCreated,
		EventTypeEmploymentUpdated,
		EventTypeEmploymentDeleted,
	}
}

// Payload is the closed set of typed person event payloads.
type Payload interface {
	EventType() event.Type
	isPersonPayload()
}

// Created carries the initial person fields.
type Created struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Updated carries replacement person fields.
type Updated struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Deleted marks the person as removed.
type Deleted struct {
	ID string `json:"id"`
}

// EmploymentCreated records a new employment relationship.
type EmploymentCreated struct {
	PersonID           string `json:"person_id"`
	OrganizationUnitID string `json:"organization_unit_id"`
	Role               string `json:"role"`
}

// EmploymentUpdated records a role change for an existing employment.
type EmploymentUpdated struct {
	PersonID           string `json:"person_id"`
	OrganizationUnitID string `json:"organization_unit_id"`
	Role               string `json:"role"`
}

// EmploymentDeleted records the end of an employment relationship.
type EmploymentDeleted struct {
	PersonID           string `json:"person_id"`
	OrganizationUnitID string `json:"organization_unit_id"`
}

func (Created) EventType() event.Type           { return EventTypeCreated }
func (Updated) EventType() event.Type           { return EventTypeUpdated }
func (Deleted) EventType() event.Type           { return EventTypeDeleted }
func (EmploymentCreated) EventType() event.Type { return EventTypeEmploymentCreated }
func (EmploymentUpdated) EventType() event.Type { return EventTypeEmploymentUpdated }
func (EmploymentDeleted) EventType() event.Type { return EventTypeEmploymentDeleted }

func (Created) isPersonPayload()           {}
func (Updated) isPersonPayload()           {}
func (Deleted) isPersonPayload()           {}
func (EmploymentCreated) isPersonPayload() {}
func (EmploymentUpdated) isPersonPayload() {}
func (EmploymentDeleted) isPersonPayload() {}

// DecodePayload unmarshals the typed payload for a person-stream event. The
// boolean reports whether the event type belongs to the person vocabulary;
// callers skip types they do not recognize.
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
	case EventTypeEmploymentCreated:
		var payload EmploymentCreated
		return payload, true, unmarshalPayload(evt, &payload)
	case EventTypeEmploymentUpdated:
		var payload EmploymentUpdated
		return payload, true, unmarshalPayload(evt, &payload)
	case EventTypeEmploymentDeleted:
		var payload EmploymentDeleted
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
