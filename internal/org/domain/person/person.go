// Package person implements the write-side Person aggregate and its event
// vocabulary.
package person

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/orgledger/orgledger/internal/platform/errors"

	"github.com/orgledger/orgledger/internal/org/domain/aggregate"
	"github.com/orgledger/orgledger/internal/org/domain/event"
)

// Person is the write-side projection of one person stream. It holds only
// the fields needed to validate future commands; the employment set is
// deliberately not tracked here and is checked against the read store by the
// service layer.
type Person struct {
	aggregate.Root

	ID   string
	Name string
}

// New returns an empty aggregate ready to fold a stream.
func New() *Person {
	return &Person{}
}

// AggregateID returns the stream identifier.
func (p *Person) AggregateID() string {
	return p.ID
}

// Create produces the creation event. Recreating a live aggregate under a
// different identifier is an invariant violation.
func (p *Person) Create(id, name string) error {
	if p.ID != "" && p.ID != id {
		return apperrors.WithMetadata(
			apperrors.CodeIDMismatch,
			fmt.Sprintf("cannot change person id from %s to %s", p.ID, id),
			map[string]string{"current_id": p.ID, "requested_id": id},
		)
	}
	return p.emit(Created{ID: id, Name: name})
}

// Update produces an update event with the replacement name. Setting an
// identical name is legal and simply re-asserts state.
func (p *Person) Update(name string) error {
	return p.emit(Updated{ID: p.ID, Name: name})
}

// Delete produces the deletion marker event.
func (p *Person) Delete() error {
	return p.emit(Deleted{ID: p.ID})
}

// AddEmployment records the person taking a role at an organization unit.
func (p *Person) AddEmployment(organizationUnitID, role string) error {
	return p.emit(EmploymentCreated{
		PersonID:           p.ID,
		OrganizationUnitID: organizationUnitID,
		Role:               role,
	})
}

// UpdateEmployment records a role change at an organization unit.
func (p *Person) UpdateEmployment(organizationUnitID, role string) error {
	return p.emit(EmploymentUpdated{
		PersonID:           p.ID,
		OrganizationUnitID: organizationUnitID,
		Role:               role,
	})
}

// DeleteEmployment records the end of the employment at an organization unit.
func (p *Person) DeleteEmployment(organizationUnitID string) error {
	return p.emit(EmploymentDeleted{
		PersonID:           p.ID,
		OrganizationUnitID: organizationUnitID,
	})
}

// Apply folds one typed payload into aggregate state. Only the fields the
// payload carries are mutated; deletion and employment events leave the
// minimal aggregate shape untouched.
func (p *Person) Apply(payload Payload) {
	switch v := payload.(type) {
	case Created:
		p.ID = v.ID
		p.Name = v.Name
	case Updated:
		p.Name = v.Name
	}
}

// Fold applies one stored event during rehydration. Event types outside the
// person vocabulary are skipped so the journal can grow new types without
// breaking replay; the stream version always advances.
func (p *Person) Fold(evt event.Event) error {
	payload, ok, err := DecodePayload(evt)
	if err != nil {
		return err
	}
	if ok {
		p.Apply(payload)
	}
	p.SetVersion(evt.Version)
	return nil
}

func (p *Person) emit(payload Payload) error {
	p.Apply(payload)
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", payload.EventType(), err)
	}
	p.Record(event.Event{
		StreamID:    p.ID,
		Type:        payload.EventType(),
		Timestamp:   time.Now().UTC(),
		PayloadJSON: data,
	})
	return nil
}
