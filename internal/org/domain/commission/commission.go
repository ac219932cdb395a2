// Package commission implements the write-side AdminCommission aggregate and
// its event vocabulary.
package commission

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/orgledger/orgledger/internal/platform/errors"

	"github.com/orgledger/orgledger/internal/org/domain/aggregate"
	"github.com/orgledger/orgledger/internal/org/domain/event"
)

// AdminCommission is the write-side projection of one commission stream.
type AdminCommission struct {
	aggregate.Root

	ID                        string
	Name                      string
	ResponsibleOrganizationID string
}

// New returns an empty aggregate ready to fold a stream.
func New() *AdminCommission {
	return &AdminCommission{}
}

// AggregateID returns the stream identifier.
func (c *AdminCommission) AggregateID() string {
	return c.ID
}

// Create produces the creation event. Recreating a live aggregate under a
// different identifier is an invariant violation.
func (c *AdminCommission) Create(id, name, responsibleOrganizationID string) error {
	if c.ID != "" && c.ID != id {
		return apperrors.WithMetadata(
			apperrors.CodeIDMismatch,
			fmt.Sprintf("cannot change admin commission id from %s to %s", c.ID, id),
			map[string]string{"current_id": c.ID, "requested_id": id},
		)
	}
	return c.emit(Created{ID: id, Name: name, ResponsibleOrganizationID: responsibleOrganizationID})
}

// Update produces an update event with the replacement fields.
func (c *AdminCommission) Update(name, responsibleOrganizationID string) error {
	return c.emit(Updated{ID: c.ID, Name: name, ResponsibleOrganizationID: responsibleOrganizationID})
}

// Delete produces the deletion marker event.
func (c *AdminCommission) Delete() error {
	return c.emit(Deleted{ID: c.ID})
}

// Apply folds one typed payload into aggregate state.
func (c *AdminCommission) Apply(payload Payload) {
	switch v := payload.(type) {
	case Created:
		c.ID = v.ID
		c.Name = v.Name
		c.ResponsibleOrganizationID = v.ResponsibleOrganizationID
	case Updated:
		c.Name = v.Name
		c.ResponsibleOrganizationID = v.ResponsibleOrganizationID
	}
}

// Fold applies one stored event during rehydration, skipping event types
// outside the commission vocabulary.
func (c *AdminCommission) Fold(evt event.Event) error {
	payload, ok, err := DecodePayload(evt)
	if err != nil {
		return err
	}
	if ok {
		c.Apply(payload)
	}
	c.SetVersion(evt.Version)
	return nil
}

func (c *AdminCommission) emit(payload Payload) error {
	c.Apply(payload)
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", payload.EventType(), err)
	}
	c.Record(event.Event{
		StreamID:    c.ID,
		Type:        payload.EventType(),
		Timestamp:   time.Now().UTC(),
		PayloadJSON: data,
	})
	return nil
}
