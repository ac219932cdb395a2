// Package orgunit implements the write-side OrganizationUnit aggregate and
// its event vocabulary.
package orgunit

import (
	"encoding/json"
	"fmt"
	"time"

	apperrors "github.com/orgledger/orgledger/internal/platform/errors"

	"github.com/orgledger/orgledger/internal/org/domain/aggregate"
	"github.com/orgledger/orgledger/internal/org/domain/event"
)

// OrganizationUnit is the write-side projection of one unit stream.
type OrganizationUnit struct {
	aggregate.Root

	ID       string
	Name     string
	ParentID *string
}

// New returns an empty aggregate ready to fold a stream.
func New() *OrganizationUnit {
	return &OrganizationUnit{}
}

// AggregateID returns the stream identifier.
func (u *OrganizationUnit) AggregateID() string {
	return u.ID
}

// Create produces the creation event. Recreating a live aggregate under a
// different identifier is an invariant violation.
func (u *OrganizationUnit) Create(id, name string, parentID *string) error {
	if u.ID != "" && u.ID != id {
		return apperrors.WithMetadata(
			apperrors.CodeIDMismatch,
			fmt.Sprintf("cannot change organization unit id from %s to %s", u.ID, id),
			map[string]string{"current_id": u.ID, "requested_id": id},
		)
	}
	return u.emit(Created{ID: id, Name: name, ParentID: parentID})
}

// Update produces an update event with the replacement fields.
func (u *OrganizationUnit) Update(name string, parentID *string) error {
	return u.emit(Updated{ID: u.ID, Name: name, ParentID: parentID})
}

// Delete produces the deletion marker event.
func (u *OrganizationUnit) Delete() error {
	return u.emit(Deleted{ID: u.ID})
}

// Apply folds one typed payload into aggregate state.
func (u *OrganizationUnit) Apply(payload Payload) {
	switch v := payload.(type) {
	case Created:
		u.ID = v.ID
		u.Name = v.Name
		u.ParentID = v.ParentID
	case Updated:
		u.Name = v.Name
		u.ParentID = v.ParentID
	}
}

// Fold applies one stored event during rehydration, skipping event types
// outside the unit vocabulary.
func (u *OrganizationUnit) Fold(evt event.Event) error {
	payload, ok, err := DecodePayload(evt)
	if err != nil {
		return err
	}
	if ok {
		u.Apply(payload)
	}
	u.SetVersion(evt.Version)
	return nil
}

func (u *OrganizationUnit) emit(payload Payload) error {
	u.Apply(payload)
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", payload.EventType(), err)
	}
	u.Record(event.Event{
		StreamID:    u.ID,
		Type:        payload.EventType(),
		Timestamp:   time.Now().UTC(),
		PayloadJSON: data,
	})
	return nil
}
