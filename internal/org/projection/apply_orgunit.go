package projection

import (
	"context"
	"errors"

	"github.com/orgledger/orgledger/internal/org/domain/event"
	"github.com/orgledger/orgledger/internal/org/domain/orgunit"
	"github.com/orgledger/orgledger/internal/org/storage"
)

func (a Applier) applyOrganizationUnitCreated(ctx context.Context, evt event.Event, payload orgunit.Created) error {
	_, err := a.Units.GetOrganizationUnit(ctx, payload.ID)
	if err == nil {
		a.skip(evt, "organization unit already exists")
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	ts := ensureTimestamp(evt.Timestamp)
	return a.Units.PutOrganizationUnit(ctx, storage.OrganizationUnitRecord{
		ID:        payload.ID,
		Name:      payload.Name,
		ParentID:  payload.ParentID,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
}

func (a Applier) applyOrganizationUnitUpdated(ctx context.Context, evt event.Event, payload orgunit.Updated) error {
	current, err := a.Units.GetOrganizationUnit(ctx, payload.ID)
	if errors.Is(err, storage.ErrNotFound) {
		a.skip(evt, "organization unit not found")
		return nil
	}
	if err != nil {
		return err
	}

	current.Name = payload.Name
	current.ParentID = payload.ParentID
	current.UpdatedAt = ensureTimestamp(evt.Timestamp)
	return a.Units.PutOrganizationUnit(ctx, current)
}

// applyOrganizationUnitDeleted removes the unit row. The store refuses the
// delete while an admin commission still names the unit responsible, which
// aborts the batch so it can retry after the commission change lands.
func (a Applier) applyOrganizationUnitDeleted(ctx context.Context, evt event.Event, payload orgunit.Deleted) error {
	if _, err := a.Units.GetOrganizationUnit(ctx, payload.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.skip(evt, "organization unit not found")
			return nil
		}
		return err
	}
	return a.Units.DeleteOrganizationUnit(ctx, payload.ID)
}
