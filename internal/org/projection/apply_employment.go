package projection

import (
	"context"
	"errors"

	"github.com/orgledger/orgledger/internal/org/domain/event"
	"github.com/orgledger/orgledger/internal/org/domain/person"
	"github.com/orgledger/orgledger/internal/org/storage"
)

func (a Applier) applyEmploymentCreated(ctx context.Context, evt event.Event, payload person.EmploymentCreated) error {
	_, err := a.Employments.GetEmployment(ctx, payload.PersonID, payload.OrganizationUnitID)
	if err == nil {
		a.skip(evt, "employment already exists")
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	ts := ensureTimestamp(evt.Timestamp)
	return a.Employments.PutEmployment(ctx, storage.EmploymentRecord{
		PersonID:           payload.PersonID,
		OrganizationUnitID: payload.OrganizationUnitID,
		Role:               payload.Role,
		CreatedAt:          ts,
		UpdatedAt:          ts,
	})
}

func (a Applier) applyEmploymentUpdated(ctx context.Context, evt event.Event, payload person.EmploymentUpdated) error {
	current, err := a.Employments.GetEmployment(ctx, payload.PersonID, payload.OrganizationUnitID)
	if errors.Is(err, storage.ErrNotFound) {
		a.skip(evt, "employment not found")
		return nil
	}
	if err != nil {
		return err
	}

	current.Role = payload.Role
	current.UpdatedAt = ensureTimestamp(evt.Timestamp)
	return a.Employments.PutEmployment(ctx, current)
}

func (a Applier) applyEmploymentDeleted(ctx context.Context, evt event.Event, payload person.EmploymentDeleted) error {
	if _, err := a.Employments.GetEmployment(ctx, payload.PersonID, payload.OrganizationUnitID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.skip(evt, "employment not found")
			return nil
		}
		return err
	}
	return a.Employments.DeleteEmployment(ctx, payload.PersonID, payload.OrganizationUnitID)
}
