package projection

import (
	"context"
	"errors"

	"github.com/orgledger/orgledger/internal/org/domain/event"
	"github.com/orgledger/orgledger/internal/org/domain/person"
	"github.com/orgledger/orgledger/internal/org/storage"
)

func (a Applier) applyPersonCreated(ctx context.Context, evt event.Event, payload person.Created) error {
	_, err := a.Persons.GetPerson(ctx, payload.ID)
	if err == nil {
		a.skip(evt, "person already exists")
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	ts := ensureTimestamp(evt.Timestamp)
	return a.Persons.PutPerson(ctx, storage.PersonRecord{
		ID:        payload.ID,
		Name:      payload.Name,
		CreatedAt: ts,
		UpdatedAt: ts,
	})
}

func (a Applier) applyPersonUpdated(ctx context.Context, evt event.Event, payload person.Updated) error {
	current, err := a.Persons.GetPerson(ctx, payload.ID)
	if errors.Is(err, storage.ErrNotFound) {
		a.skip(evt, "person not found")
		return nil
	}
	if err != nil {
		return err
	}

	current.Name = payload.Name
	current.UpdatedAt = ensureTimestamp(evt.Timestamp)
	return a.Persons.PutPerson(ctx, current)
}

func (a Applier) applyPersonDeleted(ctx context.Context, evt event.Event, payload person.Deleted) error {
	if _, err := a.Persons.GetPerson(ctx, payload.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.skip(evt, "person not found")
			return nil
		}
		return err
	}
	return a.Persons.DeletePerson(ctx, payload.ID)
}
