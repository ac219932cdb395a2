package projection

import (
	"context"
	"errors"

	"github.com/orgledger/orgledger/internal/org/domain/commission"
	"github.com/orgledger/orgledger/internal/org/domain/event"
	"github.com/orgledger/orgledger/internal/org/storage"
)

func (a Applier) applyAdminCommissionCreated(ctx context.Context, evt event.Event, payload commission.Created) error {
	_, err := a.Commissions.GetAdminCommission(ctx, payload.ID)
	if err == nil {
		a.skip(evt, "admin commission already exists")
		return nil
	}
	if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	ts := ensureTimestamp(evt.Timestamp)
	return a.Commissions.PutAdminCommission(ctx, storage.AdminCommissionRecord{
		ID:                        payload.ID,
		Name:                      payload.Name,
		ResponsibleOrganizationID: payload.ResponsibleOrganizationID,
		CreatedAt:                 ts,
		UpdatedAt:                 ts,
	})
}

func (a Applier) applyAdminCommissionUpdated(ctx context.Context, evt event.Event, payload commission.Updated) error {
	current, err := a.Commissions.GetAdminCommission(ctx, payload.ID)
	if errors.Is(err, storage.ErrNotFound) {
		a.skip(evt, "admin commission not found")
		return nil
	}
	if err != nil {
		return err
	}

	current.Name = payload.Name
	current.ResponsibleOrganizationID = payload.ResponsibleOrganizationID
	current.UpdatedAt = ensureTimestamp(evt.Timestamp)
	return a.Commissions.PutAdminCommission(ctx, current)
}

func (a Applier) applyAdminCommissionDeleted(ctx context.Context, evt event.Event, payload commission.Deleted) error {
	if _, err := a.Commissions.GetAdminCommission(ctx, payload.ID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			a.skip(evt, "admin commission not found")
			return nil
		}
		return err
	}
	return a.Commissions.DeleteAdminCommission(ctx, payload.ID)
}
