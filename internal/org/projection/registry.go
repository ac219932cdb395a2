package projection

import (
	"github.com/orgledger/orgledger/internal/org/domain/commission"
	"github.com/orgledger/orgledger/internal/org/domain/event"
	"github.com/orgledger/orgledger/internal/org/domain/orgunit"
	"github.com/orgledger/orgledger/internal/org/domain/person"
)

// NewDefaultRouter registers the full read-model vocabulary: one handler per
// event type the projection understands.
func NewDefaultRouter() *Router {
	r := NewRouter()

	HandleProjection(r, person.EventTypeCreated, Applier.applyPersonCreated)
	HandleProjection(r, person.EventTypeUpdated, Applier.applyPersonUpdated)
	HandleProjection(r, person.EventTypeDeleted, Applier.applyPersonDeleted)

	HandleProjection(r, person.EventTypeEmploymentCreated, Applier.applyEmploymentCreated)
	HandleProjection(r, person.EventTypeEmploymentUpdated, Applier.applyEmploymentUpdated)
	HandleProjection(r, person.EventTypeEmploymentDeleted, Applier.applyEmploymentDeleted)

	HandleProjection(r, orgunit.EventTypeCreated, Applier.applyOrganizationUnitCreated)
	HandleProjection(r, orgunit.EventTypeUpdated, Applier.applyOrganizationUnitUpdated)
	HandleProjection(r, orgunit.EventTypeDeleted, Applier.applyOrganizationUnitDeleted)

	HandleProjection(r, commission.EventTypeCreated, Applier.applyAdminCommissionCreated)
	HandleProjection(r, commission.EventTypeUpdated, Applier.applyAdminCommissionUpdated)
	HandleProjection(r, commission.EventTypeDeleted, Applier.applyAdminCommissionDeleted)

	return r
}

// HandledTypes returns the event types the default router projects.
func HandledTypes() []event.Type {
	return NewDefaultRouter().HandledTypes()
}
