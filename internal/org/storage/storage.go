// Package storage declares the persistence boundaries of the org registry:
// the append-only event journal on the write side and the denormalized read
// stores maintained by the projection engine.
package storage

import (
	"context"
	"time"

	apperrors "github.com/orgledger/orgledger/internal/platform/errors"

	"github.com/orgledger/orgledger/internal/org/domain/event"
)

// ErrNotFound indicates a requested persistence record is missing. Callers
// use this to differentiate legitimate "no such entity" states from transport
// or data corruption failures.
var ErrNotFound = apperrors.New(apperrors.CodeNotFound, "record not found")

// ErrVersionConflict indicates a conditional append lost the race against a
// concurrent writer to the same stream. The caller should reload the
// aggregate and retry the whole command.
var ErrVersionConflict = apperrors.New(apperrors.CodeVersionConflict, "stream version conflict")

// ErrUnitReferenced indicates an organization unit cannot be removed from the
// read model while an admin commission still names it responsible.
var ErrUnitReferenced = apperrors.New(apperrors.CodeUnitReferenced, "organization unit is referenced by an admin commission")

// JournalEntry pairs an event with its global journal position. The global
// sequence orders events across streams in commit order and drives the
// projector watermark.
type JournalEntry struct {
	GlobalSeq uint64
	Event     event.Event
}

// EventStore owns the append-only event journal, the single source of truth
// for state reconstruction.
type EventStore interface {
	// AppendEvents atomically appends events to a stream, conditioned on the
	// stream currently being at expectedVersion. Versions expectedVersion+1..n
	// are assigned in order. Returns ErrVersionConflict when another writer
	// moved the stream first.
	AppendEvents(ctx context.Context, streamID string, expectedVersion uint64, events []event.Event) ([]event.Event, error)
	// ListEvents returns a stream's events ordered by version ascending, up to
	// maxVersion when it is non-zero.
	ListEvents(ctx context.Context, streamID string, maxVersion uint64) ([]event.Event, error)
	// StreamVersion returns the latest version of a stream, or 0 when the
	// stream has no events.
	StreamVersion(ctx context.Context, streamID string) (uint64, error)
	// ListEntriesAfter returns up to limit journal entries with a global
	// sequence greater than afterSeq, in commit order.
	ListEntriesAfter(ctx context.Context, afterSeq uint64, limit int) ([]JournalEntry, error)
}

// Snapshot is an auxiliary cached rendering of an aggregate's current state.
// Snapshots are never consulted during rehydration; they exist for debugging
// and cache invalidation.
type Snapshot struct {
	StreamID  string
	Version   uint64
	StateJSON []byte
	CreatedAt time.Time
}

// SnapshotStore persists per-stream state snapshots alongside the journal.
type SnapshotStore interface {
	PutSnapshot(ctx context.Context, snap Snapshot) error
	GetSnapshot(ctx context.Context, streamID string) (Snapshot, error)
	DeleteSnapshot(ctx context.Context, streamID string) error
}

// JournalStore is the composite write-side store.
type JournalStore interface {
	EventStore
	SnapshotStore
	Close() error
}

// PersonRecord is the queryable person read entity.
type PersonRecord struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrganizationUnitRecord is the queryable organization unit read entity.
type OrganizationUnitRecord struct {
	ID        string
	Name      string
	ParentID  *string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AdminCommissionRecord is the queryable admin commission read entity.
type AdminCommissionRecord struct {
	ID                        string
	Name                      string
	ResponsibleOrganizationID string
	CreatedAt                 time.Time
	UpdatedAt                 time.Time
}

// EmploymentRecord is the queryable employment read entity, keyed by
// (PersonID, OrganizationUnitID).
type EmploymentRecord struct {
	PersonID           string
	OrganizationUnitID string
	Role               string
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// PersonStore owns the person read model.
type PersonStore interface {
	PutPerson(ctx context.Context, record PersonRecord) error
	GetPerson(ctx context.Context, id string) (PersonRecord, error)
	// DeletePerson removes a person and cascades deletion of the person's
	// employments.
	DeletePerson(ctx context.Context, id string) error
	ListPersons(ctx context.Context) ([]PersonRecord, error)
}

// OrganizationUnitStore owns the organization unit read model.
type OrganizationUnitStore interface {
	PutOrganizationUnit(ctx context.Context, record OrganizationUnitRecord) error
	GetOrganizationUnit(ctx context.Context, id string) (OrganizationUnitRecord, error)
	// DeleteOrganizationUnit removes a unit, cascades deletion of dependent
	// employments, and detaches child units. Returns ErrUnitReferenced while
	// an admin commission still references the unit.
	DeleteOrganizationUnit(ctx context.Context, id string) error
	ListOrganizationUnits(ctx context.Context) ([]OrganizationUnitRecord, error)
	// ListChildUnits returns the units whose parent is the given unit.
	ListChildUnits(ctx context.Context, parentID string) ([]OrganizationUnitRecord, error)
}

// AdminCommissionStore owns the admin commission read model.
type AdminCommissionStore interface {
	PutAdminCommission(ctx context.Context, record AdminCommissionRecord) error
	GetAdminCommission(ctx context.Context, id string) (AdminCommissionRecord, error)
	DeleteAdminCommission(ctx context.Context, id string) error
	ListAdminCommissions(ctx context.Context) ([]AdminCommissionRecord, error)
	// ListCommissionsForUnit returns the commissions naming the unit
	// responsible.
	ListCommissionsForUnit(ctx context.Context, organizationUnitID string) ([]AdminCommissionRecord, error)
}

// EmploymentStore owns the employment read model.
type EmploymentStore interface {
	PutEmployment(ctx context.Context, record EmploymentRecord) error
	GetEmployment(ctx context.Context, personID, organizationUnitID string) (EmploymentRecord, error)
	DeleteEmployment(ctx context.Context, personID, organizationUnitID string) error
	ListEmployments(ctx context.Context) ([]EmploymentRecord, error)
	ListEmploymentsForPerson(ctx context.Context, personID string) ([]EmploymentRecord, error)
}

// WatermarkStore tracks how far into the journal the projector has applied.
type WatermarkStore interface {
	// GetProjectorWatermark returns the last applied global sequence, or 0
	// when the projector has not run yet.
	GetProjectorWatermark(ctx context.Context) (uint64, error)
	SaveProjectorWatermark(ctx context.Context, appliedSeq uint64) error
}

// ReadStore is the composite read-model store. WithinTx scopes a batch of
// mutations plus the watermark update to one transaction so a failed batch
// leaves the read model unchanged.
type ReadStore interface {
	PersonStore
	OrganizationUnitStore
	AdminCommissionStore
	EmploymentStore
	WatermarkStore
	WithinTx(ctx context.Context, fn func(tx ReadStore) error) error
	Close() error
}
