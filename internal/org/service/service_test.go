package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/domain/commission"
	"github.com/orgledger/orgledger/internal/org/domain/orgunit"
	"github.com/orgledger/orgledger/internal/org/domain/person"
	"github.com/orgledger/orgledger/internal/org/projection"
	"github.com/orgledger/orgledger/internal/org/repository"
	"github.com/orgledger/orgledger/internal/org/storage"
	"github.com/orgledger/orgledger/internal/org/storage/sqlite"
	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
)

// harness wires the full command stack against real SQLite stores. project()
// stands in for the background projector so scenarios control exactly when
// the read model catches up.
type harness struct {
	journal     *sqlite.Store
	read        *sqlite.Store
	engine      *projection.Engine
	persons     *PersonService
	units       *OrganizationUnitService
	commissions *AdminCommissionService
	events      *EventQueryService
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	dir := t.TempDir()
	journal, err := sqlite.OpenJournal(filepath.Join(dir, "journal.db"))
	if err != nil {
		t.Fatalf("open journal store: %v", err)
	}
	t.Cleanup(func() { _ = journal.Close() })
	read, err := sqlite.OpenReadModel(filepath.Join(dir, "readmodel.db"))
	if err != nil {
		t.Fatalf("open read store: %v", err)
	}
	t.Cleanup(func() { _ = read.Close() })

	logger := zap.NewNop()
	personRepo := repository.New(journal, journal, logger, person.New)
	unitRepo := repository.New(journal, journal, logger, orgunit.New)
	commissionRepo := repository.New(journal, journal, logger, commission.New)

	return &harness{
		journal:     journal,
		read:        read,
		engine:      projection.NewEngine(read, logger),
		persons:     NewPersonService(personRepo, journal, read, logger),
		units:       NewOrganizationUnitService(unitRepo, journal, read, logger),
		commissions: NewAdminCommissionService(commissionRepo, journal, read, logger),
		events:      NewEventQueryService(journal, logger),
	}
}

// project applies every journal entry past the watermark to the read model.
func (h *harness) project(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	for {
		watermark, err := h.read.GetProjectorWatermark(ctx)
		if err != nil {
			t.Fatalf("get watermark: %v", err)
		}
		entries, err := h.journal.ListEntriesAfter(ctx, watermark, 100)
		if err != nil {
			t.Fatalf("list entries: %v", err)
		}
		if len(entries) == 0 {
			return
		}
		if err := h.engine.ApplyEntries(ctx, entries); err != nil {
			t.Fatalf("apply entries: %v", err)
		}
	}
}

func wantCode(t *testing.T, err error, code apperrors.Code) {
	t.Helper()
	if !errors.Is(err, apperrors.New(code, "")) {
		t.Fatalf("err = %v, want code %s", err, code)
	}
}

func TestCreatePersonAndProject(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := uuid.NewString()

	if err := h.persons.CreatePerson(ctx, id, "Ada Lovelace"); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	h.project(t)

	record, err := h.persons.GetPerson(ctx, id)
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if record.Name != "Ada Lovelace" {
		t.Fatalf("name = %s, want %s", record.Name, "Ada Lovelace")
	}
}

func TestCreatePersonValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	wantCode(t, h.persons.CreatePerson(ctx, "", "Ada"), apperrors.CodeIDEmpty)
	wantCode(t, h.persons.CreatePerson(ctx, "not-a-uuid", "Ada"), apperrors.CodeIDInvalid)
	wantCode(t, h.persons.CreatePerson(ctx, uuid.NewString(), "  "), apperrors.CodePersonNameEmpty)
}

func TestCreatePersonTwiceConflicts(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := uuid.NewString()

	if err := h.persons.CreatePerson(ctx, id, "Ada"); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	wantCode(t, h.persons.CreatePerson(ctx, id, "Ada"), apperrors.CodeStreamExists)
}

func TestUpdateMissingPerson(t *testing.T) {
	h := newHarness(t)
	err := h.persons.UpdatePerson(context.Background(), uuid.NewString(), "Ghost")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestDeletePersonRemovesSnapshotAndReadRecord(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := uuid.NewString()

	if err := h.persons.CreatePerson(ctx, id, "Ada"); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	h.project(t)
	if err := h.persons.DeletePerson(ctx, id); err != nil {
		t.Fatalf("DeletePerson: %v", err)
	}
	h.project(t)

	if _, err := h.journal.GetSnapshot(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("snapshot err = %v, want not found", err)
	}
	if _, err := h.persons.GetPerson(ctx, id); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("read record err = %v, want not found", err)
	}
	// The stream itself survives deletion; the journal is append-only.
	events, err := h.events.FetchEvents(ctx, id, 0)
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("events = %d, want 2", len(events))
	}
}

func TestEmploymentLifecycle(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	personID := uuid.NewString()
	unitID := uuid.NewString()

	if err := h.persons.CreatePerson(ctx, personID, "Ada"); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	if err := h.units.CreateOrganizationUnit(ctx, unitID, "Engineering", nil); err != nil {
		t.Fatalf("CreateOrganizationUnit: %v", err)
	}
	h.project(t)

	if err := h.persons.AddEmployment(ctx, personID, unitID, "engineer"); err != nil {
		t.Fatalf("AddEmployment: %v", err)
	}
	h.project(t)

	// Duplicate employment is refused against the read model.
	wantCode(t, h.persons.AddEmployment(ctx, personID, unitID, "engineer"), apperrors.CodeEmploymentExists)

	if err := h.persons.UpdateEmployment(ctx, personID, unitID, "principal engineer"); err != nil {
		t.Fatalf("UpdateEmployment: %v", err)
	}
	h.project(t)

	employments, err := h.persons.ListEmployments(ctx, personID)
	if err != nil {
		t.Fatalf("ListEmployments: %v", err)
	}
	if len(employments) != 1 {
		t.Fatalf("employments = %d, want 1", len(employments))
	}
	if employments[0].Role != "principal engineer" {
		t.Fatalf("role = %s, want %s", employments[0].Role, "principal engineer")
	}

	if err := h.persons.DeleteEmployment(ctx, personID, unitID); err != nil {
		t.Fatalf("DeleteEmployment: %v", err)
	}
	h.project(t)
	wantCode(t, h.persons.UpdateEmployment(ctx, personID, unitID, "emeritus"), apperrors.CodeEmploymentMissing)
}

func TestAddEmploymentRequiresKnownUnit(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	personID := uuid.NewString()

	if err := h.persons.CreatePerson(ctx, personID, "Ada"); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	h.project(t)

	wantCode(t, h.persons.AddEmployment(ctx, personID, uuid.NewString(), "engineer"), apperrors.CodeNotFound)
}

func TestCreateOrganizationUnitParentChecks(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	unitID := uuid.NewString()

	missingParent := uuid.NewString()
	wantCode(t, h.units.CreateOrganizationUnit(ctx, unitID, "Engineering", &missingParent), apperrors.CodeUnitParentMissing)
	wantCode(t, h.units.CreateOrganizationUnit(ctx, unitID, "Engineering", &unitID), apperrors.CodeIDInvalid)

	if err := h.units.CreateOrganizationUnit(ctx, unitID, "Engineering", nil); err != nil {
		t.Fatalf("CreateOrganizationUnit: %v", err)
	}
	h.project(t)

	childID := uuid.NewString()
	if err := h.units.CreateOrganizationUnit(ctx, childID, "Platform", &unitID); err != nil {
		t.Fatalf("create child unit: %v", err)
	}
	h.project(t)

	children, err := h.units.ListChildUnits(ctx, unitID)
	if err != nil {
		t.Fatalf("ListChildUnits: %v", err)
	}
	if len(children) != 1 {
		t.Fatalf("children = %d, want 1", len(children))
	}
	if children[0].ID != childID {
		t.Fatalf("child id = %s, want %s", children[0].ID, childID)
	}
}

func TestDeleteOrganizationUnitRefusedWhileCommissionReferences(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	unitID := uuid.NewString()
	commissionID := uuid.NewString()

	if err := h.units.CreateOrganizationUnit(ctx, unitID, "Engineering", nil); err != nil {
		t.Fatalf("CreateOrganizationUnit: %v", err)
	}
	h.project(t)
	if err := h.commissions.CreateAdminCommission(ctx, commissionID, "Budget Review", unitID); err != nil {
		t.Fatalf("CreateAdminCommission: %v", err)
	}
	h.project(t)

	wantCode(t, h.units.DeleteOrganizationUnit(ctx, unitID), apperrors.CodeUnitReferenced)

	if err := h.commissions.DeleteAdminCommission(ctx, commissionID); err != nil {
		t.Fatalf("DeleteAdminCommission: %v", err)
	}
	h.project(t)
	if err := h.units.DeleteOrganizationUnit(ctx, unitID); err != nil {
		t.Fatalf("DeleteOrganizationUnit after commission removed: %v", err)
	}
}

func TestCreateAdminCommissionValidation(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	wantCode(t, h.commissions.CreateAdminCommission(ctx, uuid.NewString(), "Budget", ""), apperrors.CodeCommissionUnitEmpty)
	wantCode(t, h.commissions.CreateAdminCommission(ctx, uuid.NewString(), "Budget", uuid.NewString()), apperrors.CodeCommissionUnitMissing)
	wantCode(t, h.commissions.CreateAdminCommission(ctx, uuid.NewString(), "", uuid.NewString()), apperrors.CodeCommissionNameEmpty)
}

func TestFetchEventsWithVersionCeiling(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := uuid.NewString()

	if err := h.persons.CreatePerson(ctx, id, "Ada"); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}
	if err := h.persons.UpdatePerson(ctx, id, "Ada Lovelace"); err != nil {
		t.Fatalf("UpdatePerson: %v", err)
	}

	all, err := h.events.FetchEvents(ctx, id, 0)
	if err != nil {
		t.Fatalf("FetchEvents: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("events = %d, want 2", len(all))
	}

	capped, err := h.events.FetchEvents(ctx, id, 1)
	if err != nil {
		t.Fatalf("FetchEvents capped: %v", err)
	}
	if len(capped) != 1 {
		t.Fatalf("capped events = %d, want 1", len(capped))
	}
	if capped[0].Type != person.EventTypeCreated {
		t.Fatalf("event type = %s, want %s", capped[0].Type, person.EventTypeCreated)
	}

	if _, err := h.events.FetchEvents(ctx, uuid.NewString(), 0); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestConcurrentWritersConflictOnSameStream(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	id := uuid.NewString()

	if err := h.persons.CreatePerson(ctx, id, "Ada"); err != nil {
		t.Fatalf("CreatePerson: %v", err)
	}

	// Two loads race: the second save must observe the conflict, reload, and
	// succeed on retry.
	logger := zap.NewNop()
	repo := repository.New[*person.Person](h.journal, h.journal, logger, person.New)
	first, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("load first: %v", err)
	}
	second, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("load second: %v", err)
	}
	if err := first.Update("Ada Lovelace"); err != nil {
		t.Fatalf("first Update: %v", err)
	}
	if err := repo.Save(ctx, first); err != nil {
		t.Fatalf("save first: %v", err)
	}
	if err := second.Update("Ada King"); err != nil {
		t.Fatalf("second Update: %v", err)
	}
	if err := repo.Save(ctx, second); !errors.Is(err, storage.ErrVersionConflict) {
		t.Fatalf("err = %v, want version conflict", err)
	}

	reloaded, err := repo.GetByID(ctx, id)
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if err := reloaded.Update("Ada King"); err != nil {
		t.Fatalf("reloaded Update: %v", err)
	}
	if err := repo.Save(ctx, reloaded); err != nil {
		t.Fatalf("retry save: %v", err)
	}
}
