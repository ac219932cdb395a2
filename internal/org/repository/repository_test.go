package repository

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/domain/person"
	"github.com/orgledger/orgledger/internal/org/storage"
	"github.com/orgledger/orgledger/internal/org/storage/sqlite"
	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
)

func newPersonRepository(t *testing.T) (*Repository[*person.Person], *sqlite.Store) {
	t.Helper()
	store, err := sqlite.OpenJournal(filepath.Join(t.TempDir(), "journal.db"))
	if err != nil {
		t.Fatalf("open journal store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return New(store, store, zap.NewNop(), person.New), store
}

func TestGetByIDMissingStream(t *testing.T) {
	repo, _ := newPersonRepository(t)
	_, err := repo.GetByID(context.Background(), "a1b2c3d4-0000-0000-0000-000000000001")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestGetByIDEmptyID(t *testing.T) {
	repo, _ := newPersonRepository(t)
	_, err := repo.GetByID(context.Background(), "  ")
	if !errors.Is(err, apperrors.New(apperrors.CodeIDEmpty, "")) {
		t.Fatalf("err = %v, want id empty", err)
	}
}

func TestSaveAndReload(t *testing.T) {
	repo, _ := newPersonRepository(t)
	ctx := context.Background()

	p := person.New()
	if err := p.Create("a1b2c3d4-0000-0000-0000-000000000001", "Ada"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if got := len(p.UncommittedEvents()); got != 0 {
		t.Fatalf("uncommitted events after save = %d, want 0", got)
	}
	if p.Version() != 1 {
		t.Fatalf("version after save = %d, want 1", p.Version())
	}

	loaded, err := repo.GetByID(ctx, "a1b2c3d4-0000-0000-0000-000000000001")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.Name != "Ada" {
		t.Fatalf("name = %s, want %s", loaded.Name, "Ada")
	}
	if loaded.Version() != 1 {
		t.Fatalf("loaded version = %d, want 1", loaded.Version())
	}
}

func TestSaveEmptyBufferIsNoOp(t *testing.T) {
	repo, store := newPersonRepository(t)
	ctx := context.Background()

	p := person.New()
	if err := p.Create("a1b2c3d4-0000-0000-0000-000000000001", "Ada"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("second Save with empty buffer: %v", err)
	}

	version, err := store.StreamVersion(ctx, "a1b2c3d4-0000-0000-0000-000000000001")
	if err != nil {
		t.Fatalf("StreamVersion: %v", err)
	}
	if version != 1 {
		t.Fatalf("stream version = %d, want 1", version)
	}
}

func TestSaveStaleAggregateConflicts(t *testing.T) {
	repo, _ := newPersonRepository(t)
	ctx := context.Background()

	p := person.New()
	if err := p.Create("a1b2c3d4-0000-0000-0000-000000000001", "Ada"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	first, err := repo.GetByID(ctx, "a1b2c3d4-0000-0000-0000-000000000001")
	if err != nil {
		t.Fatalf("load first: %v", err)
	}
	second, err := repo.GetByID(ctx, "a1b2c3d4-0000-0000-0000-000000000001")
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
}

func TestSaveWritesSnapshot(t *testing.T) {
	repo, store := newPersonRepository(t)
	ctx := context.Background()

	p := person.New()
	if err := p.Create("a1b2c3d4-0000-0000-0000-000000000001", "Ada"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	snap, err := store.GetSnapshot(ctx, "a1b2c3d4-0000-0000-0000-000000000001")
	if err != nil {
		t.Fatalf("GetSnapshot: %v", err)
	}
	if snap.Version != 1 {
		t.Fatalf("snapshot version = %d, want 1", snap.Version)
	}

	if err := repo.DeleteSnapshot(ctx, "a1b2c3d4-0000-0000-0000-000000000001"); err != nil {
		t.Fatalf("DeleteSnapshot: %v", err)
	}
	if _, err := store.GetSnapshot(ctx, "a1b2c3d4-0000-0000-0000-000000000001"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("err = %v, want not found", err)
	}
}

func TestSnapshotNeverUsedForRehydration(t *testing.T) {
	repo, store := newPersonRepository(t)
	ctx := context.Background()

	p := person.New()
	if err := p.Create("a1b2c3d4-0000-0000-0000-000000000001", "Ada"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := repo.Save(ctx, p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	// A poisoned snapshot must not leak into loads; only the journal counts.
	if err := store.PutSnapshot(ctx, storage.Snapshot{
		StreamID:  "a1b2c3d4-0000-0000-0000-000000000001",
		Version:   99,
		StateJSON: []byte(`{"ID":"bogus","Name":"Bogus"}`),
	}); err != nil {
		t.Fatalf("PutSnapshot: %v", err)
	}

	loaded, err := repo.GetByID(ctx, "a1b2c3d4-0000-0000-0000-000000000001")
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if loaded.Name != "Ada" {
		t.Fatalf("name = %s, want %s", loaded.Name, "Ada")
	}
	if loaded.Version() != 1 {
		t.Fatalf("version = %d, want 1", loaded.Version())
	}
}
