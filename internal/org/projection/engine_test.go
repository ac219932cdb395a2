package projection

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/domain/event"
	"github.com/orgledger/orgledger/internal/org/domain/person"
	"github.com/orgledger/orgledger/internal/org/storage"
	"github.com/orgledger/orgledger/internal/org/storage/sqlite"
	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
)

func newEngine(t *testing.T) (*Engine, *sqlite.Store) {
	t.Helper()
	store, err := sqlite.OpenReadModel(filepath.Join(t.TempDir(), "readmodel.db"))
	if err != nil {
		t.Fatalf("open read store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return NewEngine(store, zap.NewNop()), store
}

func entry(seq uint64, streamID string, version uint64, eventType event.Type, payload string) storage.JournalEntry {
	return storage.JournalEntry{
		GlobalSeq: seq,
		Event: event.Event{
			StreamID:    streamID,
			Version:     version,
			Type:        eventType,
			PayloadJSON: []byte(payload),
		},
	}
}

func TestApplyEntriesCreatesPersonAndAdvancesWatermark(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	err := engine.ApplyEntries(ctx, []storage.JournalEntry{
		entry(1, "p-1", 1, person.EventTypeCreated, `{"id":"p-1","name":"Ada"}`),
	})
	if err != nil {
		t.Fatalf("ApplyEntries: %v", err)
	}

	record, err := store.GetPerson(ctx, "p-1")
	if err != nil {
		t.Fatalf("GetPerson: %v", err)
	}
	if record.Name != "Ada" {
		t.Fatalf("name = %s, want %s", record.Name, "Ada")
	}
	watermark, err := store.GetProjectorWatermark(ctx)
	if err != nil {
		t.Fatalf("GetProjectorWatermark: %v", err)
	}
	if watermark != 1 {
		t.Fatalf("watermark = %d, want 1", watermark)
	}
}

func TestApplyEntriesIsIdempotentUnderRedelivery(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	entries := []storage.JournalEntry{
		entry(1, "p-1", 1, person.EventTypeCreated, `{"id":"p-1","name":"Ada"}`),
		entry(2, "p-1", 2, person.EventTypeUpdated, `{"id":"p-1","name":"Ada Lovelace"}`),
	}
	if err := engine.ApplyEntries(ctx, entries); err != nil {
		t.Fatalf("first apply: %v", err)
	}
	// Redelivering the same batch must not fail or duplicate anything.
	if err := engine.ApplyEntries(ctx, entries); err != nil {
		t.Fatalf("redelivered apply: %v", err)
	}

	records, err := store.ListPersons(ctx)
	if err != nil {
		t.Fatalf("ListPersons: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("persons = %d, want 1", len(records))
	}
	if records[0].Name != "Ada Lovelace" {
		t.Fatalf("name = %s, want %s", records[0].Name, "Ada Lovelace")
	}
}

func TestApplyEntriesSkipsUpdateForMissingEntity(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	err := engine.ApplyEntries(ctx, []storage.JournalEntry{
		entry(1, "p-9", 1, person.EventTypeUpdated, `{"id":"p-9","name":"Ghost"}`),
		entry(2, "p-9", 2, person.EventTypeDeleted, `{"id":"p-9"}`),
	})
	if err != nil {
		t.Fatalf("ApplyEntries: %v", err)
	}

	watermark, err := store.GetProjectorWatermark(ctx)
	if err != nil {
		t.Fatalf("GetProjectorWatermark: %v", err)
	}
	if watermark != 2 {
		t.Fatalf("watermark = %d, want 2", watermark)
	}
}

func TestApplyEntriesSkipsUnknownEventTypes(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	err := engine.ApplyEntries(ctx, []storage.JournalEntry{
		entry(1, "p-1", 1, person.EventTypeCreated, `{"id":"p-1","name":"Ada"}`),
		entry(2, "p-1", 2, event.Type("person.promoted"), `{"level":3}`),
	})
	if err != nil {
		t.Fatalf("ApplyEntries: %v", err)
	}

	watermark, err := store.GetProjectorWatermark(ctx)
	if err != nil {
		t.Fatalf("GetProjectorWatermark: %v", err)
	}
	if watermark != 2 {
		t.Fatalf("watermark = %d, want 2", watermark)
	}
}

func TestApplyEntriesRollsBackWholeBatchOnFailure(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	err := engine.ApplyEntries(ctx, []storage.JournalEntry{
		entry(1, "p-1", 1, person.EventTypeCreated, `{"id":"p-1","name":"Ada"}`),
		entry(2, "p-2", 1, person.EventTypeCreated, `not json`),
	})
	if !errors.Is(err, apperrors.New(apperrors.CodeProjectionFailure, "")) {
		t.Fatalf("err = %v, want projection failure", err)
	}

	if _, err := store.GetPerson(ctx, "p-1"); !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("GetPerson err = %v, want not found after rollback", err)
	}
	watermark, err := store.GetProjectorWatermark(ctx)
	if err != nil {
		t.Fatalf("GetProjectorWatermark: %v", err)
	}
	if watermark != 0 {
		t.Fatalf("watermark = %d, want 0 after rollback", watermark)
	}
}

func TestApplyEntriesEmptyBatchIsNoOp(t *testing.T) {
	engine, store := newEngine(t)
	ctx := context.Background()

	if err := engine.ApplyEntries(ctx, nil); err != nil {
		t.Fatalf("ApplyEntries: %v", err)
	}
	watermark, err := store.GetProjectorWatermark(ctx)
	if err != nil {
		t.Fatalf("GetProjectorWatermark: %v", err)
	}
	if watermark != 0 {
		t.Fatalf("watermark = %d, want 0", watermark)
	}
}
