package orgunit

import (
	"testing"

	"github.com/orgledger/orgledger/internal/org/domain/event"
)

func TestFoldCreatedSetsParent(t *testing.T) {
	u := New()
	err := u.Fold(event.Event{
		Type:        EventTypeCreated,
		Version:     1,
		PayloadJSON: []byte(`{"id":"u-1","name":"Engineering","parent_id":"u-0"}`),
	})
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	if u.Name != "Engineering" {
		t.Fatalf("name = %s, want %s", u.Name, "Engineering")
	}
	if u.ParentID == nil || *u.ParentID != "u-0" {
		t.Fatalf("parent id = %v, want u-0", u.ParentID)
	}
}

func TestFoldUpdatedCanClearParent(t *testing.T) {
	u := New()
	if err := u.Fold(event.Event{
		Type:        EventTypeCreated,
		Version:     1,
		PayloadJSON: []byte(`{"id":"u-1","name":"Engineering","parent_id":"u-0"}`),
	}); err != nil {
		t.Fatalf("fold created: %v", err)
	}
	if err := u.Fold(event.Event{
		Type:        EventTypeUpdated,
		Version:     2,
		PayloadJSON: []byte(`{"id":"u-1","name":"Platform Engineering"}`),
	}); err != nil {
		t.Fatalf("fold updated: %v", err)
	}
	if u.Name != "Platform Engineering" {
		t.Fatalf("name = %s, want %s", u.Name, "Platform Engineering")
	}
	if u.ParentID != nil {
		t.Fatalf("parent id = %v, want nil", *u.ParentID)
	}
	if u.Version() != 2 {
		t.Fatalf("version = %d, want 2", u.Version())
	}
}

func TestDeleteRecordsDeletedEvent(t *testing.T) {
	u := New()
	if err := u.Create("u-1", "Engineering", nil); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := u.Delete(); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	events := u.UncommittedEvents()
	if len(events) != 2 {
		t.Fatalf("uncommitted events = %d, want 2", len(events))
	}
	if events[1].Type != EventTypeDeleted {
		t.Fatalf("event type = %s, want %s", events[1].Type, EventTypeDeleted)
	}
}
