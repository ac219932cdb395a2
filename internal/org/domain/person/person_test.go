package person

import (
	"testing"

	"github.com/orgledger/orgledger/internal/org/domain/event"
)

func TestCreateRecordsCreatedEvent(t *testing.T) {
	p := New()
	if err := p.Create("a1b2c3d4-0000-0000-0000-000000000001", "Ada Lovelace"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if p.ID != "a1b2c3d4-0000-0000-0000-000000000001" {
		t.Fatalf("id = %s, want %s", p.ID, "a1b2c3d4-0000-0000-0000-000000000001")
	}
	if p.Name != "Ada Lovelace" {
		t.Fatalf("name = %s, want %s", p.Name, "Ada Lovelace")
	}
	events := p.UncommittedEvents()
	if len(events) != 1 {
		t.Fatalf("uncommitted events = %d, want 1", len(events))
	}
	if events[0].Type != EventTypeCreated {
		t.Fatalf("event type = %s, want %s", events[0].Type, EventTypeCreated)
	}
}

func TestCreateSameIDTwiceIsAllowed(t *testing.T) {
	p := New()
	if err := p.Create("a1b2c3d4-0000-0000-0000-000000000001", "Ada"); err != nil {
		t.Fatalf("first Create: %v", err)
	}
	if err := p.Create("a1b2c3d4-0000-0000-0000-000000000001", "Ada Lovelace"); err != nil {
		t.Fatalf("second Create with same id: %v", err)
	}
	if got := len(p.UncommittedEvents()); got != 2 {
		t.Fatalf("uncommitted events = %d, want 2", got)
	}
}

func TestCreateDifferentIDFails(t *testing.T) {
	p := New()
	if err := p.Create("a1b2c3d4-0000-0000-0000-000000000001", "Ada"); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := p.Create("a1b2c3d4-0000-0000-0000-000000000002", "Grace"); err == nil {
		t.Fatal("expected error when recreating under a different id")
	}
}

func TestFoldCreatedSetsFields(t *testing.T) {
	p := New()
	err := p.Fold(event.Event{
		Type:        EventTypeCreated,
		Version:     1,
		PayloadJSON: []byte(`{"id":"a1b2c3d4-0000-0000-0000-000000000001","name":"Ada"}`),
	})
	if err != nil {
		t.Fatalf("Fold: %v", err)
	}
	if p.ID != "a1b2c3d4-0000-0000-0000-000000000001" {
		t.Fatalf("id = %s, want %s", p.ID, "a1b2c3d4-0000-0000-0000-000000000001")
	}
	if p.Name != "Ada" {
		t.Fatalf("name = %s, want %s", p.Name, "Ada")
	}
	if p.Version() != 1 {
		t.Fatalf("version = %d, want 1", p.Version())
	}
}

func TestFoldUpdatedReplacesName(t *testing.T) {
	p := New()
	if err := p.Fold(event.Event{
		Type:        EventTypeCreated,
		Version:     1,
		PayloadJSON: []byte(`{"id":"a1b2c3d4-0000-0000-0000-000000000001","name":"Ada"}`),
	}); err != nil {
		t.Fatalf("fold created: %v", err)
	}
	if err := p.Fold(event.Event{
		Type:        EventTypeUpdated,
		Version:     2,
		PayloadJSON: []byte(`{"id":"a1b2c3d4-0000-0000-0000-000000000001","name":"Ada Lovelace"}`),
	}); err != nil {
		t.Fatalf("fold updated: %v", err)
	}
	if p.Name != "Ada Lovelace" {
		t.Fatalf("name = %s, want %s", p.Name, "Ada Lovelace")
	}
	if p.Version() != 2 {
		t.Fatalf("version = %d, want 2", p.Version())
	}
}

func TestFoldUnknownTypeAdvancesVersion(t *testing.T) {
	p := New()
	if err := p.Fold(event.Event{
		Type:        EventTypeCreated,
		Version:     1,
		PayloadJSON: []byte(`{"id":"a1b2c3d4-0000-0000-0000-000000000001","name":"Ada"}`),
	}); err != nil {
		t.Fatalf("fold created: %v", err)
	}
	if err := p.Fold(event.Event{
		Type:        event.Type("person.promoted"),
		Version:     2,
		PayloadJSON: []byte(`{"level":3}`),
	}); err != nil {
		t.Fatalf("fold unknown type: %v", err)
	}
	if p.Version() != 2 {
		t.Fatalf("version = %d, want 2", p.Version())
	}
	if p.Name != "Ada" {
		t.Fatalf("name = %s, want unchanged %s", p.Name, "Ada")
	}
}

func TestFoldEmploymentEventsLeaveFieldsUntouched(t *testing.T) {
	p := New()
	if err := p.Fold(event.Event{
		Type:        EventTypeCreated,
		Version:     1,
		PayloadJSON: []byte(`{"id":"a1b2c3d4-0000-0000-0000-000000000001","name":"Ada"}`),
	}); err != nil {
		t.Fatalf("fold created: %v", err)
	}
	if err := p.Fold(event.Event{
		Type:        EventTypeEmploymentCreated,
		Version:     2,
		PayloadJSON: []byte(`{"person_id":"a1b2c3d4-0000-0000-0000-000000000001","organization_unit_id":"b1b2c3d4-0000-0000-0000-000000000001","role":"engineer"}`),
	}); err != nil {
		t.Fatalf("fold employment created: %v", err)
	}
	if p.Name != "Ada" {
		t.Fatalf("name = %s, want unchanged %s", p.Name, "Ada")
	}
	if p.Version() != 2 {
		t.Fatalf("version = %d, want 2", p.Version())
	}
}

func TestDecodePayloadOutsideVocabulary(t *testing.T) {
	_, ok, err := DecodePayload(event.Event{Type: event.Type("orgunit.created"), PayloadJSON: []byte(`{}`)})
	if err != nil {
		t.Fatalf("DecodePayload: %v", err)
	}
	if ok {
		t.Fatal("expected unit event to be outside the person vocabulary")
	}
}
