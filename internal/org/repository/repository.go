// Package repository loads and saves event-sourced aggregates against the
// event journal, with optimistic concurrency on the stream version.
package repository

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/domain/event"
	"github.com/orgledger/orgledger/internal/org/storage"
	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
)

// Aggregate is the contract an event-sourced aggregate exposes to the
// repository: identity, version bookkeeping, the uncommitted event buffer,
// and replay.
type Aggregate interface {
	AggregateID() string
	Version() uint64
	SetVersion(version uint64)
	UncommittedEvents() []event.Event
	ClearUncommittedEvents()
	Fold(evt event.Event) error
}

// Repository persists one aggregate type against the journal. Snapshots are
// written best-effort after a successful save and never consulted on load.
type Repository[T Aggregate] struct {
	events       storage.EventStore
	snapshots    storage.SnapshotStore
	logger       *zap.Logger
	newAggregate func() T
}

// New builds a repository for one aggregate type. newAggregate must return a
// zero-state aggregate ready to fold events.
func New[T Aggregate](events storage.EventStore, snapshots storage.SnapshotStore, logger *zap.Logger, newAggregate func() T) *Repository[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Repository[T]{
		events:       events,
		snapshots:    snapshots,
		logger:       logger,
		newAggregate: newAggregate,
	}
}

// GetByID rehydrates an aggregate by replaying its stream from the journal.
// Returns storage.ErrNotFound when the stream has no events.
func (r *Repository[T]) GetByID(ctx context.Context, id string) (T, error) {
	var zero T
	id = strings.TrimSpace(id)
	if id == "" {
		return zero, apperrors.New(apperrors.CodeIDEmpty, "aggregate id is required")
	}

	events, err := r.events.ListEvents(ctx, id, 0)
	if err != nil {
		return zero, apperrors.Wrap(apperrors.CodeUnknown, "list stream events", err)
	}
	if len(events) == 0 {
		return zero, storage.ErrNotFound
	}

	aggregate := r.newAggregate()
	for _, evt := range events {
		if err := aggregate.Fold(evt); err != nil {
			return zero, apperrors.Wrap(apperrors.CodeUnknown, "replay stream event", err)
		}
	}
	if strings.TrimSpace(aggregate.AggregateID()) == "" {
		return zero, apperrors.WithMetadata(apperrors.CodeEmptyAfterReplay, "aggregate has no identity after replay", map[string]string{"stream_id": id})
	}
	return aggregate, nil
}

// Save appends the aggregate's uncommitted events to its stream, conditioned
// on the version the aggregate was loaded at. A clean save clears the buffer
// and advances the aggregate version; storage.ErrVersionConflict surfaces
// unchanged so callers can reload and retry.
func (r *Repository[T]) Save(ctx context.Context, aggregate T) error {
	id := strings.TrimSpace(aggregate.AggregateID())
	if id == "" {
		return apperrors.New(apperrors.CodeIDEmpty, "aggregate id is required")
	}
	uncommitted := aggregate.UncommittedEvents()
	if len(uncommitted) == 0 {
		return nil
	}

	appended, err := r.events.AppendEvents(ctx, id, aggregate.Version(), uncommitted)
	if err != nil {
		return err
	}
	aggregate.SetVersion(appended[len(appended)-1].Version)
	aggregate.ClearUncommittedEvents()

	r.putSnapshot(ctx, id, aggregate)
	return nil
}

// DeleteSnapshot drops the cached state rendering for a stream. The journal
// itself is never touched.
func (r *Repository[T]) DeleteSnapshot(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperrors.New(apperrors.CodeIDEmpty, "aggregate id is required")
	}
	if r.snapshots == nil {
		return nil
	}
	return r.snapshots.DeleteSnapshot(ctx, id)
}

// putSnapshot caches the aggregate's current state. Snapshot failures are
// logged and swallowed: the journal already committed.
func (r *Repository[T]) putSnapshot(ctx context.Context, id string, aggregate T) {
	if r.snapshots == nil {
		return
	}
	state, err := json.Marshal(aggregate)
	if err != nil {
		r.logger.Warn("marshal aggregate snapshot", zap.String("stream_id", id), zap.Error(err))
		return
	}
	snap := storage.Snapshot{
		StreamID:  id,
		Version:   aggregate.Version(),
		StateJSON: state,
		CreatedAt: time.Now().UTC(),
	}
	if err := r.snapshots.PutSnapshot(ctx, snap); err != nil {
		r.logger.Warn("put aggregate snapshot", zap.String("stream_id", id), zap.Error(err))
	}
}
