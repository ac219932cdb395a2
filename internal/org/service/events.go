package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/domain/event"
	"github.com/orgledger/orgledger/internal/org/storage"
)

// EventQueryService exposes the raw journal for auditing and debugging.
type EventQueryService struct {
	events storage.EventStore
	logger *zap.Logger
}

// NewEventQueryService wires the journal query surface.
func NewEventQueryService(events storage.EventStore, logger *zap.Logger) *EventQueryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EventQueryService{events: events, logger: logger}
}

// FetchEvents returns a stream's events in version order. A non-zero
// maxVersion caps the result at that version inclusive, reconstructing the
// stream as of that point. An unknown stream yields storage.ErrNotFound.
func (s *EventQueryService) FetchEvents(ctx context.Context, streamID string, maxVersion uint64) ([]event.Event, error) {
	streamID, err := validateID("stream id", streamID)
	if err != nil {
		return nil, err
	}

	events, err := s.events.ListEvents(ctx, streamID, maxVersion)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, storage.ErrNotFound
	}
	return events, nil
}
