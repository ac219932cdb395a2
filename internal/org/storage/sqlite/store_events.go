package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/orgledger/orgledger/internal/org/domain/event"
	"github.com/orgledger/orgledger/internal/org/storage"
)

const defaultEntryPageSize = 100

// AppendEvents appends events to a stream inside one transaction, conditioned
// on the stream currently sitting at expectedVersion. Versions are assigned
// contiguously from expectedVersion+1 in slice order.
func (s *Store) AppendEvents(ctx context.Context, streamID string, expectedVersion uint64, events []event.Event) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	streamID = strings.TrimSpace(streamID)
	if streamID == "" {
		return nil, fmt.Errorf("stream id is required")
	}
	if len(events) == 0 {
		return nil, nil
	}
	for i, evt := range events {
		if strings.TrimSpace(string(evt.Type)) == "" {
			return nil, fmt.Errorf("event %d: type is required", i)
		}
	}

	tx, err := s.sqlDB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin append transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var current uint64
	if err := tx.QueryRowContext(
		ctx,
		"SELECT COALESCE(MAX(version), 0) FROM events WHERE stream_id = ?",
		streamID,
	).Scan(&current); err != nil {
		return nil, fmt.Errorf("read stream version: %w", err)
	}
	if current != expectedVersion {
		return nil, storage.ErrVersionConflict
	}

	appended := make([]event.Event, 0, len(events))
	for i, evt := range events {
		evt.StreamID = streamID
		evt.Version = expectedVersion + uint64(i) + 1
		if evt.Timestamp.IsZero() {
			evt.Timestamp = time.Now().UTC()
		}
		if _, err := tx.ExecContext(
			ctx,
			`INSERT INTO events (stream_id, version, event_type, payload_json, committed_at)
			 VALUES (?, ?, ?, ?, ?)`,
			streamID,
			evt.Version,
			string(evt.Type),
			evt.PayloadJSON,
			toMillis(evt.Timestamp),
		); err != nil {
			if isUniqueViolation(err) {
				return nil, storage.ErrVersionConflict
			}
			return nil, fmt.Errorf("append event %s v%d: %w", evt.Type, evt.Version, err)
		}
		appended = append(appended, evt)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit append transaction: %w", err)
	}
	return appended, nil
}

// ListEvents returns a stream's events ordered by version ascending. A
// non-zero maxVersion caps the result at that version inclusive.
func (s *Store) ListEvents(ctx context.Context, streamID string, maxVersion uint64) ([]event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	streamID = strings.TrimSpace(streamID)
	if streamID == "" {
		return nil, fmt.Errorf("stream id is required")
	}

	query := `SELECT version, event_type, payload_json, committed_at
	 FROM events WHERE stream_id = ?`
	args := []any{streamID}
	if maxVersion > 0 {
		query += " AND version <= ?"
		args = append(args, maxVersion)
	}
	query += " ORDER BY version ASC"

	rows, err := s.sqlDB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	defer rows.Close()

	var events []event.Event
	for rows.Next() {
		evt, err := scanEvent(rows, streamID)
		if err != nil {
			return nil, err
		}
		events = append(events, evt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read events: %w", err)
	}
	return events, nil
}

// StreamVersion returns the latest version of a stream, or 0 when the stream
// has no events.
func (s *Store) StreamVersion(ctx context.Context, streamID string) (uint64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	if s == nil || s.sqlDB == nil {
		return 0, fmt.Errorf("storage is not configured")
	}
	streamID = strings.TrimSpace(streamID)
	if streamID == "" {
		return 0, fmt.Errorf("stream id is required")
	}

	var version uint64
	if err := s.sqlDB.QueryRowContext(
		ctx,
		"SELECT COALESCE(MAX(version), 0) FROM events WHERE stream_id = ?",
		streamID,
	).Scan(&version); err != nil {
		return 0, fmt.Errorf("read stream version: %w", err)
	}
	return version, nil
}

// ListEntriesAfter returns up to limit journal entries past the given global
// sequence, in commit order across all streams.
func (s *Store) ListEntriesAfter(ctx context.Context, afterSeq uint64, limit int) ([]storage.JournalEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.sqlDB == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	if limit <= 0 {
		limit = defaultEntryPageSize
	}

	rows, err := s.sqlDB.QueryContext(
		ctx,
		`SELECT global_seq, stream_id, version, event_type, payload_json, committed_at
		 FROM events WHERE global_seq > ? ORDER BY global_seq ASC LIMIT ?`,
		afterSeq,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("list journal entries: %w", err)
	}
	defer rows.Close()

	var entries []storage.JournalEntry
	for rows.Next() {
		var entry storage.JournalEntry
		var streamID string
		var eventType string
		var committedAt int64
		if err := rows.Scan(
			&entry.GlobalSeq,
			&streamID,
			&entry.Event.Version,
			&eventType,
			&entry.Event.PayloadJSON,
			&committedAt,
		); err != nil {
			return nil, fmt.Errorf("scan journal entry: %w", err)
		}
		entry.Event.StreamID = streamID
		entry.Event.Type = event.Type(eventType)
		entry.Event.Timestamp = fromMillis(committedAt)
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read journal entries: %w", err)
	}
	return entries, nil
}

func scanEvent(rows *sql.Rows, streamID string) (event.Event, error) {
	var evt event.Event
	var eventType string
	var committedAt int64
	if err := rows.Scan(&evt.Version, &eventType, &evt.PayloadJSON, &committedAt); err != nil {
		return event.Event{}, fmt.Errorf("scan event: %w", err)
	}
	evt.StreamID = streamID
	evt.Type = event.Type(eventType)
	evt.Timestamp = fromMillis(committedAt)
	return evt, nil
}
