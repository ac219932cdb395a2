package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/orgledger/orgledger/internal/org/storage"
)

// PutPerson upserts one person read record.
func (s *Store) PutPerson(ctx context.Context, record storage.PersonRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("person id is required")
	}
	createdAt, updatedAt := normalizeTimestamps(record.CreatedAt, record.UpdatedAt)

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO persons (id, name, created_at, updated_at)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   updated_at = excluded.updated_at`,
		id,
		record.Name,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put person: %w", err)
	}
	return nil
}

// GetPerson returns one person read record by ID.
func (s *Store) GetPerson(ctx context.Context, id string) (storage.PersonRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.PersonRecord{}, err
	}
	if s == nil || s.q == nil {
		return storage.PersonRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.PersonRecord{}, fmt.Errorf("person id is required")
	}

	var record storage.PersonRecord
	var createdAt, updatedAt int64
	err := s.q.QueryRowContext(
		ctx,
		"SELECT id, name, created_at, updated_at FROM persons WHERE id = ?",
		id,
	).Scan(&record.ID, &record.Name, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.PersonRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.PersonRecord{}, fmt.Errorf("get person: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// DeletePerson removes one person and the person's employment rows. Deleting
// a missing person is not an error.
func (s *Store) DeletePerson(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("person id is required")
	}

	if _, err := s.q.ExecContext(ctx, "DELETE FROM employments WHERE person_id = ?", id); err != nil {
		return fmt.Errorf("delete person employments: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, "DELETE FROM persons WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete person: %w", err)
	}
	return nil
}

// ListPersons returns all person read records ordered by name.
func (s *Store) ListPersons(ctx context.Context) ([]storage.PersonRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.q == nil {
		return nil, fmt.Errorf("storage is not configured")
	}

	rows, err := s.q.QueryContext(
		ctx,
		"SELECT id, name, created_at, updated_at FROM persons ORDER BY name, id",
	)
	if err != nil {
		return nil, fmt.Errorf("list persons: %w", err)
	}
	defer rows.Close()

	var records []storage.PersonRecord
	for rows.Next() {
		var record storage.PersonRecord
		var createdAt, updatedAt int64
		if err := rows.Scan(&record.ID, &record.Name, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read persons: %w", err)
	}
	return records, nil
}

// normalizeTimestamps backfills zero created/updated times the way ingest
// paths expect: both default to now, and either one borrows the other.
func normalizeTimestamps(createdAt, updatedAt time.Time) (time.Time, time.Time) {
	createdAt = createdAt.UTC()
	updatedAt = updatedAt.UTC()
	if createdAt.IsZero() && updatedAt.IsZero() {
		createdAt = time.Now().UTC()
		updatedAt = createdAt
		return createdAt, updatedAt
	}
	if createdAt.IsZero() {
		createdAt = updatedAt
	}
	if updatedAt.IsZero() {
		updatedAt = createdAt
	}
	return createdAt, updatedAt
}
