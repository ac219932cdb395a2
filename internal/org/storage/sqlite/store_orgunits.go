package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/orgledger/orgledger/internal/org/storage"
)

// PutOrganizationUnit upserts one organization unit read record.
func (s *Store) PutOrganizationUnit(ctx context.Context, record storage.OrganizationUnitRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("organization unit id is required")
	}
	createdAt, updatedAt := normalizeTimestamps(record.CreatedAt, record.UpdatedAt)

	var parentID sql.NullString
	if record.ParentID != nil {
		parentID = sql.NullString{String: *record.ParentID, Valid: true}
	}

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO organization_units (id, name, parent_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   parent_id = excluded.parent_id,
		   updated_at = excluded.updated_at`,
		id,
		record.Name,
		parentID,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put organization unit: %w", err)
	}
	return nil
}

// GetOrganizationUnit returns one organization unit read record by ID.
func (s *Store) GetOrganizationUnit(ctx context.Context, id string) (storage.OrganizationUnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.OrganizationUnitRecord{}, err
	}
	if s == nil || s.q == nil {
		return storage.OrganizationUnitRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.OrganizationUnitRecord{}, fmt.Errorf("organization unit id is required")
	}

	row := s.q.QueryRowContext(
		ctx,
		"SELECT id, name, parent_id, created_at, updated_at FROM organization_units WHERE id = ?",
		id,
	)
	record, err := scanOrganizationUnitRow(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.OrganizationUnitRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.OrganizationUnitRecord{}, fmt.Errorf("get organization unit: %w", err)
	}
	return record, nil
}

// DeleteOrganizationUnit removes one unit, deletes its employments, and
// detaches any child units. The delete is refused while an admin commission
// still names the unit responsible.
func (s *Store) DeleteOrganizationUnit(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("organization unit id is required")
	}

	var referencing int
	if err := s.q.QueryRowContext(
		ctx,
		"SELECT COUNT(1) FROM admin_commissions WHERE responsible_organization_id = ?",
		id,
	).Scan(&referencing); err != nil {
		return fmt.Errorf("count referencing commissions: %w", err)
	}
	if referencing > 0 {
		return storage.ErrUnitReferenced
	}

	if _, err := s.q.ExecContext(ctx, "DELETE FROM employments WHERE organization_unit_id = ?", id); err != nil {
		return fmt.Errorf("delete unit employments: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, "UPDATE organization_units SET parent_id = NULL WHERE parent_id = ?", id); err != nil {
		return fmt.Errorf("detach child units: %w", err)
	}
	if _, err := s.q.ExecContext(ctx, "DELETE FROM organization_units WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete organization unit: %w", err)
	}
	return nil
}

// ListOrganizationUnits returns all unit read records ordered by name.
func (s *Store) ListOrganizationUnits(ctx context.Context) ([]storage.OrganizationUnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.q == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	return s.listOrganizationUnits(
		ctx,
		"SELECT id, name, parent_id, created_at, updated_at FROM organization_units ORDER BY name, id",
	)
}

// ListChildUnits returns the units whose parent_id is the given unit.
func (s *Store) ListChildUnits(ctx context.Context, parentID string) ([]storage.OrganizationUnitRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.q == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	parentID = strings.TrimSpace(parentID)
	if parentID == "" {
		return nil, fmt.Errorf("parent id is required")
	}
	return s.listOrganizationUnits(
		ctx,
		"SELECT id, name, parent_id, created_at, updated_at FROM organization_units WHERE parent_id = ? ORDER BY name, id",
		parentID,
	)
}

func (s *Store) listOrganizationUnits(ctx context.Context, query string, args ...any) ([]storage.OrganizationUnitRecord, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list organization units: %w", err)
	}
	defer rows.Close()

	var records []storage.OrganizationUnitRecord
	for rows.Next() {
		record, err := scanOrganizationUnitRow(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("scan organization unit: %w", err)
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read organization units: %w", err)
	}
	return records, nil
}

func scanOrganizationUnitRow(scan func(dest ...any) error) (storage.OrganizationUnitRecord, error) {
	var record storage.OrganizationUnitRecord
	var parentID sql.NullString
	var createdAt, updatedAt int64
	if err := scan(&record.ID, &record.Name, &parentID, &createdAt, &updatedAt); err != nil {
		return storage.OrganizationUnitRecord{}, err
	}
	if parentID.Valid {
		value := parentID.String
		record.ParentID = &value
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}
