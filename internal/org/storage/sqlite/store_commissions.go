package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/orgledger/orgledger/internal/org/storage"
)

// PutAdminCommission upserts one admin commission read record.
func (s *Store) PutAdminCommission(ctx context.Context, record storage.AdminCommissionRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}
	id := strings.TrimSpace(record.ID)
	if id == "" {
		return fmt.Errorf("admin commission id is required")
	}
	createdAt, updatedAt := normalizeTimestamps(record.CreatedAt, record.UpdatedAt)

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO admin_commissions (id, name, responsible_organization_id, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   name = excluded.name,
		   responsible_organization_id = excluded.responsible_organization_id,
		   updated_at = excluded.updated_at`,
		id,
		record.Name,
		record.ResponsibleOrganizationID,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put admin commission: %w", err)
	}
	return nil
}

// GetAdminCommission returns one admin commission read record by ID.
func (s *Store) GetAdminCommission(ctx context.Context, id string) (storage.AdminCommissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.AdminCommissionRecord{}, err
	}
	if s == nil || s.q == nil {
		return storage.AdminCommissionRecord{}, fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return storage.AdminCommissionRecord{}, fmt.Errorf("admin commission id is required")
	}

	var record storage.AdminCommissionRecord
	var createdAt, updatedAt int64
	err := s.q.QueryRowContext(
		ctx,
		`SELECT id, name, responsible_organization_id, created_at, updated_at
		 FROM admin_commissions WHERE id = ?`,
		id,
	).Scan(&record.ID, &record.Name, &record.ResponsibleOrganizationID, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.AdminCommissionRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.AdminCommissionRecord{}, fmt.Errorf("get admin commission: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// DeleteAdminCommission removes one admin commission. Deleting a missing
// commission is not an error.
func (s *Store) DeleteAdminCommission(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}
	id = strings.TrimSpace(id)
	if id == "" {
		return fmt.Errorf("admin commission id is required")
	}

	if _, err := s.q.ExecContext(ctx, "DELETE FROM admin_commissions WHERE id = ?", id); err != nil {
		return fmt.Errorf("delete admin commission: %w", err)
	}
	return nil
}

// ListAdminCommissions returns all commission read records ordered by name.
func (s *Store) ListAdminCommissions(ctx context.Context) ([]storage.AdminCommissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.q == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	return s.listAdminCommissions(
		ctx,
		`SELECT id, name, responsible_organization_id, created_at, updated_at
		 FROM admin_commissions ORDER BY name, id`,
	)
}

// ListCommissionsForUnit returns the commissions naming the unit responsible.
func (s *Store) ListCommissionsForUnit(ctx context.Context, organizationUnitID string) ([]storage.AdminCommissionRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.q == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	organizationUnitID = strings.TrimSpace(organizationUnitID)
	if organizationUnitID == "" {
		return nil, fmt.Errorf("organization unit id is required")
	}
	return s.listAdminCommissions(
		ctx,
		`SELECT id, name, responsible_organization_id, created_at, updated_at
		 FROM admin_commissions WHERE responsible_organization_id = ? ORDER BY name, id`,
		organizationUnitID,
	)
}

func (s *Store) listAdminCommissions(ctx context.Context, query string, args ...any) ([]storage.AdminCommissionRecord, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list admin commissions: %w", err)
	}
	defer rows.Close()

	var records []storage.AdminCommissionRecord
	for rows.Next() {
		var record storage.AdminCommissionRecord
		var createdAt, updatedAt int64
		if err := rows.Scan(&record.ID, &record.Name, &record.ResponsibleOrganizationID, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan admin commission: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read admin commissions: %w", err)
	}
	return records, nil
}
