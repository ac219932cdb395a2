package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/orgledger/orgledger/internal/org/storage"
)

// PutEmployment upserts one employment read record keyed by person and unit.
func (s *Store) PutEmployment(ctx context.Context, record storage.EmploymentRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}
	personID := strings.TrimSpace(record.PersonID)
	unitID := strings.TrimSpace(record.OrganizationUnitID)
	if personID == "" {
		return fmt.Errorf("person id is required")
	}
	if unitID == "" {
		return fmt.Errorf("organization unit id is required")
	}
	createdAt, updatedAt := normalizeTimestamps(record.CreatedAt, record.UpdatedAt)

	_, err := s.q.ExecContext(
		ctx,
		`INSERT INTO employments (person_id, organization_unit_id, role, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(person_id, organization_unit_id) DO UPDATE SET
		   role = excluded.role,
		   updated_at = excluded.updated_at`,
		personID,
		unitID,
		record.Role,
		toMillis(createdAt),
		toMillis(updatedAt),
	)
	if err != nil {
		return fmt.Errorf("put employment: %w", err)
	}
	return nil
}

// GetEmployment returns one employment read record by person and unit.
func (s *Store) GetEmployment(ctx context.Context, personID, organizationUnitID string) (storage.EmploymentRecord, error) {
	if err := ctx.Err(); err != nil {
		return storage.EmploymentRecord{}, err
	}
	if s == nil || s.q == nil {
		return storage.EmploymentRecord{}, fmt.Errorf("storage is not configured")
	}
	personID = strings.TrimSpace(personID)
	organizationUnitID = strings.TrimSpace(organizationUnitID)
	if personID == "" {
		return storage.EmploymentRecord{}, fmt.Errorf("person id is required")
	}
	if organizationUnitID == "" {
		return storage.EmploymentRecord{}, fmt.Errorf("organization unit id is required")
	}

	var record storage.EmploymentRecord
	var createdAt, updatedAt int64
	err := s.q.QueryRowContext(
		ctx,
		`SELECT person_id, organization_unit_id, role, created_at, updated_at
		 FROM employments WHERE person_id = ? AND organization_unit_id = ?`,
		personID,
		organizationUnitID,
	).Scan(&record.PersonID, &record.OrganizationUnitID, &record.Role, &createdAt, &updatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return storage.EmploymentRecord{}, storage.ErrNotFound
	}
	if err != nil {
		return storage.EmploymentRecord{}, fmt.Errorf("get employment: %w", err)
	}
	record.CreatedAt = fromMillis(createdAt)
	record.UpdatedAt = fromMillis(updatedAt)
	return record, nil
}

// DeleteEmployment removes one employment row. Deleting a missing row is not
// an error.
func (s *Store) DeleteEmployment(ctx context.Context, personID, organizationUnitID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.q == nil {
		return fmt.Errorf("storage is not configured")
	}
	personID = strings.TrimSpace(personID)
	organizationUnitID = strings.TrimSpace(organizationUnitID)
	if personID == "" {
		return fmt.Errorf("person id is required")
	}
	if organizationUnitID == "" {
		return fmt.Errorf("organization unit id is required")
	}

	if _, err := s.q.ExecContext(
		ctx,
		"DELETE FROM employments WHERE person_id = ? AND organization_unit_id = ?",
		personID,
		organizationUnitID,
	); err != nil {
		return fmt.Errorf("delete employment: %w", err)
	}
	return nil
}

// ListEmployments returns all employment read records.
func (s *Store) ListEmployments(ctx context.Context) ([]storage.EmploymentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.q == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	return s.listEmployments(
		ctx,
		`SELECT person_id, organization_unit_id, role, created_at, updated_at
		 FROM employments ORDER BY person_id, organization_unit_id`,
	)
}

// ListEmploymentsForPerson returns the employment rows of one person.
func (s *Store) ListEmploymentsForPerson(ctx context.Context, personID string) ([]storage.EmploymentRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s == nil || s.q == nil {
		return nil, fmt.Errorf("storage is not configured")
	}
	personID = strings.TrimSpace(personID)
	if personID == "" {
		return nil, fmt.Errorf("person id is required")
	}
	return s.listEmployments(
		ctx,
		`SELECT person_id, organization_unit_id, role, created_at, updated_at
		 FROM employments WHERE person_id = ? ORDER BY organization_unit_id`,
		personID,
	)
}

func (s *Store) listEmployments(ctx context.Context, query string, args ...any) ([]storage.EmploymentRecord, error) {
	rows, err := s.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list employments: %w", err)
	}
	defer rows.Close()

	var records []storage.EmploymentRecord
	for rows.Next() {
		var record storage.EmploymentRecord
		var createdAt, updatedAt int64
		if err := rows.Scan(&record.PersonID, &record.OrganizationUnitID, &record.Role, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("scan employment: %w", err)
		}
		record.CreatedAt = fromMillis(createdAt)
		record.UpdatedAt = fromMillis(updatedAt)
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read employments: %w", err)
	}
	return records, nil
}
