package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/domain/orgunit"
	"github.com/orgledger/orgledger/internal/org/repository"
	"github.com/orgledger/orgledger/internal/org/storage"
	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
)

// OrganizationUnitService handles organization unit commands and read-model
// queries.
type OrganizationUnitService struct {
	repo   *repository.Repository[*orgunit.OrganizationUnit]
	events storage.EventStore
	read   storage.ReadStore
	logger *zap.Logger
}

// NewOrganizationUnitService wires the unit command surface.
func NewOrganizationUnitService(repo *repository.Repository[*orgunit.OrganizationUnit], events storage.EventStore, read storage.ReadStore, logger *zap.Logger) *OrganizationUnitService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrganizationUnitService{repo: repo, events: events, read: read, logger: logger}
}

// validateParent checks an optional parent reference: UUID-shaped, not the
// unit itself, and present in the read model.
func (s *OrganizationUnitService) validateParent(ctx context.Context, unitID string, parentID *string) (*string, error) {
	if parentID == nil {
		return nil, nil
	}
	parent, err := validateID("parent organization unit id", *parentID)
	if err != nil {
		return nil, err
	}
	if parent == unitID {
		return nil, apperrors.WithMetadata(apperrors.CodeIDInvalid, "organization unit cannot be its own parent", map[string]string{"organization_unit_id": unitID})
	}
	if _, err := s.read.GetOrganizationUnit(ctx, parent); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.WithMetadata(apperrors.CodeUnitParentMissing, "parent organization unit not found", map[string]string{"parent_id": parent})
		}
		return nil, err
	}
	return &parent, nil
}

// CreateOrganizationUnit starts a new unit stream. The optional parent must
// already be present in the read model.
func (s *OrganizationUnitService) CreateOrganizationUnit(ctx context.Context, id, name string, parentID *string) error {
	id, err := validateID("organization unit id", id)
	if err != nil {
		return err
	}
	name, err = validateName(name, apperrors.CodeUnitNameEmpty, "organization unit name is required")
	if err != nil {
		return err
	}
	parentID, err = s.validateParent(ctx, id, parentID)
	if err != nil {
		return err
	}

	version, err := s.events.StreamVersion(ctx, id)
	if err != nil {
		return err
	}
	if version > 0 {
		return apperrors.WithMetadata(apperrors.CodeStreamExists, "organization unit stream already exists", map[string]string{"organization_unit_id": id})
	}

	u := orgunit.New()
	if err := u.Create(id, name, parentID); err != nil {
		return err
	}
	return s.repo.Save(ctx, u)
}

// UpdateOrganizationUnit replaces the unit's name and parent reference.
func (s *OrganizationUnitService) UpdateOrganizationUnit(ctx context.Context, id, name string, parentID *string) error {
	id, err := validateID("organization unit id", id)
	if err != nil {
		return err
	}
	name, err = validateName(name, apperrors.CodeUnitNameEmpty, "organization unit name is required")
	if err != nil {
		return err
	}
	parentID, err = s.validateParent(ctx, id, parentID)
	if err != nil {
		return err
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.Update(name, parentID); err != nil {
		return err
	}
	return s.repo.Save(ctx, u)
}

// DeleteOrganizationUnit marks the unit deleted. The delete is refused while
// an admin commission still names the unit responsible in the read model.
func (s *OrganizationUnitService) DeleteOrganizationUnit(ctx context.Context, id string) error {
	id, err := validateID("organization unit id", id)
	if err != nil {
		return err
	}

	referencing, err := s.read.ListCommissionsForUnit(ctx, id)
	if err != nil {
		return err
	}
	if len(referencing) > 0 {
		return apperrors.WithMetadata(apperrors.CodeUnitReferenced, "organization unit is referenced by an admin commission", map[string]string{
			"organization_unit_id": id,
			"commission_id":        referencing[0].ID,
		})
	}

	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := u.Delete(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, u); err != nil {
		return err
	}
	return s.repo.DeleteSnapshot(ctx, id)
}

// GetOrganizationUnit returns the unit read record.
func (s *OrganizationUnitService) GetOrganizationUnit(ctx context.Context, id string) (storage.OrganizationUnitRecord, error) {
	id, err := validateID("organization unit id", id)
	if err != nil {
		return storage.OrganizationUnitRecord{}, err
	}
	return s.read.GetOrganizationUnit(ctx, id)
}

// ListOrganizationUnits returns all unit read records.
func (s *OrganizationUnitService) ListOrganizationUnits(ctx context.Context) ([]storage.OrganizationUnitRecord, error) {
	return s.read.ListOrganizationUnits(ctx)
}

// ListChildUnits returns the direct children of one unit.
func (s *OrganizationUnitService) ListChildUnits(ctx context.Context, parentID string) ([]storage.OrganizationUnitRecord, error) {
	parentID, err := validateID("organization unit id", parentID)
	if err != nil {
		return nil, err
	}
	return s.read.ListChildUnits(ctx, parentID)
}
