package service

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/domain/commission"
	"github.com/orgledger/orgledger/internal/org/repository"
	"github.com/orgledger/orgledger/internal/org/storage"
	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
)

// AdminCommissionService handles admin commission commands and read-model
// queries.
type AdminCommissionService struct {
	repo   *repository.Repository[*commission.AdminCommission]
	events storage.EventStore
	read   storage.ReadStore
	logger *zap.Logger
}

// NewAdminCommissionService wires the commission command surface.
func NewAdminCommissionService(repo *repository.Repository[*commission.AdminCommission], events storage.EventStore, read storage.ReadStore, logger *zap.Logger) *AdminCommissionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdminCommissionService{repo: repo, events: events, read: read, logger: logger}
}

// validateResponsibleUnit checks the responsible unit reference against the
// read model.
func (s *AdminCommissionService) validateResponsibleUnit(ctx context.Context, responsibleOrganizationID string) (string, error) {
	if strings.TrimSpace(responsibleOrganizationID) == "" {
		return "", apperrors.New(apperrors.CodeCommissionUnitEmpty, "responsible organization id is required")
	}
	responsibleOrganizationID, err := validateID("responsible organization id", responsibleOrganizationID)
	if err != nil {
		return "", err
	}
	if _, err := s.read.GetOrganizationUnit(ctx, responsibleOrganizationID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return "", apperrors.WithMetadata(apperrors.CodeCommissionUnitMissing, "responsible organization unit not found", map[string]string{"responsible_organization_id": responsibleOrganizationID})
		}
		return "", err
	}
	return responsibleOrganizationID, nil
}

// CreateAdminCommission starts a new commission stream. The responsible unit
// must already be present in the read model.
func (s *AdminCommissionService) CreateAdminCommission(ctx context.Context, id, name, responsibleOrganizationID string) error {
	id, err := validateID("admin commission id", id)
	if err != nil {
		return err
	}
	name, err = validateName(name, apperrors.CodeCommissionNameEmpty, "admin commission name is required")
	if err != nil {
		return err
	}
	responsibleOrganizationID, err = s.validateResponsibleUnit(ctx, responsibleOrganizationID)
	if err != nil {
		return err
	}

	version, err := s.events.StreamVersion(ctx, id)
	if err != nil {
		return err
	}
	if version > 0 {
		return apperrors.WithMetadata(apperrors.CodeStreamExists, "admin commission stream already exists", map[string]string{"admin_commission_id": id})
	}

	c := commission.New()
	if err := c.Create(id, name, responsibleOrganizationID); err != nil {
		return err
	}
	return s.repo.Save(ctx, c)
}

// UpdateAdminCommission replaces the commission's name and responsible unit.
func (s *AdminCommissionService) UpdateAdminCommission(ctx context.Context, id, name, responsibleOrganizationID string) error {
	id, err := validateID("admin commission id", id)
	if err != nil {
		return err
	}
	name, err = validateName(name, apperrors.CodeCommissionNameEmpty, "admin commission name is required")
	if err != nil {
		return err
	}
	responsibleOrganizationID, err = s.validateResponsibleUnit(ctx, responsibleOrganizationID)
	if err != nil {
		return err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Update(name, responsibleOrganizationID); err != nil {
		return err
	}
	return s.repo.Save(ctx, c)
}

// DeleteAdminCommission marks the commission deleted and drops the cached
// snapshot.
func (s *AdminCommissionService) DeleteAdminCommission(ctx context.Context, id string) error {
	id, err := validateID("admin commission id", id)
	if err != nil {
		return err
	}

	c, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := c.Delete(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, c); err != nil {
		return err
	}
	return s.repo.DeleteSnapshot(ctx, id)
}

// GetAdminCommission returns the commission read record.
func (s *AdminCommissionService) GetAdminCommission(ctx context.Context, id string) (storage.AdminCommissionRecord, error) {
	id, err := validateID("admin commission id", id)
	if err != nil {
		return storage.AdminCommissionRecord{}, err
	}
	return s.read.GetAdminCommission(ctx, id)
}

// ListAdminCommissions returns all commission read records.
func (s *AdminCommissionService) ListAdminCommissions(ctx context.Context) ([]storage.AdminCommissionRecord, error) {
	return s.read.ListAdminCommissions(ctx)
}
