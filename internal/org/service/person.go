package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/orgledger/orgledger/internal/org/domain/person"
	"github.com/orgledger/orgledger/internal/org/repository"
	"github.com/orgledger/orgledger/internal/org/storage"
	apperrors "github.com/orgledger/orgledger/internal/platform/errors"
)

// PersonService handles person and employment commands plus read-model
// queries.
type PersonService struct {
	repo   *repository.Repository[*person.Person]
	events storage.EventStore
	read   storage.ReadStore
	logger *zap.Logger
}

// NewPersonService wires the person command surface.
func NewPersonService(repo *repository.Repository[*person.Person], events storage.EventStore, read storage.ReadStore, logger *zap.Logger) *PersonService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PersonService{repo: repo, events: events, read: read, logger: logger}
}

// CreatePerson starts a new person stream. Fails with a conflict when the
// stream already has events.
func (s *PersonService) CreatePerson(ctx context.Context, id, name string) error {
	id, err := validateID("person id", id)
	if err != nil {
		return err
	}
	name, err = validateName(name, apperrors.CodePersonNameEmpty, "person name is required")
	if err != nil {
		return err
	}

	version, err := s.events.StreamVersion(ctx, id)
	if err != nil {
		return err
	}
	if version > 0 {
		return apperrors.WithMetadata(apperrors.CodeStreamExists, "person stream already exists", map[string]string{"person_id": id})
	}

	p := person.New()
	if err := p.Create(id, name); err != nil {
		return err
	}
	return s.repo.Save(ctx, p)
}

// UpdatePerson replaces the person's name.
func (s *PersonService) UpdatePerson(ctx context.Context, id, name string) error {
	id, err := validateID("person id", id)
	if err != nil {
		return err
	}
	name, err = validateName(name, apperrors.CodePersonNameEmpty, "person name is required")
	if err != nil {
		return err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := p.Update(name); err != nil {
		return err
	}
	return s.repo.Save(ctx, p)
}

// DeletePerson marks the person deleted and drops the cached snapshot.
func (s *PersonService) DeletePerson(ctx context.Context, id string) error {
	id, err := validateID("person id", id)
	if err != nil {
		return err
	}

	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if err := p.Delete(); err != nil {
		return err
	}
	if err := s.repo.Save(ctx, p); err != nil {
		return err
	}
	return s.repo.DeleteSnapshot(ctx, id)
}

// AddEmployment records the person taking a role at a unit. The unit must be
// present in the read model and the employment must not already exist there.
func (s *PersonService) AddEmployment(ctx context.Context, personID, organizationUnitID, role string) error {
	personID, err := validateID("person id", personID)
	if err != nil {
		return err
	}
	organizationUnitID, err = validateID("organization unit id", organizationUnitID)
	if err != nil {
		return err
	}
	role, err = validateName(role, apperrors.CodeEmploymentRoleEmpty, "employment role is required")
	if err != nil {
		return err
	}

	if _, err := s.read.GetOrganizationUnit(ctx, organizationUnitID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.WithMetadata(apperrors.CodeNotFound, "organization unit not found", map[string]string{"organization_unit_id": organizationUnitID})
		}
		return err
	}
	if _, err := s.read.GetEmployment(ctx, personID, organizationUnitID); err == nil {
		return apperrors.WithMetadata(apperrors.CodeEmploymentExists, "employment already exists", map[string]string{
			"person_id":            personID,
			"organization_unit_id": organizationUnitID,
		})
	} else if !errors.Is(err, storage.ErrNotFound) {
		return err
	}

	p, err := s.repo.GetByID(ctx, personID)
	if err != nil {
		return err
	}
	if err := p.AddEmployment(organizationUnitID, role); err != nil {
		return err
	}
	return s.repo.Save(ctx, p)
}

// UpdateEmployment changes the role of an existing employment. The employment
// row must be present in the read model.
func (s *PersonService) UpdateEmployment(ctx context.Context, personID, organizationUnitID, role string) error {
	personID, err := validateID("person id", personID)
	if err != nil {
		return err
	}
	organizationUnitID, err = validateID("organization unit id", organizationUnitID)
	if err != nil {
		return err
	}
	role, err = validateName(role, apperrors.CodeEmploymentRoleEmpty, "employment role is required")
	if err != nil {
		return err
	}

	if _, err := s.read.GetEmployment(ctx, personID, organizationUnitID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.WithMetadata(apperrors.CodeEmploymentMissing, "employment not found", map[string]string{
				"person_id":            personID,
				"organization_unit_id": organizationUnitID,
			})
		}
		return err
	}

	p, err := s.repo.GetByID(ctx, personID)
	if err != nil {
		return err
	}
	if err := p.UpdateEmployment(organizationUnitID, role); err != nil {
		return err
	}
	return s.repo.Save(ctx, p)
}

// DeleteEmployment ends an existing employment.
func (s *PersonService) DeleteEmployment(ctx context.Context, personID, organizationUnitID string) error {
	personID, err := validateID("person id", personID)
	if err != nil {
		return err
	}
	organizationUnitID, err = validateID("organization unit id", organizationUnitID)
	if err != nil {
		return err
	}

	if _, err := s.read.GetEmployment(ctx, personID, organizationUnitID); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return apperrors.WithMetadata(apperrors.CodeEmploymentMissing, "employment not found", map[string]string{
				"person_id":            personID,
				"organization_unit_id": organizationUnitID,
			})
		}
		return err
	}

	p, err := s.repo.GetByID(ctx, personID)
	if err != nil {
		return err
	}
	if err := p.DeleteEmployment(organizationUnitID); err != nil {
		return err
	}
	return s.repo.Save(ctx, p)
}

// GetPerson returns the person read record.
func (s *PersonService) GetPerson(ctx context.Context, id string) (storage.PersonRecord, error) {
	id, err := validateID("person id", id)
	if err != nil {
		return storage.PersonRecord{}, err
	}
	return s.read.GetPerson(ctx, id)
}

// ListPersons returns all person read records.
func (s *PersonService) ListPersons(ctx context.Context) ([]storage.PersonRecord, error) {
	return s.read.ListPersons(ctx)
}

// ListEmployments returns the person's employment rows.
func (s *PersonService) ListEmployments(ctx context.Context, personID string) ([]storage.EmploymentRecord, error) {
	personID, err := validateID("person id", personID)
	if err != nil {
		return nil, err
	}
	return s.read.ListEmploymentsForPerson(ctx, personID)
}
