package motorcycles

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

// RegisterInput captures the fields needed to add a vehicle to a garage.
type RegisterInput struct {
	CustomerID   uuid.UUID
	Brand        string
	Model        string
	LicensePlate string
	Year         *int
}

// UpdateInput carries the optional fields of a vehicle edit.
type UpdateInput struct {
	MotorcycleID    uuid.UUID
	Brand           *string
	Model           *string
	Year            *int
	ActorCustomerID uuid.UUID
	ActorRole       enums.UserRole
}

// Service defines garage operations.
type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.Motorcycle, error)
	Get(ctx context.Context, id uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.Motorcycle, error)
	ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Motorcycle, error)
	Update(ctx context.Context, input UpdateInput) (*models.Motorcycle, error)
	Remove(ctx context.Context, id uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) error
}

type service struct {
	repo Repository
}

// NewService builds a motorcycle service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("motorcycles repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.Motorcycle, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.Brand == "" || input.Model == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "brand and model required")
	}
	plate := normalizePlate(input.LicensePlate)
	if plate == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license plate required")
	}

	if _, err := s.repo.FindByPlate(ctx, plate); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "license plate already registered")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check license plate")
	}

	m := &models.Motorcycle{
		CustomerID:   input.CustomerID,
		Brand:        input.Brand,
		Model:        input.Model,
		LicensePlate: plate,
		Year:         input.Year,
	}
	created, err := s.repo.Create(ctx, m)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create motorcycle")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.Motorcycle, error) {
	m, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actorRole.IsStaff() && m.CustomerID != actorCustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "motorcycle belongs to another customer")
	}
	return m, nil
}

func (s *service) ListForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Motorcycle, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	out, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list motorcycles")
	}
	return out, nil
}

func (s *service) Update(ctx context.Context, input UpdateInput) (*models.Motorcycle, error) {
	m, err := s.load(ctx, input.MotorcycleID)
	if err != nil {
		return nil, err
	}
	if !input.ActorRole.IsStaff() && m.CustomerID != input.ActorCustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "motorcycle belongs to another customer")
	}

	updates := map[string]any{}
	if input.Brand != nil {
		updates["brand"] = *input.Brand
	}
	if input.Model != nil {
		updates["model"] = *input.Model
	}
	if input.Year != nil {
		updates["year"] = *input.Year
	}
	if len(updates) > 0 {
		if err := s.repo.Update(ctx, m.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update motorcycle")
		}
	}
	return s.load(ctx, m.ID)
}

func (s *service) Remove(ctx context.Context, id uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) error {
	m, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if !actorRole.IsStaff() && m.CustomerID != actorCustomerID {
		return pkgerrors.New(pkgerrors.CodeForbidden, "motorcycle belongs to another customer")
	}

	booked, err := s.repo.CountBookings(ctx, m.ID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check motorcycle bookings")
	}
	if booked > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "motorcycle has booking history")
	}

	if err := s.repo.Delete(ctx, m.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete motorcycle")
	}
	return nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Motorcycle, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "motorcycle id required")
	}
	m, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "motorcycle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load motorcycle")
	}
	return m, nil
}

func normalizePlate(plate string) string {
	return strings.ToUpper(strings.Join(strings.Fields(plate), " "))
}
