package customers

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

// UpdateProfileInput carries the fields a customer may change on their profile.
type UpdateProfileInput struct {
	UserID   uuid.UUID
	FullName *string
	Phone    *string
}

// ListInput captures staff browsing the customer directory.
type ListInput struct {
	Filters   CustomerFilters
	ActorRole enums.UserRole
}

// Service defines customer profile operations.
type Service interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
	UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.Customer, error)
	Get(ctx context.Context, id uuid.UUID, actorRole enums.UserRole) (*models.Customer, error)
	List(ctx context.Context, input ListInput) ([]models.Customer, error)
}

type service struct {
	repo Repository
}

// NewService builds a customers service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("customers repository required")
	}
	return &service{repo: repo}, nil
}

// GetProfile resolves the profile owned by the given user account.
func (s *service) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Customer, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "user id required")
	}
	customer, err := s.repo.FindByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer profile not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load profile")
	}
	return customer, nil
}

func (s *service) UpdateProfile(ctx context.Context, input UpdateProfileInput) (*models.Customer, error) {
	customer, err := s.GetProfile(ctx, input.UserID)
	if err != nil {
		return nil, err
	}

	if input.FullName != nil {
		name := strings.TrimSpace(*input.FullName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "full name cannot be empty")
		}
		customer.FullName = name
	}
	if input.Phone != nil {
		phone := strings.TrimSpace(*input.Phone)
		if phone == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "phone cannot be empty")
		}
		customer.Phone = phone
	}

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update profile")
	}
	return updated, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, actorRole enums.UserRole) (*models.Customer, error) {
	if !actorRole.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	customer, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "customer not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load customer")
	}
	return customer, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]models.Customer, error) {
	if !input.ActorRole.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	customers, err := s.repo.List(ctx, input.Filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list customers")
	}
	return customers, nil
}
