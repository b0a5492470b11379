package inventory

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

// Service defines catalog operations for staff and the read path for customers.
type Service interface {
	CreatePart(ctx context.Context, input CreatePartInput) (*models.Part, error)
	UpdatePart(ctx context.Context, input UpdatePartInput) (*models.Part, error)
	DeletePart(ctx context.Context, partID uuid.UUID, actorRole enums.UserRole) error
	GetPart(ctx context.Context, partID uuid.UUID) (*models.Part, error)
	ListParts(ctx context.Context, filters PartFilters) ([]models.Part, error)
}

type service struct {
	repo Repository
}

// NewService builds a parts catalog service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreatePart(ctx context.Context, input CreatePartInput) (*models.Part, error) {
	if !input.ActorRole.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if input.Name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part name required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part price cannot be negative")
	}
	if input.StockQty < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
	}

	part := &models.Part{
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		StockQty:    input.StockQty,
	}
	created, err := s.repo.CreatePart(ctx, part)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create part")
	}
	return created, nil
}

func (s *service) UpdatePart(ctx context.Context, input UpdatePartInput) (*models.Part, error) {
	if !input.ActorRole.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if input.PartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "part id required")
	}

	updates := map[string]any{}
	if input.Name != nil {
		if *input.Name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "part name cannot be empty")
		}
		updates["name"] = *input.Name
	}
	if input.Description != nil {
		updates["description"] = *input.Description
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "part price cannot be negative")
		}
		updates["price"] = *input.Price
	}
	if input.StockQty != nil {
		if *input.StockQty < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
		}
		updates["stock_qty"] = *input.StockQty
	}

	if _, err := s.GetPart(ctx, input.PartID); err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.repo.UpdatePart(ctx, input.PartID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update part")
		}
	}
	return s.GetPart(ctx, input.PartID)
}

func (s *service) DeletePart(ctx context.Context, partID uuid.UUID, actorRole enums.UserRole) error {
	if !actorRole.IsStaff() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if partID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "part id required")
	}
	if _, err := s.GetPart(ctx, partID); err != nil {
		return err
	}

	// Historical bill lines reference catalog rows; those parts can only be
	// zeroed out, never removed.
	used, err := s.repo.CountRepairUsage(ctx, partID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check part usage")
	}
	if used > 0 {
		return pkgerrors.New(pkgerrors.CodeConflict, "part has been used on repair jobs")
	}

	if err := s.repo.DeletePart(ctx, partID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete part")
	}
	return nil
}

func (s *service) GetPart(ctx context.Context, partID uuid.UUID) (*models.Part, error) {
	part, err := s.repo.FindPartByID(ctx, partID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part")
	}
	return part, nil
}

func (s *service) ListParts(ctx context.Context, filters PartFilters) ([]models.Part, error) {
	parts, err := s.repo.ListParts(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list parts")
	}
	return parts, nil
}
