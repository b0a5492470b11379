package estimates

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

// UpsertInput captures the staff-entered preliminary price for a booking.
// Writing twice replaces the previous figure; a booking carries one estimate.
type UpsertInput struct {
	BookingID     uuid.UUID
	Description   string
	EstimatedCost decimal.Decimal
	ActorRole     enums.UserRole
}

// Service defines estimate operations.
type Service interface {
	Upsert(ctx context.Context, input UpsertInput) (*models.Estimate, error)
	GetForBooking(ctx context.Context, bookingID uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.Estimate, error)
}

type service struct {
	repo Repository
}

// NewService builds an estimates service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("estimates repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) Upsert(ctx context.Context, input UpsertInput) (*models.Estimate, error) {
	if !input.ActorRole.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}
	if input.Description == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimate description required")
	}
	if input.EstimatedCost.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "estimated cost cannot be negative")
	}

	booking, err := s.repo.FindBookingByID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if booking.Status == enums.BookingStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "booking is cancelled")
	}

	existing, err := s.repo.FindByBookingID(ctx, input.BookingID)
	switch {
	case err == nil:
		updates := map[string]any{
			"description":    input.Description,
			"estimated_cost": input.EstimatedCost,
		}
		if err := s.repo.Update(ctx, existing.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update estimate")
		}
		return s.repo.FindByBookingID(ctx, input.BookingID)
	case errors.Is(err, gorm.ErrRecordNotFound):
		created, err := s.repo.Create(ctx, &models.Estimate{
			BookingID:     input.BookingID,
			Description:   input.Description,
			EstimatedCost: input.EstimatedCost,
		})
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create estimate")
		}
		return created, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load estimate")
	}
}

func (s *service) GetForBooking(ctx context.Context, bookingID uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.Estimate, error) {
	if bookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}

	booking, err := s.repo.FindBookingByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if !actorRole.IsStaff() && booking.CustomerID != actorCustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another customer")
	}

	estimate, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "estimate not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load estimate")
	}
	return estimate, nil
}
