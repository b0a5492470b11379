package quotations

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

// Decision represents the customer's response to a pending quotation.
type Decision string

const (
	DecisionApprove Decision = "approve"
	DecisionReject  Decision = "reject"
)

// DecideInput carries the data needed to resolve a pending quotation.
type DecideInput struct {
	BookingID       uuid.UUID
	Decision        Decision
	ActorCustomerID uuid.UUID
	ActorRole       enums.UserRole
}

// Service defines quotation read and approval operations.
type Service interface {
	GetForBooking(ctx context.Context, bookingID uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.Quotation, error)
	Decide(ctx context.Context, input DecideInput) (*models.Quotation, error)
}

type service struct {
	repo Repository
}

// NewService builds a quotations service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotations repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetForBooking(ctx context.Context, bookingID uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.Quotation, error) {
	booking, err := s.loadBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !actorRole.IsStaff() && booking.CustomerID != actorCustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another customer")
	}

	quotation, err := s.repo.FindByBookingID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quotation")
	}
	return quotation, nil
}

func (s *service) Decide(ctx context.Context, input DecideInput) (*models.Quotation, error) {
	if input.Decision != DecisionApprove && input.Decision != DecisionReject {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "decision must be approve or reject")
	}

	booking, err := s.loadBooking(ctx, input.BookingID)
	if err != nil {
		return nil, err
	}
	// Approval is the customer's call alone; staff cannot answer for them.
	if input.ActorRole != enums.UserRoleCustomer || booking.CustomerID != input.ActorCustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only the booking customer can decide the quotation")
	}

	quotation, err := s.repo.FindByBookingID(ctx, input.BookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "quotation not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load quotation")
	}
	if quotation.Status != enums.QuotationStatusPendingApproval {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "quotation is not awaiting approval")
	}

	status := enums.QuotationStatusApproved
	if input.Decision == DecisionReject {
		status = enums.QuotationStatusRejected
	}
	if err := s.repo.UpdateStatus(ctx, quotation.ID, status.String()); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update quotation status")
	}
	quotation.Status = status
	return quotation, nil
}

func (s *service) loadBooking(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
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
	return booking, nil
}
