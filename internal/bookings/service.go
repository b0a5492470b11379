package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// CreateInput captures a customer's repair slot request.
type CreateInput struct {
	CustomerID   uuid.UUID
	MotorcycleID uuid.UUID
	BookingTime  time.Time
	SymptomNote  *string
}

// SetStatusInput captures a booking status change request.
type SetStatusInput struct {
	BookingID       uuid.UUID
	Target          enums.BookingStatus
	ActorCustomerID uuid.UUID
	ActorRole       enums.UserRole
}

// Service defines booking operations.
type Service interface {
	Create(ctx context.Context, input CreateInput) (*models.Booking, error)
	Get(ctx context.Context, id uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.Booking, error)
	List(ctx context.Context, filters BookingFilters) ([]models.Booking, error)
	SetStatus(ctx context.Context, input SetStatusInput) (*models.Booking, error)
}

type service struct {
	repo Repository
	tx   txRunner
	now  func() time.Time
}

// NewService builds a bookings service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("bookings repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx, now: time.Now}, nil
}

func (s *service) Create(ctx context.Context, input CreateInput) (*models.Booking, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.MotorcycleID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "motorcycle id required")
	}
	if input.BookingTime.Before(s.now()) {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking time must be in the future")
	}

	motorcycle, err := s.repo.FindMotorcycleByID(ctx, input.MotorcycleID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "motorcycle not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load motorcycle")
	}
	if motorcycle.CustomerID != input.CustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "motorcycle belongs to another customer")
	}

	booking := &models.Booking{
		CustomerID:   input.CustomerID,
		MotorcycleID: input.MotorcycleID,
		BookingTime:  input.BookingTime,
		SymptomNote:  input.SymptomNote,
		Status:       enums.BookingStatusPending,
	}
	created, err := s.repo.Create(ctx, booking)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create booking")
	}
	return created, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.Booking, error) {
	booking, err := s.load(ctx, s.repo, id)
	if err != nil {
		return nil, err
	}
	if !actorRole.IsStaff() && booking.CustomerID != actorCustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another customer")
	}
	return booking, nil
}

func (s *service) List(ctx context.Context, filters BookingFilters) ([]models.Booking, error) {
	bookings, err := s.repo.List(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list bookings")
	}
	return bookings, nil
}

// SetStatus moves the booking forward. Confirming also opens the repair
// job; the booking_id unique key backs up the exists-check so a double
// confirm can never open two jobs.
func (s *service) SetStatus(ctx context.Context, input SetStatusInput) (*models.Booking, error) {
	if input.BookingID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "booking id required")
	}

	var result *models.Booking
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		booking, err := s.load(ctx, repo, input.BookingID)
		if err != nil {
			return err
		}

		switch input.Target {
		case enums.BookingStatusConfirmed:
			if !input.ActorRole.IsStaff() {
				return pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
			}
			if booking.Status != enums.BookingStatusPending {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending bookings can be confirmed")
			}
			if err := repo.UpdateStatus(ctx, booking.ID, enums.BookingStatusConfirmed); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm booking")
			}
			booking.Status = enums.BookingStatusConfirmed

			_, err := repo.FindJobByBookingID(ctx, booking.ID)
			switch {
			case err == nil:
				// job already opened by an earlier confirm
			case errors.Is(err, gorm.ErrRecordNotFound):
				job := &models.RepairJob{
					BookingID: booking.ID,
					Status:    enums.RepairStatusCreated,
				}
				if _, err := repo.CreateJob(ctx, job); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "open repair job")
				}
			default:
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check repair job")
			}

		case enums.BookingStatusCancelled:
			if !input.ActorRole.IsStaff() && booking.CustomerID != input.ActorCustomerID {
				return pkgerrors.New(pkgerrors.CodeForbidden, "booking belongs to another customer")
			}
			if booking.Status != enums.BookingStatusPending {
				return pkgerrors.New(pkgerrors.CodeStateConflict, "only pending bookings can be cancelled directly")
			}
			if err := repo.UpdateStatus(ctx, booking.ID, enums.BookingStatusCancelled); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel booking")
			}
			booking.Status = enums.BookingStatusCancelled

		default:
			// completed is driven by the repair job, never set directly
			return pkgerrors.New(pkgerrors.CodeValidation, "unsupported booking status change")
		}

		result = booking
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) load(ctx context.Context, repo Repository, id uuid.UUID) (*models.Booking, error) {
	booking, err := repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "booking not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	return booking, nil
}
