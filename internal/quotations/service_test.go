package quotations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

type stubQuotationsRepo struct {
	bookings  map[uuid.UUID]*models.Booking
	byBooking map[uuid.UUID]*models.Quotation
}

func newStubQuotationsRepo() *stubQuotationsRepo {
	return &stubQuotationsRepo{
		bookings:  make(map[uuid.UUID]*models.Booking),
		byBooking: make(map[uuid.UUID]*models.Quotation),
	}
}

func (s *stubQuotationsRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubQuotationsRepo) FindBookingByID(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	booking, ok := s.bookings[bookingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return booking, nil
}

func (s *stubQuotationsRepo) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Quotation, error) {
	quotation, ok := s.byBooking[bookingID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return quotation, nil
}

func (s *stubQuotationsRepo) DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error {
	delete(s.byBooking, bookingID)
	return nil
}

func (s *stubQuotationsRepo) Create(ctx context.Context, quotation *models.Quotation) (*models.Quotation, error) {
	if quotation.ID == uuid.Nil {
		quotation.ID = uuid.New()
	}
	s.byBooking[quotation.BookingID] = quotation
	return quotation, nil
}

func (s *stubQuotationsRepo) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	for _, quotation := range s.byBooking {
		if quotation.ID == id {
			quotation.Status = enums.QuotationStatus(status)
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

func seedPendingQuotation(repo *stubQuotationsRepo) (*models.Booking, *models.Quotation) {
	booking := &models.Booking{ID: uuid.New(), CustomerID: uuid.New(), Status: enums.BookingStatusCompleted}
	repo.bookings[booking.ID] = booking
	quotation := &models.Quotation{
		ID:          uuid.New(),
		BookingID:   booking.ID,
		TotalAmount: decimal.NewFromInt(900),
		Status:      enums.QuotationStatusPendingApproval,
	}
	repo.byBooking[booking.ID] = quotation
	return booking, quotation
}

func TestDecideApproves(t *testing.T) {
	repo := newStubQuotationsRepo()
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	booking, _ := seedPendingQuotation(repo)

	quotation, err := svc.Decide(context.Background(), DecideInput{
		BookingID:       booking.ID,
		Decision:        DecisionApprove,
		ActorCustomerID: booking.CustomerID,
		ActorRole:       enums.UserRoleCustomer,
	})
	if err != nil {
		t.Fatalf("decide: %v", err)
	}
	if quotation.Status != enums.QuotationStatusApproved {
		t.Fatalf("expected approved, got %s", quotation.Status)
	}
}

func TestDecideRejectsSecondAnswer(t *testing.T) {
	repo := newStubQuotationsRepo()
	svc, _ := NewService(repo)
	booking, quotation := seedPendingQuotation(repo)
	quotation.Status = enums.QuotationStatusRejected

	_, err := svc.Decide(context.Background(), DecideInput{
		BookingID:       booking.ID,
		Decision:        DecisionApprove,
		ActorCustomerID: booking.CustomerID,
		ActorRole:       enums.UserRoleCustomer,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestDecideOnlyByBookingCustomer(t *testing.T) {
	repo := newStubQuotationsRepo()
	svc, _ := NewService(repo)
	booking, _ := seedPendingQuotation(repo)

	_, err := svc.Decide(context.Background(), DecideInput{
		BookingID:       booking.ID,
		Decision:        DecisionApprove,
		ActorCustomerID: uuid.New(),
		ActorRole:       enums.UserRoleCustomer,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden for other customer, got %v", err)
	}

	_, err = svc.Decide(context.Background(), DecideInput{
		BookingID:       booking.ID,
		Decision:        DecisionApprove,
		ActorCustomerID: booking.CustomerID,
		ActorRole:       enums.UserRoleStaff,
	})
	if !pkgerrors.HasCode(err, pkgerrors.CodeForbidden) {
		t.Fatalf("expected forbidden for staff, got %v", err)
	}
}

func TestGetForBookingNotFound(t *testing.T) {
	repo := newStubQuotationsRepo()
	svc, _ := NewService(repo)
	booking := &models.Booking{ID: uuid.New(), CustomerID: uuid.New()}
	repo.bookings[booking.ID] = booking

	_, err := svc.GetForBooking(context.Background(), booking.ID, booking.CustomerID, enums.UserRoleCustomer)
	if !pkgerrors.HasCode(err, pkgerrors.CodeNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
