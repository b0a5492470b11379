package dashboard

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

const (
	defaultLowStockThreshold = 5
	defaultListLimit         = 5
)

// GetInput names the actor asking for their dashboard.
type GetInput struct {
	ActorCustomerID uuid.UUID
	ActorRole       enums.UserRole
}

// Service assembles the role-shaped dashboard payload.
type Service interface {
	Get(ctx context.Context, input GetInput) (*Dashboard, error)
}

type service struct {
	repo              Repository
	lowStockThreshold int
	now               func() time.Time
}

// NewService builds a dashboard service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("dashboard repository required")
	}
	return &service{
		repo:              repo,
		lowStockThreshold: defaultLowStockThreshold,
		now:               time.Now,
	}, nil
}

func (s *service) Get(ctx context.Context, input GetInput) (*Dashboard, error) {
	if input.ActorRole.IsStaff() {
		return s.staff(ctx)
	}
	if input.ActorCustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	return s.customer(ctx, input.ActorCustomerID)
}

func (s *service) staff(ctx context.Context) (*Dashboard, error) {
	pending, err := s.repo.CountBookingsByStatus(ctx, enums.BookingStatusPending)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count pending bookings")
	}
	active, err := s.repo.CountActiveRepairs(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count active repairs")
	}
	lowStock, err := s.repo.ListLowStockParts(ctx, s.lowStockThreshold, defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list low stock parts")
	}
	revenue, err := s.repo.SumCollectedRevenue(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "sum collected revenue")
	}
	next, err := s.repo.ListUpcomingPendingBookings(ctx, s.now().UTC(), defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list upcoming bookings")
	}

	return &Dashboard{
		Kind: KindStaff,
		Staff: &StaffDashboard{
			PendingBookings:  pending,
			ActiveRepairs:    active,
			LowStockParts:    lowStock,
			CollectedRevenue: revenue,
			NextBookings:     next,
		},
	}, nil
}

func (s *service) customer(ctx context.Context, customerID uuid.UUID) (*Dashboard, error) {
	total, err := s.repo.CountBookingsForCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "count bookings")
	}
	recent, err := s.repo.ListRecentBookingsForCustomer(ctx, customerID, defaultListLimit)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list recent bookings")
	}
	repairs, err := s.repo.ListActiveRepairsForCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list active repairs")
	}
	points, err := s.repo.PointsBalance(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load points balance")
	}

	return &Dashboard{
		Kind: KindCustomer,
		Customer: &CustomerDashboard{
			TotalBookings:  total,
			RecentBookings: recent,
			ActiveRepairs:  repairs,
			PointsBalance:  points,
		},
	}, nil
}
