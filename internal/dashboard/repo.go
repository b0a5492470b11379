package dashboard

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// Repository defines the read-side aggregates backing the dashboard.
type Repository interface {
	CountBookingsByStatus(ctx context.Context, status enums.BookingStatus) (int64, error)
	CountActiveRepairs(ctx context.Context) (int64, error)
	ListLowStockParts(ctx context.Context, threshold int, limit int) ([]models.Part, error)
	SumCollectedRevenue(ctx context.Context) (decimal.Decimal, error)
	ListUpcomingPendingBookings(ctx context.Context, after time.Time, limit int) ([]models.Booking, error)
	CountBookingsForCustomer(ctx context.Context, customerID uuid.UUID) (int64, error)
	ListRecentBookingsForCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]models.Booking, error)
	ListActiveRepairsForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.RepairJob, error)
	PointsBalance(ctx context.Context, customerID uuid.UUID) (int, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a dashboard repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

var activeRepairStatuses = []enums.RepairStatus{
	enums.RepairStatusCreated,
	enums.RepairStatusInProgress,
}

func (r *repository) CountBookingsByStatus(ctx context.Context, status enums.BookingStatus) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("status = ?", status).
		Count(&count).Error
	return count, err
}

func (r *repository) CountActiveRepairs(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RepairJob{}).
		Where("status IN ?", activeRepairStatuses).
		Count(&count).Error
	return count, err
}

func (r *repository) ListLowStockParts(ctx context.Context, threshold int, limit int) ([]models.Part, error) {
	var parts []models.Part
	err := r.db.WithContext(ctx).
		Where("stock_qty <= ?", threshold).
		Order("stock_qty ASC").
		Limit(limit).
		Find(&parts).Error
	return parts, err
}

func (r *repository) SumCollectedRevenue(ctx context.Context) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("status = ?", enums.PaymentStatusSuccess).
		Select("SUM(amount)").
		Scan(&total).Error
	if err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repository) ListUpcomingPendingBookings(ctx context.Context, after time.Time, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Motorcycle").
		Where("status = ? AND booking_time >= ?", enums.BookingStatusPending, after).
		Order("booking_time ASC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) CountBookingsForCustomer(ctx context.Context, customerID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("customer_id = ?", customerID).
		Count(&count).Error
	return count, err
}

func (r *repository) ListRecentBookingsForCustomer(ctx context.Context, customerID uuid.UUID, limit int) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Preload("Motorcycle").
		Where("customer_id = ?", customerID).
		Order("booking_time DESC").
		Limit(limit).
		Find(&bookings).Error
	return bookings, err
}

func (r *repository) ListActiveRepairsForCustomer(ctx context.Context, customerID uuid.UUID) ([]models.RepairJob, error) {
	var jobs []models.RepairJob
	err := r.db.WithContext(ctx).
		Joins("JOIN bookings ON bookings.id = repair_jobs.booking_id").
		Where("bookings.customer_id = ? AND repair_jobs.status IN ?", customerID, activeRepairStatuses).
		Preload("Booking").
		Find(&jobs).Error
	return jobs, err
}

func (r *repository) PointsBalance(ctx context.Context, customerID uuid.UUID) (int, error) {
	var balance models.LoyaltyPoints
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		First(&balance).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}
	return balance.TotalPoints, nil
}
