package bookings

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// BookingFilters describe the inputs supported by the bookings list.
type BookingFilters struct {
	CustomerID *uuid.UUID
	Status     *enums.BookingStatus
}

// Repository defines persistence operations for bookings.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, booking *models.Booking) (*models.Booking, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error)
	List(ctx context.Context, filters BookingFilters) ([]models.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error
	FindMotorcycleByID(ctx context.Context, id uuid.UUID) (*models.Motorcycle, error)
	FindJobByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.RepairJob, error)
	CreateJob(ctx context.Context, job *models.RepairJob) (*models.RepairJob, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a bookings repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, booking *models.Booking) (*models.Booking, error) {
	if err := r.db.WithContext(ctx).Create(booking).Error; err != nil {
		return nil, err
	}
	return booking, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Preload("Motorcycle").
		Preload("RepairJob").
		Where("id = ?", id).
		First(&booking).Error
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) List(ctx context.Context, filters BookingFilters) ([]models.Booking, error) {
	query := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Preload("Motorcycle")
	if filters.CustomerID != nil {
		query = query.Where("customer_id = ?", *filters.CustomerID)
	}
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	var bookings []models.Booking
	if err := query.Order("booking_time DESC").Find(&bookings).Error; err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status enums.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *repository) FindMotorcycleByID(ctx context.Context, id uuid.UUID) (*models.Motorcycle, error) {
	var m models.Motorcycle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindJobByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.RepairJob, error) {
	var job models.RepairJob
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) CreateJob(ctx context.Context, job *models.RepairJob) (*models.RepairJob, error) {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}
