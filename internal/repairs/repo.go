package repairs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// JobFilters describe the inputs supported by the jobs list.
type JobFilters struct {
	Status     *enums.RepairStatus
	CustomerID *uuid.UUID
	StaffID    *uuid.UUID
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a repairs repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreateJob(ctx context.Context, job *models.RepairJob) (*models.RepairJob, error) {
	if err := r.db.WithContext(ctx).Create(job).Error; err != nil {
		return nil, err
	}
	return job, nil
}

func (r *repository) FindJobByID(ctx context.Context, id uuid.UUID) (*models.RepairJob, error) {
	var job models.RepairJob
	err := r.db.WithContext(ctx).
		Preload("Parts.Part").
		Preload("Booking").
		Where("id = ?", id).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) FindJobByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.RepairJob, error) {
	var job models.RepairJob
	err := r.db.WithContext(ctx).
		Preload("Parts.Part").
		Where("booking_id = ?", bookingID).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) ListJobs(ctx context.Context, filters JobFilters) ([]models.RepairJob, error) {
	query := r.db.WithContext(ctx).
		Model(&models.RepairJob{}).
		Preload("Booking")
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}
	if filters.StaffID != nil {
		query = query.Where("assigned_staff_id = ?", *filters.StaffID)
	}
	if filters.CustomerID != nil {
		query = query.Joins("JOIN bookings ON bookings.id = repair_jobs.booking_id").
			Where("bookings.customer_id = ?", *filters.CustomerID)
	}

	var jobs []models.RepairJob
	if err := query.Order("repair_jobs.created_at DESC").Find(&jobs).Error; err != nil {
		return nil, err
	}
	return jobs, nil
}

func (r *repository) UpdateJob(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.RepairJob{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) CreateRepairPart(ctx context.Context, part *models.RepairPart) (*models.RepairPart, error) {
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return nil, err
	}
	return part, nil
}

func (r *repository) FindRepairPart(ctx context.Context, id uuid.UUID) (*models.RepairPart, error) {
	var part models.RepairPart
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&part).Error; err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) DeleteRepairPart(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.RepairPart{}).Error
}

func (r *repository) UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status enums.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", bookingID).
		Update("status", status).Error
}

func (r *repository) HasEstimateForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Estimate{}).
		Where("booking_id = ?", bookingID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) FindBookingByID(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", bookingID).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}
