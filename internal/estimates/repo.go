package estimates

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
)

// Repository defines persistence operations for booking estimates.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBookingByID(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Estimate, error)
	Create(ctx context.Context, estimate *models.Estimate) (*models.Estimate, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds an estimates repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindBookingByID(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", bookingID).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *repository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Estimate, error) {
	var estimate models.Estimate
	if err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&estimate).Error; err != nil {
		return nil, err
	}
	return &estimate, nil
}

func (r *repository) Create(ctx context.Context, estimate *models.Estimate) (*models.Estimate, error) {
	if err := r.db.WithContext(ctx).Create(estimate).Error; err != nil {
		return nil, err
	}
	return estimate, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Estimate{}).
		Where("id = ?", id).
		Updates(updates).Error
}
