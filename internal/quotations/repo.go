package quotations

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
)

// Repository defines persistence operations for quotations and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBookingByID(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Quotation, error)
	DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error
	Create(ctx context.Context, quotation *models.Quotation) (*models.Quotation, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a quotations repository bound to the provided DB.
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

func (r *repository) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.Quotation, error) {
	var quotation models.Quotation
	err := r.db.WithContext(ctx).
		Preload("Items").
		Where("booking_id = ?", bookingID).
		First(&quotation).Error
	if err != nil {
		return nil, err
	}
	return &quotation, nil
}

// DeleteByBookingID removes a booking's quotation and all of its lines so a
// rebuild can reinsert from scratch.
func (r *repository) DeleteByBookingID(ctx context.Context, bookingID uuid.UUID) error {
	var quotation models.Quotation
	err := r.db.WithContext(ctx).Where("booking_id = ?", bookingID).First(&quotation).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return err
	}
	if err := r.db.WithContext(ctx).
		Where("quotation_id = ?", quotation.ID).
		Delete(&models.QuotationItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&quotation).Error
}

func (r *repository) Create(ctx context.Context, quotation *models.Quotation) (*models.Quotation, error) {
	if err := r.db.WithContext(ctx).Create(quotation).Error; err != nil {
		return nil, err
	}
	return quotation, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id uuid.UUID, status string) error {
	return r.db.WithContext(ctx).
		Model(&models.Quotation{}).
		Where("id = ?", id).
		Update("status", status).Error
}
