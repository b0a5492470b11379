package motorcycles

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
)

// Repository defines persistence operations for customer vehicles.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, m *models.Motorcycle) (*models.Motorcycle, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Motorcycle, error)
	FindByPlate(ctx context.Context, plate string) (*models.Motorcycle, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Motorcycle, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	Delete(ctx context.Context, id uuid.UUID) error
	CountBookings(ctx context.Context, motorcycleID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a motorcycle repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, m *models.Motorcycle) (*models.Motorcycle, error) {
	if err := r.db.WithContext(ctx).Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Motorcycle, error) {
	var m models.Motorcycle
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) FindByPlate(ctx context.Context, plate string) (*models.Motorcycle, error) {
	var m models.Motorcycle
	if err := r.db.WithContext(ctx).Where("license_plate = ?", plate).First(&m).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

func (r *repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Motorcycle, error) {
	var out []models.Motorcycle
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at ASC").
		Find(&out).Error
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Motorcycle{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Motorcycle{}).Error
}

func (r *repository) CountBookings(ctx context.Context, motorcycleID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("motorcycle_id = ?", motorcycleID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
