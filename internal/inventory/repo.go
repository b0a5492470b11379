package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
)

type repository struct {
	db *gorm.DB
}

// NewRepository builds a parts repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) CreatePart(ctx context.Context, part *models.Part) (*models.Part, error) {
	if err := r.db.WithContext(ctx).Create(part).Error; err != nil {
		return nil, err
	}
	return part, nil
}

func (r *repository) FindPartByID(ctx context.Context, id uuid.UUID) (*models.Part, error) {
	var part models.Part
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&part).Error
	if err != nil {
		return nil, err
	}
	return &part, nil
}

func (r *repository) ListParts(ctx context.Context, filters PartFilters) ([]models.Part, error) {
	query := r.db.WithContext(ctx).Model(&models.Part{})
	if filters.Query != "" {
		query = query.Where("name LIKE ?", "%"+filters.Query+"%")
	}
	if filters.InStockOnly {
		query = query.Where("stock_qty > 0")
	}

	var parts []models.Part
	if err := query.Order("name ASC").Find(&parts).Error; err != nil {
		return nil, err
	}
	return parts, nil
}

func (r *repository) UpdatePart(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Part{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) DeletePart(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&models.Part{}).Error
}

// ConsumeStock decrements atomically and reports whether enough stock was
// available. The guard in the WHERE clause is what keeps stock_qty >= 0
// under concurrent consumption.
func (r *repository) ConsumeStock(ctx context.Context, partID uuid.UUID, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE parts
		SET stock_qty = stock_qty - ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND stock_qty >= ?
	`, qty, partID, qty)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) RestoreStock(ctx context.Context, partID uuid.UUID, qty int) error {
	return r.db.WithContext(ctx).Exec(`
		UPDATE parts
		SET stock_qty = stock_qty + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, qty, partID).Error
}

func (r *repository) CountRepairUsage(ctx context.Context, partID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.RepairPart{}).
		Where("part_id = ?", partID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}
