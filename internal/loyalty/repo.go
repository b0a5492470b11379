package loyalty

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
)

// Repository defines persistence operations for loyalty balances and their
// audit trail.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindBalanceByCustomerID(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyPoints, error)
	CreateBalance(ctx context.Context, balance *models.LoyaltyPoints) (*models.LoyaltyPoints, error)
	AddPoints(ctx context.Context, balanceID uuid.UUID, delta int) (bool, error)
	CreateTransaction(ctx context.Context, txn *models.PointTransaction) (*models.PointTransaction, error)
	ListTransactions(ctx context.Context, balanceID uuid.UUID) ([]models.PointTransaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a loyalty repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindBalanceByCustomerID(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyPoints, error) {
	var balance models.LoyaltyPoints
	if err := r.db.WithContext(ctx).Where("customer_id = ?", customerID).First(&balance).Error; err != nil {
		return nil, err
	}
	return &balance, nil
}

func (r *repository) CreateBalance(ctx context.Context, balance *models.LoyaltyPoints) (*models.LoyaltyPoints, error) {
	if err := r.db.WithContext(ctx).Create(balance).Error; err != nil {
		return nil, err
	}
	return balance, nil
}

// AddPoints applies a signed delta and reports whether the balance stayed
// non-negative. Debits that would overdraw the balance do not apply.
func (r *repository) AddPoints(ctx context.Context, balanceID uuid.UUID, delta int) (bool, error) {
	res := r.db.WithContext(ctx).Exec(`
		UPDATE loyalty_points
		SET total_points = total_points + ?,
			updated_at = CURRENT_TIMESTAMP
		WHERE id = ? AND total_points + ? >= 0
	`, delta, balanceID, delta)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.PointTransaction) (*models.PointTransaction, error) {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *repository) ListTransactions(ctx context.Context, balanceID uuid.UUID) ([]models.PointTransaction, error) {
	var txns []models.PointTransaction
	err := r.db.WithContext(ctx).
		Where("loyalty_points_id = ?", balanceID).
		Order("created_at DESC").
		Find(&txns).Error
	if err != nil {
		return nil, err
	}
	return txns, nil
}
