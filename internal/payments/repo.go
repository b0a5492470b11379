package payments

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	"github.com/3est3est/motorcycle-service/pkg/pagination"
)

// PaymentFilters describe the inputs supported by the payments list.
type PaymentFilters struct {
	Status *enums.PaymentStatus
}

// PaymentList is one page of the payment ledger.
type PaymentList struct {
	Payments   []models.Payment `json:"payments"`
	NextCursor string           `json:"next_cursor,omitempty"`
}

// Repository defines persistence operations for payments.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, payment *models.Payment) (*models.Payment, error)
	FindByJobID(ctx context.Context, jobID uuid.UUID) (*models.Payment, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]any) error
	List(ctx context.Context, filters PaymentFilters, params pagination.Params) (*PaymentList, error)
	FindJobWithBooking(ctx context.Context, jobID uuid.UUID) (*models.RepairJob, error)
	UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status enums.RepairStatus) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a payments repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) Create(ctx context.Context, payment *models.Payment) (*models.Payment, error) {
	if err := r.db.WithContext(ctx).Create(payment).Error; err != nil {
		return nil, err
	}
	return payment, nil
}

func (r *repository) FindByJobID(ctx context.Context, jobID uuid.UUID) (*models.Payment, error) {
	var payment models.Payment
	if err := r.db.WithContext(ctx).Where("repair_job_id = ?", jobID).First(&payment).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]any) error {
	return r.db.WithContext(ctx).
		Model(&models.Payment{}).
		Where("id = ?", id).
		Updates(updates).Error
}

func (r *repository) List(ctx context.Context, filters PaymentFilters, params pagination.Params) (*PaymentList, error) {
	query := r.db.WithContext(ctx).Model(&models.Payment{})
	if filters.Status != nil {
		query = query.Where("status = ?", *filters.Status)
	}

	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, err
	}
	if cursor != nil {
		query = query.Where("(created_at, id) < (?, ?)", cursor.CreatedAt, cursor.ID)
	}

	limit := pagination.NormalizeLimit(params.Limit)
	var payments []models.Payment
	if err := query.
		Order("created_at DESC, id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&payments).Error; err != nil {
		return nil, err
	}

	result := &PaymentList{Payments: payments}
	if len(payments) > limit {
		result.Payments = payments[:limit]
		last := result.Payments[limit-1]
		result.NextCursor = pagination.EncodeCursor(pagination.Cursor{CreatedAt: last.CreatedAt, ID: last.ID})
	}
	return result, nil
}

func (r *repository) FindJobWithBooking(ctx context.Context, jobID uuid.UUID) (*models.RepairJob, error) {
	var job models.RepairJob
	err := r.db.WithContext(ctx).
		Preload("Booking").
		Where("id = ?", jobID).
		First(&job).Error
	if err != nil {
		return nil, err
	}
	return &job, nil
}

func (r *repository) UpdateJobStatus(ctx context.Context, jobID uuid.UUID, status enums.RepairStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.RepairJob{}).
		Where("id = ?", jobID).
		Update("status", status).Error
}
