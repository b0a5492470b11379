package repairs

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// Repository defines persistence operations for repair jobs and their parts.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreateJob(ctx context.Context, job *models.RepairJob) (*models.RepairJob, error)
	FindJobByID(ctx context.Context, id uuid.UUID) (*models.RepairJob, error)
	FindJobByBookingID(ctx context.Context, bookingID uuid.UUID) (*models.RepairJob, error)
	ListJobs(ctx context.Context, filters JobFilters) ([]models.RepairJob, error)
	UpdateJob(ctx context.Context, id uuid.UUID, updates map[string]any) error
	CreateRepairPart(ctx context.Context, part *models.RepairPart) (*models.RepairPart, error)
	FindRepairPart(ctx context.Context, id uuid.UUID) (*models.RepairPart, error)
	DeleteRepairPart(ctx context.Context, id uuid.UUID) error
	UpdateBookingStatus(ctx context.Context, bookingID uuid.UUID, status enums.BookingStatus) error
	FindBookingByID(ctx context.Context, bookingID uuid.UUID) (*models.Booking, error)
	HasEstimateForBooking(ctx context.Context, bookingID uuid.UUID) (bool, error)
}

// QuotationRebuilder regenerates the booking's bill from recorded work.
type QuotationRebuilder interface {
	Rebuild(ctx context.Context, tx *gorm.DB, job *models.RepairJob) (*models.Quotation, error)
}

// PaymentUpserter creates or refreshes the payment owed for a delivered job.
type PaymentUpserter interface {
	UpsertForJob(ctx context.Context, tx *gorm.DB, job *models.RepairJob, quotation *models.Quotation) (*models.Payment, error)
}

// PartInventory exposes the catalog operations a job needs when parts are
// drawn or returned.
type PartInventory interface {
	FindPart(ctx context.Context, tx *gorm.DB, partID uuid.UUID) (*models.Part, error)
	Consume(ctx context.Context, tx *gorm.DB, partID uuid.UUID, qty int) (bool, error)
	Restore(ctx context.Context, tx *gorm.DB, partID uuid.UUID, qty int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
