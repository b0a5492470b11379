package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
)

// Repository defines persistence operations for the parts catalog.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	CreatePart(ctx context.Context, part *models.Part) (*models.Part, error)
	FindPartByID(ctx context.Context, id uuid.UUID) (*models.Part, error)
	ListParts(ctx context.Context, filters PartFilters) ([]models.Part, error)
	UpdatePart(ctx context.Context, id uuid.UUID, updates map[string]any) error
	DeletePart(ctx context.Context, id uuid.UUID) error
	ConsumeStock(ctx context.Context, partID uuid.UUID, qty int) (bool, error)
	RestoreStock(ctx context.Context, partID uuid.UUID, qty int) error
	CountRepairUsage(ctx context.Context, partID uuid.UUID) (int64, error)
}
