package repairs

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/internal/inventory"
	"github.com/3est3est/motorcycle-service/pkg/db/models"
)

type partInventoryImpl struct {
	repo inventory.Repository
}

// NewPartInventory adapts the parts catalog repository for job-side stock moves.
func NewPartInventory(repo inventory.Repository) (PartInventory, error) {
	if repo == nil {
		return nil, fmt.Errorf("inventory repository required")
	}
	return &partInventoryImpl{repo: repo}, nil
}

func (p *partInventoryImpl) FindPart(ctx context.Context, tx *gorm.DB, partID uuid.UUID) (*models.Part, error) {
	return p.repo.WithTx(tx).FindPartByID(ctx, partID)
}

func (p *partInventoryImpl) Consume(ctx context.Context, tx *gorm.DB, partID uuid.UUID, qty int) (bool, error) {
	return p.repo.WithTx(tx).ConsumeStock(ctx, partID, qty)
}

func (p *partInventoryImpl) Restore(ctx context.Context, tx *gorm.DB, partID uuid.UUID, qty int) error {
	return p.repo.WithTx(tx).RestoreStock(ctx, partID, qty)
}
