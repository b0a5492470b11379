package quotations

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

const laborLineDescription = "Labor"

// Builder rebuilds a booking's bill from the parts actually consumed on the
// job plus the labor charge. Rebuilding replaces any previous quotation, so
// the bill always reflects the latest recorded work.
type Builder interface {
	Rebuild(ctx context.Context, tx *gorm.DB, job *models.RepairJob) (*models.Quotation, error)
}

type builder struct {
	repo Repository
}

// NewBuilder constructs the default quotation builder.
func NewBuilder(repo Repository) (Builder, error) {
	if repo == nil {
		return nil, fmt.Errorf("quotations repository required")
	}
	return &builder{repo: repo}, nil
}

func (b *builder) Rebuild(ctx context.Context, tx *gorm.DB, job *models.RepairJob) (*models.Quotation, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for quotation rebuild")
	}
	if job == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repair job required")
	}

	repo := b.repo.WithTx(tx)
	if err := repo.DeleteByBookingID(ctx, job.BookingID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear previous quotation")
	}

	total := decimal.Zero
	var items []models.QuotationItem
	for _, rp := range job.Parts {
		description := "Part"
		if rp.Part != nil {
			description = rp.Part.Name
		}
		partID := rp.PartID
		items = append(items, models.QuotationItem{
			Description: fmt.Sprintf("%s x%d", description, rp.Quantity),
			PartID:      &partID,
			Quantity:    rp.Quantity,
			Amount:      rp.PriceTotal,
		})
		total = total.Add(rp.PriceTotal)
	}
	if job.LaborCost.IsPositive() {
		items = append(items, models.QuotationItem{
			Description: laborLineDescription,
			Amount:      job.LaborCost,
		})
		total = total.Add(job.LaborCost)
	}

	quotation := &models.Quotation{
		BookingID:   job.BookingID,
		TotalAmount: total,
		Status:      enums.QuotationStatusPendingApproval,
		Items:       items,
	}
	created, err := repo.Create(ctx, quotation)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert quotation")
	}
	return created, nil
}
