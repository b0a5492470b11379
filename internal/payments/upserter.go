package payments

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

// Upserter creates or refreshes the payment row for a delivered job. Each
// job carries at most one payment; re-delivery refreshes the amount while
// the payment is still pending.
type Upserter interface {
	UpsertForJob(ctx context.Context, tx *gorm.DB, job *models.RepairJob, quotation *models.Quotation) (*models.Payment, error)
}

type upserter struct {
	repo Repository
}

// NewUpserter constructs the default payment upserter.
func NewUpserter(repo Repository) (Upserter, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	return &upserter{repo: repo}, nil
}

func (u *upserter) UpsertForJob(ctx context.Context, tx *gorm.DB, job *models.RepairJob, quotation *models.Quotation) (*models.Payment, error) {
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "transaction required for payment upsert")
	}
	if job == nil || quotation == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job and quotation required")
	}

	repo := u.repo.WithTx(tx)
	existing, err := repo.FindByJobID(ctx, job.ID)
	switch {
	case err == nil:
		if existing.Status == enums.PaymentStatusSuccess {
			return existing, nil
		}
		if err := repo.Update(ctx, existing.ID, map[string]any{"amount": quotation.TotalAmount}); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "refresh payment amount")
		}
		existing.Amount = quotation.TotalAmount
		return existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		payment := &models.Payment{
			RepairJobID: job.ID,
			Amount:      quotation.TotalAmount,
			Method:      enums.PaymentMethodCash,
			Status:      enums.PaymentStatusPending,
		}
		created, err := repo.Create(ctx, payment)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create payment")
		}
		return created, nil
	default:
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
}
