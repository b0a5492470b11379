package payments

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
	"github.com/3est3est/motorcycle-service/pkg/pagination"
)

// LoyaltyEarner credits reward points when a payment settles.
type LoyaltyEarner interface {
	Earn(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, paymentID uuid.UUID, points int) error
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// SettleInput captures a staff-confirmed payment.
type SettleInput struct {
	JobID     uuid.UUID
	Method    enums.PaymentMethod
	ActorRole enums.UserRole
}

// Service defines payment operations.
type Service interface {
	Settle(ctx context.Context, input SettleInput) (*models.Payment, error)
	GetForJob(ctx context.Context, jobID uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.Payment, error)
	List(ctx context.Context, filters PaymentFilters, params pagination.Params, actorRole enums.UserRole) (*PaymentList, error)
}

type service struct {
	repo        Repository
	tx          txRunner
	loyalty     LoyaltyEarner
	earnDivisor int64
	now         func() time.Time
}

// NewService builds a payments service. earnDivisor is the amount of money
// that earns one loyalty point.
func NewService(repo Repository, tx txRunner, loyalty LoyaltyEarner, earnDivisor int64) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("payments repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if loyalty == nil {
		return nil, fmt.Errorf("loyalty earner required")
	}
	if earnDivisor <= 0 {
		return nil, fmt.Errorf("earn divisor must be positive")
	}
	return &service{
		repo:        repo,
		tx:          tx,
		loyalty:     loyalty,
		earnDivisor: earnDivisor,
		now:         time.Now,
	}, nil
}

// Settle confirms the money arrived. Points are credited in the same
// transaction, and the already-success guard keeps the whole flow
// exactly-once under retries.
func (s *service) Settle(ctx context.Context, input SettleInput) (*models.Payment, error) {
	if !input.ActorRole.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if input.JobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}
	if !input.Method.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	var result *models.Payment
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		payment, err := repo.FindByJobID(ctx, input.JobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
		}
		if payment.Status == enums.PaymentStatusSuccess {
			return pkgerrors.New(pkgerrors.CodeAlreadySettled, "payment already settled")
		}

		now := s.now()
		updates := map[string]any{
			"status":  enums.PaymentStatusSuccess,
			"method":  input.Method,
			"paid_at": now,
		}
		if err := repo.Update(ctx, payment.ID, updates); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "settle payment")
		}
		payment.Status = enums.PaymentStatusSuccess
		payment.Method = input.Method
		payment.PaidAt = &now

		job, err := repo.FindJobWithBooking(ctx, input.JobID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
		}
		if job.Status != enums.RepairStatusDelivered {
			if err := repo.UpdateJobStatus(ctx, job.ID, enums.RepairStatusDelivered); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "mark job delivered")
			}
		}
		if job.Booking == nil {
			return pkgerrors.New(pkgerrors.CodeInternal, "job has no booking")
		}

		points := int(payment.Amount.Div(decimal.NewFromInt(s.earnDivisor)).Floor().IntPart())
		if points > 0 {
			if err := s.loyalty.Earn(ctx, tx, job.Booking.CustomerID, payment.ID, points); err != nil {
				return err
			}
		}

		result = payment
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) GetForJob(ctx context.Context, jobID uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.Payment, error) {
	if jobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}

	if !actorRole.IsStaff() {
		job, err := s.repo.FindJobWithBooking(ctx, jobID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "repair job not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load job")
		}
		if job.Booking == nil || job.Booking.CustomerID != actorCustomerID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "job belongs to another customer")
		}
	}

	payment, err := s.repo.FindByJobID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "payment not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load payment")
	}
	return payment, nil
}

func (s *service) List(ctx context.Context, filters PaymentFilters, params pagination.Params, actorRole enums.UserRole) (*PaymentList, error) {
	if !actorRole.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	page, err := s.repo.List(ctx, filters, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list payments")
	}
	return page, nil
}
