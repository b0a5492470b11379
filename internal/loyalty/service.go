package loyalty

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// RedeemInput captures a customer spending points.
type RedeemInput struct {
	CustomerID  uuid.UUID
	Points      int
	Description *string
}

// Service defines loyalty balance operations.
type Service interface {
	GetBalance(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyPoints, error)
	History(ctx context.Context, customerID uuid.UUID) ([]models.PointTransaction, error)
	Redeem(ctx context.Context, input RedeemInput) (*models.LoyaltyPoints, error)
	Earn(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, paymentID uuid.UUID, points int) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds a loyalty service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("loyalty repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// GetBalance returns the customer's balance, treating a missing row as zero.
func (s *service) GetBalance(ctx context.Context, customerID uuid.UUID) (*models.LoyaltyPoints, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	balance, err := s.repo.FindBalanceByCustomerID(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &models.LoyaltyPoints{CustomerID: customerID, TotalPoints: 0}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load balance")
	}
	return balance, nil
}

func (s *service) History(ctx context.Context, customerID uuid.UUID) ([]models.PointTransaction, error) {
	balance, err := s.GetBalance(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if balance.ID == uuid.Nil {
		return []models.PointTransaction{}, nil
	}
	txns, err := s.repo.ListTransactions(ctx, balance.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list transactions")
	}
	return txns, nil
}

func (s *service) Redeem(ctx context.Context, input RedeemInput) (*models.LoyaltyPoints, error) {
	if input.CustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}
	if input.Points <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "points must be positive")
	}

	var result *models.LoyaltyPoints
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		balance, err := repo.FindBalanceByCustomerID(ctx, input.CustomerID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeInsufficientPoints, "not enough points")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load balance")
		}

		ok, err := repo.AddPoints(ctx, balance.ID, -input.Points)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "debit points")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientPoints, "not enough points")
		}

		txn := &models.PointTransaction{
			LoyaltyPointsID: balance.ID,
			EventType:       enums.PointEventRedeem,
			Points:          -input.Points,
			Description:     input.Description,
		}
		if _, err := repo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record redemption")
		}

		balance.TotalPoints -= input.Points
		result = balance
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Earn credits points inside the caller's transaction, creating the balance
// row on first earn.
func (s *service) Earn(ctx context.Context, tx *gorm.DB, customerID uuid.UUID, paymentID uuid.UUID, points int) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeDependency, "transaction required for earn")
	}
	if points <= 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "points must be positive")
	}

	repo := s.repo.WithTx(tx)
	balance, err := repo.FindBalanceByCustomerID(ctx, customerID)
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load balance")
		}
		balance, err = repo.CreateBalance(ctx, &models.LoyaltyPoints{CustomerID: customerID})
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create balance")
		}
	}

	if _, err := repo.AddPoints(ctx, balance.ID, points); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "credit points")
	}

	txn := &models.PointTransaction{
		LoyaltyPointsID: balance.ID,
		PaymentID:       &paymentID,
		EventType:       enums.PointEventEarn,
		Points:          points,
	}
	if _, err := repo.CreateTransaction(ctx, txn); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record earn")
	}
	return nil
}
