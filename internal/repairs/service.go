package repairs

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
)

// AdvanceStatusInput captures a staff-driven status change request.
type AdvanceStatusInput struct {
	JobID       uuid.UUID
	Target      enums.RepairStatus
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

// AddPartInput records a part drawn from inventory for a job.
type AddPartInput struct {
	JobID     uuid.UUID
	PartID    uuid.UUID
	Quantity  int
	ActorRole enums.UserRole
}

// RemovePartInput reverses a previously recorded part line.
type RemovePartInput struct {
	JobID        uuid.UUID
	RepairPartID uuid.UUID
	ActorRole    enums.UserRole
}

// UpdateDetailsInput carries the optional staff-editable job fields.
type UpdateDetailsInput struct {
	JobID           uuid.UUID
	LaborCost       *decimal.Decimal
	Note            *string
	AssignedStaffID *uuid.UUID
	Progress        *int
	ActorRole       enums.UserRole
}

// Service defines repair job operations.
type Service interface {
	AdvanceStatus(ctx context.Context, input AdvanceStatusInput) (*models.RepairJob, error)
	Cancel(ctx context.Context, jobID uuid.UUID, actorCustomerID uuid.UUID) (*models.RepairJob, error)
	AddPart(ctx context.Context, input AddPartInput) (*models.RepairPart, error)
	RemovePart(ctx context.Context, input RemovePartInput) error
	UpdateDetails(ctx context.Context, input UpdateDetailsInput) (*models.RepairJob, error)
	Confirm(ctx context.Context, jobID uuid.UUID, actorCustomerID uuid.UUID) (*models.RepairJob, error)
	GetJob(ctx context.Context, jobID uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.RepairJob, error)
	ListJobs(ctx context.Context, filters JobFilters) ([]models.RepairJob, error)
}

type service struct {
	repo      Repository
	tx        txRunner
	quotes    QuotationRebuilder
	payments  PaymentUpserter
	inventory PartInventory
	now       func() time.Time
}

// NewService builds a repairs service with the required dependencies.
func NewService(repo Repository, tx txRunner, quotes QuotationRebuilder, payments PaymentUpserter, inventory PartInventory) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("repairs repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if quotes == nil {
		return nil, fmt.Errorf("quotation rebuilder required")
	}
	if payments == nil {
		return nil, fmt.Errorf("payment upserter required")
	}
	if inventory == nil {
		return nil, fmt.Errorf("part inventory required")
	}
	return &service{
		repo:      repo,
		tx:        tx,
		quotes:    quotes,
		payments:  payments,
		inventory: inventory,
		now:       time.Now,
	}, nil
}

func (s *service) AdvanceStatus(ctx context.Context, input AdvanceStatusInput) (*models.RepairJob, error) {
	if !input.ActorRole.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if input.JobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}

	var result *models.RepairJob
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		job, err := s.loadJob(ctx, repo, input.JobID)
		if err != nil {
			return err
		}
		if err := s.applyTransition(ctx, tx, repo, job, input.Target); err != nil {
			return err
		}
		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Cancel is the customer's abort path: only the booking owner, only while
// the job is still in created. The booking cascade and stock restore run in
// the same transaction as the status change.
func (s *service) Cancel(ctx context.Context, jobID uuid.UUID, actorCustomerID uuid.UUID) (*models.RepairJob, error) {
	if jobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}
	if actorCustomerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer id required")
	}

	var result *models.RepairJob
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		job, err := s.loadJob(ctx, repo, jobID)
		if err != nil {
			return err
		}
		booking, err := repo.FindBookingByID(ctx, job.BookingID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}
		if booking.CustomerID != actorCustomerID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "job belongs to another customer")
		}
		if err := s.applyTransition(ctx, tx, repo, job, enums.RepairStatusCancelled); err != nil {
			return err
		}
		result = job
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// applyTransition validates the status change and applies every planned
// effect inside the caller's transaction, mutating job to match.
func (s *service) applyTransition(ctx context.Context, tx *gorm.DB, repo Repository, job *models.RepairJob, target enums.RepairStatus) error {
	effects, err := PlanTransition(job, target)
	if err != nil {
		return err
	}

	now := s.now()
	updates := map[string]any{"status": target}
	for _, effect := range effects {
		switch effect {
		case EffectRecordStart:
			updates["start_date"] = now
		case EffectRecordEnd:
			updates["end_date"] = now
			updates["progress"] = 100
		}
	}
	if err := repo.UpdateJob(ctx, job.ID, updates); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job status")
	}

	job.Status = target
	if _, ok := updates["start_date"]; ok {
		job.StartDate = &now
	}
	if _, ok := updates["end_date"]; ok {
		job.EndDate = &now
		job.Progress = 100
	}

	var quotation *models.Quotation
	for _, effect := range effects {
		switch effect {
		case EffectRebuildQuotation:
			// the job row still references the previous quotation; unlink
			// it before the rebuild deletes that row
			if job.QuotationID != nil {
				if err := repo.UpdateJob(ctx, job.ID, map[string]any{"quotation_id": nil}); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "unlink quotation")
				}
				job.QuotationID = nil
			}
			quotation, err = s.quotes.Rebuild(ctx, tx, job)
			if err != nil {
				return err
			}
			if err := repo.UpdateJob(ctx, job.ID, map[string]any{"quotation_id": quotation.ID}); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "link quotation")
			}
			job.QuotationID = &quotation.ID
		case EffectUpsertPayment:
			if quotation == nil {
				return pkgerrors.New(pkgerrors.CodeInternal, "quotation missing before payment upsert")
			}
			if _, err := s.payments.UpsertForJob(ctx, tx, job, quotation); err != nil {
				return err
			}
		case EffectCompleteBooking:
			if err := repo.UpdateBookingStatus(ctx, job.BookingID, enums.BookingStatusCompleted); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "complete booking")
			}
		case EffectCancelBooking:
			if err := repo.UpdateBookingStatus(ctx, job.BookingID, enums.BookingStatusCancelled); err != nil {
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "cancel booking")
			}
		case EffectRestoreConsumedStock:
			for _, rp := range job.Parts {
				if err := s.inventory.Restore(ctx, tx, rp.PartID, rp.Quantity); err != nil {
					return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore part stock")
				}
			}
		}
	}
	return nil
}

func (s *service) AddPart(ctx context.Context, input AddPartInput) (*models.RepairPart, error) {
	if !input.ActorRole.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if input.JobID == uuid.Nil || input.PartID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id and part id required")
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	var result *models.RepairPart
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		job, err := s.loadJob(ctx, repo, input.JobID)
		if err != nil {
			return err
		}
		if job.Status != enums.RepairStatusCreated && job.Status != enums.RepairStatusInProgress {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "parts can only be added before completion")
		}

		part, err := s.inventory.FindPart(ctx, tx, input.PartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "part not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load part")
		}

		ok, err := s.inventory.Consume(ctx, tx, part.ID, input.Quantity)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "consume stock")
		}
		if !ok {
			return pkgerrors.New(pkgerrors.CodeInsufficientStock, "not enough stock for part")
		}

		// Unit price is frozen here; catalog edits never touch recorded lines.
		line := &models.RepairPart{
			RepairJobID: job.ID,
			PartID:      part.ID,
			Quantity:    input.Quantity,
			UnitPrice:   part.Price,
			PriceTotal:  part.Price.Mul(decimal.NewFromInt(int64(input.Quantity))),
		}
		created, err := repo.CreateRepairPart(ctx, line)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record repair part")
		}
		result = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (s *service) RemovePart(ctx context.Context, input RemovePartInput) error {
	if !input.ActorRole.IsStaff() {
		return pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}
	if input.JobID == uuid.Nil || input.RepairPartID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "job id and line id required")
	}

	return s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		job, err := s.loadJob(ctx, repo, input.JobID)
		if err != nil {
			return err
		}
		if job.Status != enums.RepairStatusCreated && job.Status != enums.RepairStatusInProgress {
			return pkgerrors.New(pkgerrors.CodeStateConflict, "parts can only be removed before completion")
		}

		line, err := repo.FindRepairPart(ctx, input.RepairPartID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "repair part not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load repair part")
		}
		if line.RepairJobID != job.ID {
			return pkgerrors.New(pkgerrors.CodeForbidden, "line does not belong to job")
		}

		if err := repo.DeleteRepairPart(ctx, line.ID); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete repair part")
		}
		if err := s.inventory.Restore(ctx, tx, line.PartID, line.Quantity); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "restore part stock")
		}
		return nil
	})
}

func (s *service) UpdateDetails(ctx context.Context, input UpdateDetailsInput) (*models.RepairJob, error) {
	if !input.ActorRole.IsStaff() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "staff role required")
	}

	job, err := s.loadJob(ctx, s.repo, input.JobID)
	if err != nil {
		return nil, err
	}
	if job.Status.IsTerminal() {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "job is closed")
	}

	updates := map[string]any{}
	if input.LaborCost != nil {
		if input.LaborCost.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "labor cost cannot be negative")
		}
		updates["labor_cost"] = *input.LaborCost
	}
	if input.Note != nil {
		updates["note"] = *input.Note
	}
	if input.AssignedStaffID != nil {
		updates["assigned_staff_id"] = *input.AssignedStaffID
	}
	if input.Progress != nil {
		if *input.Progress < 0 || *input.Progress > 100 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "progress must be between 0 and 100")
		}
		if job.Status != enums.RepairStatusInProgress {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "progress can only change while in progress")
		}
		updates["progress"] = *input.Progress
	}

	if len(updates) > 0 {
		if err := s.repo.UpdateJob(ctx, job.ID, updates); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update job")
		}
	}
	return s.loadJob(ctx, s.repo, job.ID)
}

// Confirm marks the job as approved by its customer. The created to
// in_progress transition is blocked until this has happened.
func (s *service) Confirm(ctx context.Context, jobID uuid.UUID, actorCustomerID uuid.UUID) (*models.RepairJob, error) {
	job, err := s.loadJob(ctx, s.repo, jobID)
	if err != nil {
		return nil, err
	}
	booking, err := s.repo.FindBookingByID(ctx, job.BookingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
	}
	if booking.CustomerID != actorCustomerID {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "job belongs to another customer")
	}
	if job.Status != enums.RepairStatusCreated {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "job can only be confirmed before work starts")
	}
	if job.CustomerConfirmed {
		return job, nil
	}

	hasEstimate, err := s.repo.HasEstimateForBooking(ctx, job.BookingID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check estimate")
	}
	if !hasEstimate {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "an estimate is required before confirmation")
	}

	if err := s.repo.UpdateJob(ctx, job.ID, map[string]any{"customer_confirmed": true}); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "confirm job")
	}
	job.CustomerConfirmed = true
	return job, nil
}

func (s *service) GetJob(ctx context.Context, jobID uuid.UUID, actorCustomerID uuid.UUID, actorRole enums.UserRole) (*models.RepairJob, error) {
	job, err := s.loadJob(ctx, s.repo, jobID)
	if err != nil {
		return nil, err
	}
	if !actorRole.IsStaff() {
		booking, err := s.repo.FindBookingByID(ctx, job.BookingID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load booking")
		}
		if booking.CustomerID != actorCustomerID {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "job belongs to another customer")
		}
	}
	return job, nil
}

func (s *service) ListJobs(ctx context.Context, filters JobFilters) ([]models.RepairJob, error) {
	jobs, err := s.repo.ListJobs(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list jobs")
	}
	return jobs, nil
}

func (s *service) loadJob(ctx context.Context, repo Repository, jobID uuid.UUID) (*models.RepairJob, error) {
	if jobID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "job id required")
	}
	job, err := repo.FindJobByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "repair job not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load repair job")
	}
	return job, nil
}
