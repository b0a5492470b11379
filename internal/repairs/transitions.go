package repairs

import (
	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

// Effect names a side effect that a status change requires. The planner
// returns the full list up front; the service applies every effect inside
// one transaction so a job can never land in a half-transitioned state.
type Effect string

const (
	EffectRecordStart          Effect = "record_start"
	EffectRecordEnd            Effect = "record_end"
	EffectRebuildQuotation     Effect = "rebuild_quotation"
	EffectUpsertPayment        Effect = "upsert_payment"
	EffectCompleteBooking      Effect = "complete_booking"
	EffectCancelBooking        Effect = "cancel_booking"
	EffectRestoreConsumedStock Effect = "restore_consumed_stock"
)

var allowedTransitions = map[enums.RepairStatus][]enums.RepairStatus{
	enums.RepairStatusCreated:    {enums.RepairStatusInProgress, enums.RepairStatusCancelled},
	enums.RepairStatusInProgress: {enums.RepairStatusCompleted},
	enums.RepairStatusCompleted:  {enums.RepairStatusDelivered},
}

// PlanTransition validates a status change and returns the effects it
// carries. It reads the job but never mutates it.
func PlanTransition(job *models.RepairJob, target enums.RepairStatus) ([]Effect, error) {
	if job == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "repair job required")
	}
	if !target.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid repair status")
	}
	if job.Status == target {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "job already in requested status")
	}

	permitted := false
	for _, next := range allowedTransitions[job.Status] {
		if next == target {
			permitted = true
			break
		}
	}
	if !permitted {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed from current status")
	}

	switch target {
	case enums.RepairStatusInProgress:
		if !job.CustomerConfirmed {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "customer has not confirmed the job")
		}
		return []Effect{EffectRecordStart}, nil
	case enums.RepairStatusCompleted:
		return []Effect{EffectRecordEnd, EffectRebuildQuotation, EffectCompleteBooking}, nil
	case enums.RepairStatusDelivered:
		return []Effect{EffectRebuildQuotation, EffectUpsertPayment}, nil
	case enums.RepairStatusCancelled:
		return []Effect{EffectCancelBooking, EffectRestoreConsumedStock}, nil
	default:
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "transition not allowed")
	}
}
