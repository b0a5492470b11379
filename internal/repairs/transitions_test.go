package repairs

import (
	"testing"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

func TestPlanTransitionHappyPath(t *testing.T) {
	job := &models.RepairJob{Status: enums.RepairStatusCreated, CustomerConfirmed: true}

	effects, err := PlanTransition(job, enums.RepairStatusInProgress)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(effects) != 1 || effects[0] != EffectRecordStart {
		t.Fatalf("unexpected effects %v", effects)
	}

	job.Status = enums.RepairStatusInProgress
	effects, err = PlanTransition(job, enums.RepairStatusCompleted)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	want := []Effect{EffectRecordEnd, EffectRebuildQuotation, EffectCompleteBooking}
	if len(effects) != len(want) {
		t.Fatalf("unexpected effects %v", effects)
	}
	for i := range want {
		if effects[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, effects)
		}
	}

	job.Status = enums.RepairStatusCompleted
	effects, err = PlanTransition(job, enums.RepairStatusDelivered)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(effects) != 2 || effects[0] != EffectRebuildQuotation || effects[1] != EffectUpsertPayment {
		t.Fatalf("unexpected effects %v", effects)
	}
}

func TestPlanTransitionRequiresCustomerConfirmation(t *testing.T) {
	job := &models.RepairJob{Status: enums.RepairStatusCreated}

	_, err := PlanTransition(job, enums.RepairStatusInProgress)
	if !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected state conflict without confirmation, got %v", err)
	}
}

func TestPlanTransitionCancelOnlyFromCreated(t *testing.T) {
	job := &models.RepairJob{Status: enums.RepairStatusCreated}
	effects, err := PlanTransition(job, enums.RepairStatusCancelled)
	if err != nil {
		t.Fatalf("plan: %v", err)
	}
	if len(effects) != 2 || effects[0] != EffectCancelBooking || effects[1] != EffectRestoreConsumedStock {
		t.Fatalf("unexpected effects %v", effects)
	}

	for _, status := range []enums.RepairStatus{
		enums.RepairStatusInProgress,
		enums.RepairStatusCompleted,
		enums.RepairStatusDelivered,
	} {
		job.Status = status
		if _, err := PlanTransition(job, enums.RepairStatusCancelled); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
			t.Fatalf("expected cancel blocked from %s, got %v", status, err)
		}
	}
}

func TestPlanTransitionRejectsSkipsAndRepeats(t *testing.T) {
	job := &models.RepairJob{Status: enums.RepairStatusCreated, CustomerConfirmed: true}

	if _, err := PlanTransition(job, enums.RepairStatusCreated); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected repeat rejected, got %v", err)
	}
	if _, err := PlanTransition(job, enums.RepairStatusDelivered); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected skip rejected, got %v", err)
	}
	if _, err := PlanTransition(job, enums.RepairStatus("bogus")); !pkgerrors.HasCode(err, pkgerrors.CodeValidation) {
		t.Fatalf("expected invalid status rejected, got %v", err)
	}

	job.Status = enums.RepairStatusDelivered
	if _, err := PlanTransition(job, enums.RepairStatusInProgress); !pkgerrors.HasCode(err, pkgerrors.CodeStateConflict) {
		t.Fatalf("expected terminal job locked, got %v", err)
	}
}
