package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/api/validators"
	"github.com/3est3est/motorcycle-service/internal/repairs"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
	"github.com/3est3est/motorcycle-service/pkg/logger"
)

type repairStatusBody struct {
	Status string `json:"status" validate:"required"`
}

type repairDetailsBody struct {
	LaborCost       *decimal.Decimal `json:"labor_cost,omitempty"`
	Note            *string          `json:"note,omitempty"`
	AssignedStaffID *uuid.UUID       `json:"assigned_staff_id,omitempty"`
	Progress        *int             `json:"progress,omitempty"`
}

type addRepairPartBody struct {
	PartID   uuid.UUID `json:"part_id" validate:"required"`
	Quantity int       `json:"quantity" validate:"required,gt=0"`
}

// RepairList shows the caller's jobs; staff can filter the whole board.
func RepairList(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, role := actorFromContext(r.Context())

		filters := repairs.JobFilters{}
		if !role.IsStaff() {
			filters.CustomerID = &customerID
		} else {
			if raw := strings.TrimSpace(r.URL.Query().Get("staff_id")); raw != "" {
				staffID, err := uuid.Parse(raw)
				if err != nil {
					responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid staff id"))
					return
				}
				filters.StaffID = &staffID
			}
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.RepairStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid repair status"))
				return
			}
			filters.Status = &status
		}

		result, err := svc.ListJobs(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func RepairDetail(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, role := actorFromContext(r.Context())
		result, err := svc.GetJob(r.Context(), jobID, customerID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RepairAdvanceStatus drives the job state machine and its side effects.
func RepairAdvanceStatus(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body repairStatusBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target := enums.RepairStatus(body.Status)
		if !target.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid repair status"))
			return
		}

		_, role := actorFromContext(r.Context())
		result, err := svc.AdvanceStatus(r.Context(), repairs.AdvanceStatusInput{
			JobID:       jobID,
			Target:      target,
			ActorUserID: userIDFromContext(r.Context()),
			ActorRole:   role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RepairUpdateDetails edits labor cost, notes, assignment, and progress.
func RepairUpdateDetails(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body repairDetailsBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, role := actorFromContext(r.Context())
		result, err := svc.UpdateDetails(r.Context(), repairs.UpdateDetailsInput{
			JobID:           jobID,
			LaborCost:       body.LaborCost,
			Note:            body.Note,
			AssignedStaffID: body.AssignedStaffID,
			Progress:        body.Progress,
			ActorRole:       role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RepairConfirm records the owning customer's go-ahead to start work.
func RepairConfirm(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, _ := actorFromContext(r.Context())
		result, err := svc.Confirm(r.Context(), jobID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RepairCancel lets the owning customer abort a job that has not started.
func RepairCancel(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, _ := actorFromContext(r.Context())
		result, err := svc.Cancel(r.Context(), jobID, customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// RepairAddPart draws stock for the job at today's price.
func RepairAddPart(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body addRepairPartBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, role := actorFromContext(r.Context())
		result, err := svc.AddPart(r.Context(), repairs.AddPartInput{
			JobID:     jobID,
			PartID:    body.PartID,
			Quantity:  body.Quantity,
			ActorRole: role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// RepairRemovePart reverses a part line and restores its stock.
func RepairRemovePart(svc repairs.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		repairPartID, err := parseUUIDParam(r, "repairPartId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, role := actorFromContext(r.Context())
		if err := svc.RemovePart(r.Context(), repairs.RemovePartInput{
			JobID:        jobID,
			RepairPartID: repairPartID,
			ActorRole:    role,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "removed"})
	}
}
