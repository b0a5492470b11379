package controllers

import (
	"net/http"
	"strings"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/api/validators"
	"github.com/3est3est/motorcycle-service/internal/payments"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
	"github.com/3est3est/motorcycle-service/pkg/logger"
	"github.com/3est3est/motorcycle-service/pkg/pagination"
)

type settlePaymentBody struct {
	Method string `json:"method" validate:"required"`
}

// PaymentForJob returns the payment record attached to a repair job.
func PaymentForJob(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, role := actorFromContext(r.Context())
		result, err := svc.GetForJob(r.Context(), jobID, customerID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PaymentSettle marks a delivered job as paid and awards loyalty points.
func PaymentSettle(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		jobID, err := parseUUIDParam(r, "jobId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body settlePaymentBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method := enums.PaymentMethod(body.Method)
		if !method.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method"))
			return
		}

		_, role := actorFromContext(r.Context())
		result, err := svc.Settle(r.Context(), payments.SettleInput{
			JobID:     jobID,
			Method:    method,
			ActorRole: role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PaymentList shows a page of the payment ledger, optionally filtered by
// status. ?limit= and ?cursor= page through it.
func PaymentList(svc payments.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := payments.PaymentFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.PaymentStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status"))
				return
			}
			filters.Status = &status
		}

		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		params := pagination.Params{Limit: limit, Cursor: r.URL.Query().Get("cursor")}

		_, role := actorFromContext(r.Context())
		result, err := svc.List(r.Context(), filters, params, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
