package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/api/validators"
	"github.com/3est3est/motorcycle-service/internal/estimates"
	"github.com/3est3est/motorcycle-service/pkg/logger"
)

type upsertEstimateBody struct {
	Description   string          `json:"description" validate:"required"`
	EstimatedCost decimal.Decimal `json:"estimated_cost" validate:"required"`
}

// EstimateUpsert creates or replaces the booking's estimate.
func EstimateUpsert(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := parseUUIDParam(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body upsertEstimateBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, role := actorFromContext(r.Context())
		result, err := svc.Upsert(r.Context(), estimates.UpsertInput{
			BookingID:     bookingID,
			Description:   body.Description,
			EstimatedCost: body.EstimatedCost,
			ActorRole:     role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func EstimateDetail(svc estimates.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := parseUUIDParam(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, role := actorFromContext(r.Context())
		result, err := svc.GetForBooking(r.Context(), bookingID, customerID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
