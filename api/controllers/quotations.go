package controllers

import (
	"net/http"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/api/validators"
	"github.com/3est3est/motorcycle-service/internal/quotations"
	"github.com/3est3est/motorcycle-service/pkg/logger"
)

type quotationDecisionBody struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

// QuotationDetail returns the booking's quotation with its line items.
func QuotationDetail(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
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

// QuotationDecide records the customer's approval or rejection.
func QuotationDecide(svc quotations.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		bookingID, err := parseUUIDParam(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body quotationDecisionBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, role := actorFromContext(r.Context())
		result, err := svc.Decide(r.Context(), quotations.DecideInput{
			BookingID:       bookingID,
			Decision:        quotations.Decision(body.Decision),
			ActorCustomerID: customerID,
			ActorRole:       role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
