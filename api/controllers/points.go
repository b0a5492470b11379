package controllers

import (
	"net/http"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/api/validators"
	"github.com/3est3est/motorcycle-service/internal/loyalty"
	"github.com/3est3est/motorcycle-service/pkg/logger"
)

type redeemPointsBody struct {
	Points      int     `json:"points" validate:"required,gt=0"`
	Description *string `json:"description,omitempty"`
}

// PointsBalance returns the caller's loyalty balance.
func PointsBalance(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, _ := actorFromContext(r.Context())
		result, err := svc.GetBalance(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PointsHistory lists the caller's point transactions, newest first.
func PointsHistory(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, _ := actorFromContext(r.Context())
		result, err := svc.History(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// PointsRedeem spends points from the caller's balance.
func PointsRedeem(svc loyalty.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body redeemPointsBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, _ := actorFromContext(r.Context())
		result, err := svc.Redeem(r.Context(), loyalty.RedeemInput{
			CustomerID:  customerID,
			Points:      body.Points,
			Description: body.Description,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
