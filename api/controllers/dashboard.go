package controllers

import (
	"net/http"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/internal/dashboard"
	"github.com/3est3est/motorcycle-service/pkg/logger"
)

// DashboardGet returns the dashboard shaped for the caller's role.
func DashboardGet(svc dashboard.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, role := actorFromContext(r.Context())
		result, err := svc.Get(r.Context(), dashboard.GetInput{
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
