package controllers

import (
	"net/http"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/api/validators"
	"github.com/3est3est/motorcycle-service/internal/customers"
	"github.com/3est3est/motorcycle-service/pkg/logger"
)

type updateProfileBody struct {
	FullName *string `json:"full_name,omitempty"`
	Phone    *string `json:"phone,omitempty"`
}

// ProfileDetail returns the caller's own customer profile.
func ProfileDetail(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result, err := svc.GetProfile(r.Context(), userIDFromContext(r.Context()))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// ProfileUpdate edits the caller's name or phone.
func ProfileUpdate(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateProfileBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.UpdateProfile(r.Context(), customers.UpdateProfileInput{
			UserID:   userIDFromContext(r.Context()),
			FullName: body.FullName,
			Phone:    body.Phone,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// CustomerList browses the customer directory. ?q= matches name or phone.
func CustomerList(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := customers.CustomerFilters{}
		if q := validators.SanitizeString(r.URL.Query().Get("q"), 120); q != "" {
			filters.Search = &q
		}

		_, role := actorFromContext(r.Context())
		result, err := svc.List(r.Context(), customers.ListInput{
			Filters:   filters,
			ActorRole: role,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func CustomerDetail(svc customers.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "customerId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, role := actorFromContext(r.Context())
		result, err := svc.Get(r.Context(), id, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
