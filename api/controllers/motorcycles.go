package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/api/validators"
	"github.com/3est3est/motorcycle-service/internal/motorcycles"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
	"github.com/3est3est/motorcycle-service/pkg/logger"
)

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	value, err := uuid.Parse(chi.URLParam(r, name))
	if err != nil {
		return uuid.Nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid identifier").WithDetails(map[string]string{"param": name})
	}
	return value, nil
}

type registerMotorcycleBody struct {
	Brand        string `json:"brand" validate:"required"`
	Model        string `json:"model" validate:"required"`
	LicensePlate string `json:"license_plate" validate:"required"`
	Year         *int   `json:"year,omitempty"`
}

type updateMotorcycleBody struct {
	Brand *string `json:"brand,omitempty"`
	Model *string `json:"model,omitempty"`
	Year  *int    `json:"year,omitempty"`
}

// MotorcycleRegister adds a vehicle to the caller's garage.
func MotorcycleRegister(svc motorcycles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body registerMotorcycleBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, _ := actorFromContext(r.Context())
		result, err := svc.Register(r.Context(), motorcycles.RegisterInput{
			CustomerID:   customerID,
			Brand:        body.Brand,
			Model:        body.Model,
			LicensePlate: body.LicensePlate,
			Year:         body.Year,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// MotorcycleList returns the caller's garage.
func MotorcycleList(svc motorcycles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, _ := actorFromContext(r.Context())
		result, err := svc.ListForCustomer(r.Context(), customerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MotorcycleDetail(svc motorcycles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "motorcycleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, role := actorFromContext(r.Context())
		result, err := svc.Get(r.Context(), id, customerID, role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func MotorcycleUpdate(svc motorcycles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "motorcycleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body updateMotorcycleBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, role := actorFromContext(r.Context())
		result, err := svc.Update(r.Context(), motorcycles.UpdateInput{
			MotorcycleID:    id,
			Brand:           body.Brand,
			Model:           body.Model,
			Year:            body.Year,
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

func MotorcycleRemove(svc motorcycles.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "motorcycleId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, role := actorFromContext(r.Context())
		if err := svc.Remove(r.Context(), id, customerID, role); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}
