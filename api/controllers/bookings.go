package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/api/validators"
	"github.com/3est3est/motorcycle-service/internal/bookings"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
	"github.com/3est3est/motorcycle-service/pkg/logger"
)

type createBookingBody struct {
	MotorcycleID uuid.UUID `json:"motorcycle_id" validate:"required"`
	BookingTime  time.Time `json:"booking_time" validate:"required"`
	SymptomNote  *string   `json:"symptom_note,omitempty"`
}

type bookingStatusBody struct {
	Status string `json:"status" validate:"required"`
}

// BookingCreate books a repair slot for the caller's motorcycle.
func BookingCreate(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body createBookingBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		customerID, _ := actorFromContext(r.Context())
		result, err := svc.Create(r.Context(), bookings.CreateInput{
			CustomerID:   customerID,
			MotorcycleID: body.MotorcycleID,
			BookingTime:  body.BookingTime,
			SymptomNote:  body.SymptomNote,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// BookingList shows the caller's bookings; staff see the whole book.
func BookingList(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		customerID, role := actorFromContext(r.Context())

		filters := bookings.BookingFilters{}
		if !role.IsStaff() {
			filters.CustomerID = &customerID
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.BookingStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid booking status"))
				return
			}
			filters.Status = &status
		}

		result, err := svc.List(r.Context(), filters)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

func BookingDetail(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "bookingId")
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

// BookingSetStatus confirms or cancels a booking. Confirming is staff-only
// and opens the repair job.
func BookingSetStatus(svc bookings.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "bookingId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body bookingStatusBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		target := enums.BookingStatus(body.Status)
		if !target.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid booking status"))
			return
		}

		customerID, role := actorFromContext(r.Context())
		result, err := svc.SetStatus(r.Context(), bookings.SetStatusInput{
			BookingID:       id,
			Target:          target,
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
