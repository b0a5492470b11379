package controllers

import (
	"net/http"
	"strings"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/api/validators"
	"github.com/3est3est/motorcycle-service/internal/users"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
	"github.com/3est3est/motorcycle-service/pkg/logger"
)

type changeRoleBody struct {
	Role string `json:"role" validate:"required"`
}

type setActiveBody struct {
	Active *bool `json:"active" validate:"required"`
}

// UserList browses accounts. Filters: ?role=, ?active=, ?q= (email).
func UserList(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filters := users.UserFilters{}
		if raw := strings.TrimSpace(r.URL.Query().Get("role")); raw != "" {
			role, err := enums.ParseUserRole(raw)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role"))
				return
			}
			filters.Role = &role
		}
		if raw := r.URL.Query().Get("active"); raw != "" {
			active := raw == "true"
			filters.IsActive = &active
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("q")); raw != "" {
			filters.Search = &raw
		}

		_, actorRole := actorFromContext(r.Context())
		result, err := svc.List(r.Context(), users.ListInput{
			Filters:   filters,
			ActorRole: actorRole,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// UserChangeRole promotes or demotes an account.
func UserChangeRole(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body changeRoleBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		role, err := enums.ParseUserRole(body.Role)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid role"))
			return
		}

		_, actorRole := actorFromContext(r.Context())
		result, err := svc.ChangeRole(r.Context(), users.ChangeRoleInput{
			UserID:      id,
			Role:        role,
			ActorUserID: userIDFromContext(r.Context()),
			ActorRole:   actorRole,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// UserSetActive enables or disables an account.
func UserSetActive(svc users.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseUUIDParam(r, "userId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body setActiveBody
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		_, actorRole := actorFromContext(r.Context())
		result, err := svc.SetActive(r.Context(), users.SetActiveInput{
			UserID:      id,
			Active:      *body.Active,
			ActorUserID: userIDFromContext(r.Context()),
			ActorRole:   actorRole,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}
