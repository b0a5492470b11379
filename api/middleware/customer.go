package middleware

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/3est3est/motorcycle-service/api/responses"
	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
	"github.com/3est3est/motorcycle-service/pkg/logger"
)

type customerResolver interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Customer, error)
}

// CustomerContext resolves the customer profile for customer-role actors and
// seeds the request context with its identifier. Staff requests pass through.
func CustomerContext(resolver customerResolver, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := enums.UserRole(RoleFromContext(r.Context()))
			if role.IsStaff() {
				next.ServeHTTP(w, r)
				return
			}

			userID, err := uuid.Parse(UserIDFromContext(r.Context()))
			if err != nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "missing user context"))
				return
			}

			if resolver == nil {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "customer resolver unavailable"))
				return
			}

			profile, err := resolver.GetProfile(r.Context(), userID)
			if err != nil {
				responses.WriteError(r.Context(), logg, w, err)
				return
			}

			ctx := context.WithValue(r.Context(), ctxCustomerID, profile.ID.String())
			if logg != nil {
				ctx = logg.WithFields(ctx, map[string]any{"customer_id": profile.ID.String()})
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
