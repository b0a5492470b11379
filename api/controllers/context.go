package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/3est3est/motorcycle-service/api/middleware"
	"github.com/3est3est/motorcycle-service/pkg/enums"
)

// actorFromContext reads the identity seeded by the auth middleware. The
// customer id is uuid.Nil for staff actors.
func actorFromContext(ctx context.Context) (customerID uuid.UUID, role enums.UserRole) {
	role = enums.UserRole(middleware.RoleFromContext(ctx))
	if parsed, err := uuid.Parse(middleware.CustomerIDFromContext(ctx)); err == nil {
		customerID = parsed
	}
	return customerID, role
}

func userIDFromContext(ctx context.Context) uuid.UUID {
	if parsed, err := uuid.Parse(middleware.UserIDFromContext(ctx)); err == nil {
		return parsed
	}
	return uuid.Nil
}
