package users

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/3est3est/motorcycle-service/pkg/db/models"
	"github.com/3est3est/motorcycle-service/pkg/enums"
	pkgerrors "github.com/3est3est/motorcycle-service/pkg/errors"
)

// ChangeRoleInput captures an admin promoting or demoting an account.
type ChangeRoleInput struct {
	UserID      uuid.UUID
	Role        enums.UserRole
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

// SetActiveInput captures an admin toggling an account on or off.
type SetActiveInput struct {
	UserID      uuid.UUID
	Active      bool
	ActorUserID uuid.UUID
	ActorRole   enums.UserRole
}

// ListInput captures an admin browsing the account directory.
type ListInput struct {
	Filters   UserFilters
	ActorRole enums.UserRole
}

// Service defines the admin-side account management operations.
type Service interface {
	List(ctx context.Context, input ListInput) ([]UserDTO, error)
	ChangeRole(ctx context.Context, input ChangeRoleInput) (*UserDTO, error)
	SetActive(ctx context.Context, input SetActiveInput) (*UserDTO, error)
}

type service struct {
	repo Repository
}

// NewService builds a user management service.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) List(ctx context.Context, input ListInput) ([]UserDTO, error) {
	if input.ActorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	users, err := s.repo.List(ctx, input.Filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	out := make([]UserDTO, 0, len(users))
	for i := range users {
		out = append(out, *FromModel(&users[i]))
	}
	return out, nil
}

func (s *service) ChangeRole(ctx context.Context, input ChangeRoleInput) (*UserDTO, error) {
	if input.ActorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if !input.Role.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid role")
	}
	if input.UserID == input.ActorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot change own role")
	}

	user, err := s.load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.UpdateRole(ctx, user.ID, input.Role); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update role")
	}
	user.Role = input.Role
	return FromModel(user), nil
}

func (s *service) SetActive(ctx context.Context, input SetActiveInput) (*UserDTO, error) {
	if input.ActorRole != enums.UserRoleAdmin {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "admin role required")
	}
	if input.UserID == input.ActorUserID {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cannot deactivate own account")
	}

	user, err := s.load(ctx, input.UserID)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetActive(ctx, user.ID, input.Active); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update active flag")
	}
	user.IsActive = input.Active
	return FromModel(user), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return user, nil
}
