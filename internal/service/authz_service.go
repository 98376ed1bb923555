package service

import (
	"context"
	"errors"

	"adminbase/internal/model"
	"adminbase/internal/repository"
)

// ErrPermissionDenied is returned when a caller fails the active-admin check.
// Handlers map it to 403 before any mutation is attempted.
var ErrPermissionDenied = errors.New("permission denied: active admin required")

// AuthzService decides whether a caller may perform privileged mutations.
// The check is an explicit, independently testable function: it never leans on
// store-level access policies, and it is re-run as a fresh lookup on every
// privileged request (no session or token caching).
type AuthzService interface {
	// ActiveAdmin returns the caller's UserRole row iff the caller is an
	// active admin, ErrPermissionDenied otherwise.
	ActiveAdmin(ctx context.Context, accountID string) (*model.UserRole, error)
	IsActiveAdmin(ctx context.Context, accountID string) bool
}

type authzService struct {
	roles repository.UserRoleRepository
}

// NewAuthzService returns a new instance of AuthzService
func NewAuthzService(roles repository.UserRoleRepository) AuthzService {
	return &authzService{roles: roles}
}

func (s *authzService) ActiveAdmin(ctx context.Context, accountID string) (*model.UserRole, error) {
	if accountID == "" {
		return nil, ErrPermissionDenied
	}

	row, err := s.roles.GetByAccountID(ctx, accountID)
	if err != nil {
		// Not found and store errors are indistinguishable to the caller: fail closed
		return nil, ErrPermissionDenied
	}

	if row.Role != model.RoleAdmin || row.Status != model.StatusActive {
		return nil, ErrPermissionDenied
	}

	return row, nil
}

func (s *authzService) IsActiveAdmin(ctx context.Context, accountID string) bool {
	_, err := s.ActiveAdmin(ctx, accountID)
	return err == nil
}
