package service

import (
	"context"
	"errors"
	"time"

	"adminbase/internal/model"
	"adminbase/internal/repository"

	"github.com/google/uuid"
)

// UpdateUserRequest carries the optional fields of a user-administration
// update; nil means "leave unchanged"
type UpdateUserRequest struct {
	Role   *string `json:"role" binding:"omitempty"`
	Status *string `json:"status" binding:"omitempty"`
	Notes  *string `json:"notes" binding:"omitempty"`
}

// DTO for returning a user row without exposing the invitation token
type UserResponse struct {
	ID        string `json:"id"`
	AccountID string `json:"account_id,omitempty"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at,omitempty"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// UserAdminService covers the single-shot privileged mutations on user rows.
// Every operation re-checks the caller against the authorization service
// before touching data.
type UserAdminService interface {
	List(ctx context.Context, adminID string, page, limit int) ([]UserResponse, int64, error)
	Get(ctx context.Context, adminID, targetID string) (*UserResponse, error)
	Update(ctx context.Context, adminID, targetID string, req UpdateUserRequest) (*UserResponse, error)
	Delete(ctx context.Context, adminID, targetID string) error
}

type userAdminService struct {
	roles    repository.UserRoleRepository
	accounts repository.AccountRepository
	metadata repository.UserMetadataRepository
	tx       repository.TransactionManager
	authz    AuthzService
	audit    AuditService
}

// NewUserAdminService returns a new instance of UserAdminService
func NewUserAdminService(
	roles repository.UserRoleRepository,
	accounts repository.AccountRepository,
	metadata repository.UserMetadataRepository,
	tx repository.TransactionManager,
	authz AuthzService,
	audit AuditService,
) UserAdminService {
	return &userAdminService{
		roles:    roles,
		accounts: accounts,
		metadata: metadata,
		tx:       tx,
		authz:    authz,
		audit:    audit,
	}
}

func mapUserToResponse(row *model.UserRole) *UserResponse {
	res := &UserResponse{
		ID:        row.ID.String(),
		Email:     row.Email,
		Role:      row.Role,
		Status:    row.Status,
		CreatedAt: row.CreatedAt.Format(time.RFC3339),
		UpdatedAt: row.UpdatedAt.Format(time.RFC3339),
	}
	if row.AccountID != nil {
		res.AccountID = row.AccountID.String()
	}
	if row.ExpiresAt != nil {
		res.ExpiresAt = row.ExpiresAt.Format(time.RFC3339)
	}
	return res
}

func (s *userAdminService) List(ctx context.Context, adminID string, page, limit int) ([]UserResponse, int64, error) {
	if _, err := s.authz.ActiveAdmin(ctx, adminID); err != nil {
		return nil, 0, err
	}

	rows, total, err := s.roles.List(ctx, page, limit)
	if err != nil {
		return nil, 0, err
	}

	res := make([]UserResponse, 0, len(rows))
	for i := range rows {
		res = append(res, *mapUserToResponse(&rows[i]))
	}

	return res, total, nil
}

func (s *userAdminService) Get(ctx context.Context, adminID, targetID string) (*UserResponse, error) {
	if _, err := s.authz.ActiveAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	row, err := s.roles.GetByID(ctx, targetID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	return mapUserToResponse(row), nil
}

func (s *userAdminService) Update(ctx context.Context, adminID, targetID string, req UpdateUserRequest) (*UserResponse, error) {
	admin, err := s.authz.ActiveAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	row, err := s.roles.GetByID(ctx, targetID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	// Collect the diff for the audit entry as we apply fields
	diff := map[string]any{}

	if req.Role != nil && *req.Role != row.Role {
		if !model.ValidRole(*req.Role) {
			return nil, errors.New("invalid role: must be admin, moderator, or user")
		}
		diff["role"] = map[string]string{"from": row.Role, "to": *req.Role}
		row.Role = *req.Role
	}

	if req.Status != nil && *req.Status != row.Status {
		if !model.ValidStatus(*req.Status) {
			return nil, errors.New("invalid status")
		}
		diff["status"] = map[string]string{"from": row.Status, "to": *req.Status}
		row.Status = *req.Status
	}

	if err := s.roles.Update(ctx, row); err != nil {
		return nil, err
	}

	if req.Notes != nil && row.AccountID != nil {
		if err := s.updateNotes(ctx, *row.AccountID, *req.Notes); err != nil {
			return nil, err
		}
		diff["notes"] = "updated"
	}

	if len(diff) > 0 {
		s.audit.Record(ctx, admin, model.ActionUserUpdated, AuditOptions{
			TargetID:    row.ID.String(),
			TargetEmail: row.Email,
			Details:     diff,
		})
	}

	return mapUserToResponse(row), nil
}

// Delete permanently removes a user. Two paths: rows with a linked account
// take all dependent rows with them in one transaction; invite-only rows are
// deleted directly. Audit entries keep referencing the removed identifiers.
func (s *userAdminService) Delete(ctx context.Context, adminID, targetID string) error {
	admin, err := s.authz.ActiveAdmin(ctx, adminID)
	if err != nil {
		return err
	}

	row, err := s.roles.GetByID(ctx, targetID)
	if err != nil {
		return errors.New("user not found")
	}

	if row.AccountID == nil {
		if err := s.roles.Delete(ctx, row.ID.String()); err != nil {
			return err
		}
		s.audit.Record(ctx, admin, model.ActionUserRecordDeleted, AuditOptions{
			TargetID:    row.ID.String(),
			TargetEmail: row.Email,
			Details:     map[string]string{"permanent": "true", "linked_account": "false"},
		})
		return nil
	}

	accountID := row.AccountID.String()
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.metadata.DeleteByAccountID(txCtx, accountID); err != nil {
			return err
		}
		if err := s.accounts.DeleteRefreshTokensForAccount(txCtx, accountID); err != nil {
			return err
		}
		if err := s.roles.Delete(txCtx, row.ID.String()); err != nil {
			return err
		}
		return s.accounts.Delete(txCtx, accountID)
	})
	if err != nil {
		return err
	}

	s.audit.Record(ctx, admin, model.ActionUserPermanentlyDeleted, AuditOptions{
		TargetID:    accountID,
		TargetEmail: row.Email,
		Details:     map[string]string{"permanent": "true", "linked_account": "true"},
	})

	return nil
}

func (s *userAdminService) updateNotes(ctx context.Context, accountID uuid.UUID, notes string) error {
	meta, err := s.metadata.GetByAccountID(ctx, accountID.String())
	if err != nil {
		return s.metadata.Create(ctx, &model.UserMetadata{AccountID: accountID, Notes: notes})
	}
	meta.Notes = notes
	return s.metadata.Update(ctx, meta)
}
