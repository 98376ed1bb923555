package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
	"net/url"
	"time"

	"adminbase/internal/mailer"
	"adminbase/internal/model"
	"adminbase/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrInvitationInvalid = errors.New("invitation not found or no longer valid")
	ErrInvitationExpired = errors.New("invitation has expired")
)

// DefaultInvitationTTL is how long a fresh invitation stays acceptable
const DefaultInvitationTTL = 7 * 24 * time.Hour

// InvitationConfig carries the deployment-specific pieces of the invitation flow
type InvitationConfig struct {
	BaseURL     string // Public origin the signup link points at
	FromAddress string // Sender identity for invitation e-mails
	OrgName     string
	TTL         time.Duration // Zero means DefaultInvitationTTL
}

// DTOs for Request validation
type CreateInvitationRequest struct {
	Email string `json:"email" binding:"required,email"`
	Role  string `json:"role" binding:"required"`
}

type AcceptInvitationRequest struct {
	Token       string `json:"token" binding:"required"`
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type InvitationResponse struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Role      string `json:"role"`
	Status    string `json:"status"`
	ExpiresAt string `json:"expires_at"`
}

// VerifyInvitationResponse reports the invitation's intended role for display
// purposes only; the authoritative assignment happens at acceptance.
type VerifyInvitationResponse struct {
	Email     string `json:"email"`
	Role      string `json:"role"`
	ExpiresAt string `json:"expires_at"`
}

// InvitationService walks an invited person through
// e-mail -> pending row -> signup -> active account.
//
// Expiry is enforced lazily at verify/accept time only. There is no background
// sweep; an expired row stays "invited" and becomes permanently unusable.
type InvitationService interface {
	Create(ctx context.Context, adminID string, req CreateInvitationRequest) (*InvitationResponse, error)
	Verify(ctx context.Context, token, email string) (*VerifyInvitationResponse, error)
	Accept(ctx context.Context, req AcceptInvitationRequest) (*UserResponse, error)
	Cancel(ctx context.Context, adminID, invitationID string) error
}

type invitationService struct {
	roles    repository.UserRoleRepository
	accounts repository.AccountRepository
	metadata repository.UserMetadataRepository
	tx       repository.TransactionManager
	authz    AuthzService
	audit    AuditService
	sender   mailer.Sender
	cfg      InvitationConfig
}

// NewInvitationService returns a new instance of InvitationService
func NewInvitationService(
	roles repository.UserRoleRepository,
	accounts repository.AccountRepository,
	metadata repository.UserMetadataRepository,
	tx repository.TransactionManager,
	authz AuthzService,
	audit AuditService,
	sender mailer.Sender,
	cfg InvitationConfig,
) InvitationService {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultInvitationTTL
	}
	return &invitationService{
		roles:    roles,
		accounts: accounts,
		metadata: metadata,
		tx:       tx,
		authz:    authz,
		audit:    audit,
		sender:   sender,
		cfg:      cfg,
	}
}

// newInvitationToken generates an opaque, unguessable correlation token
func newInvitationToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

func (s *invitationService) Create(ctx context.Context, adminID string, req CreateInvitationRequest) (*InvitationResponse, error) {
	admin, err := s.authz.ActiveAdmin(ctx, adminID)
	if err != nil {
		return nil, err
	}

	if !model.ValidRole(req.Role) {
		return nil, errors.New("invalid role: must be admin, moderator, or user")
	}

	token, err := newInvitationToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate invitation token: %w", err)
	}

	now := time.Now()
	expiresAt := now.Add(s.cfg.TTL)
	row := &model.UserRole{
		Email:           req.Email,
		Role:            req.Role,
		Status:          model.StatusInvited,
		InvitationToken: &token,
		InvitedAt:       &now,
		ExpiresAt:       &expiresAt,
		InvitedBy:       admin.AccountID,
	}

	// Uniqueness violations (email already invited or active) surface as-is
	if err := s.roles.Create(ctx, row); err != nil {
		return nil, err
	}

	msg := mailer.BuildInvitationEmail(mailer.InvitationEmailData{
		OrgName:     s.cfg.OrgName,
		InviterName: s.inviterName(ctx, admin),
		Role:        req.Role,
		SignupURL:   s.signupURL(token, req.Email),
		ExpiresAt:   expiresAt,
	})
	msg.From = s.cfg.FromAddress
	msg.To = req.Email

	if _, err := s.sender.Send(ctx, msg); err != nil {
		// Compensating delete: no residual invited row may survive a failed send
		if delErr := s.roles.Delete(ctx, row.ID.String()); delErr != nil {
			log.Printf("WARNING: failed to clean up invitation row for %s: %v", req.Email, delErr)
		}
		return nil, fmt.Errorf("failed to send invitation email: %w", err)
	}

	s.audit.Record(ctx, admin, model.ActionUserInvited, AuditOptions{
		TargetEmail: req.Email,
		Details:     map[string]string{"invitation_id": row.ID.String(), "role": req.Role},
	})

	return &InvitationResponse{
		ID:        row.ID.String(),
		Email:     row.Email,
		Role:      row.Role,
		Status:    row.Status,
		ExpiresAt: expiresAt.Format(time.RFC3339),
	}, nil
}

func (s *invitationService) Verify(ctx context.Context, token, email string) (*VerifyInvitationResponse, error) {
	row, err := s.lookupPending(ctx, token, email)
	if err != nil {
		return nil, err
	}

	return &VerifyInvitationResponse{
		Email:     row.Email,
		Role:      row.Role,
		ExpiresAt: row.ExpiresAt.Format(time.RFC3339),
	}, nil
}

func (s *invitationService) Accept(ctx context.Context, req AcceptInvitationRequest) (*UserResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	var activated *model.UserRole
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		row, err := s.lookupPending(txCtx, req.Token, req.Email)
		if err != nil {
			return err
		}

		account := &model.Account{Email: row.Email, Password: string(hashed)}
		if err := s.accounts.Create(txCtx, account); err != nil {
			return err
		}

		accountID := account.ID
		row.AccountID = &accountID
		row.Status = model.StatusActive
		if err := s.roles.Update(txCtx, row); err != nil {
			return err
		}

		// Empty metadata row is provisioned alongside activation
		if err := s.metadata.Create(txCtx, &model.UserMetadata{
			AccountID:   account.ID,
			DisplayName: req.DisplayName,
		}); err != nil {
			return err
		}

		activated = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapUserToResponse(activated), nil
}

func (s *invitationService) Cancel(ctx context.Context, adminID, invitationID string) error {
	admin, err := s.authz.ActiveAdmin(ctx, adminID)
	if err != nil {
		return err
	}

	row, err := s.roles.GetByID(ctx, invitationID)
	if err != nil {
		return ErrInvitationInvalid
	}
	if row.Status != model.StatusInvited {
		return errors.New("only pending invitations can be cancelled")
	}

	row.Status = model.StatusCancelled
	if err := s.roles.Update(ctx, row); err != nil {
		return err
	}

	s.audit.Record(ctx, admin, model.ActionInvitationCancelled, AuditOptions{
		TargetID:    row.ID.String(),
		TargetEmail: row.Email,
	})

	return nil
}

// lookupPending finds the row matching token and email, still invited and not expired
func (s *invitationService) lookupPending(ctx context.Context, token, email string) (*model.UserRole, error) {
	if token == "" || email == "" {
		return nil, ErrInvitationInvalid
	}

	row, err := s.roles.GetByInvitation(ctx, token, email)
	if err != nil || row.Status != model.StatusInvited {
		return nil, ErrInvitationInvalid
	}
	if row.ExpiresAt == nil || time.Now().After(*row.ExpiresAt) {
		return nil, ErrInvitationExpired
	}

	return row, nil
}

func (s *invitationService) signupURL(token, email string) string {
	return fmt.Sprintf("%s/signup?invitation=%s&email=%s", s.cfg.BaseURL, token, url.QueryEscape(email))
}

// inviterName resolves the admin's display name for the e-mail, falling back
// to their e-mail address
func (s *invitationService) inviterName(ctx context.Context, admin *model.UserRole) string {
	if admin.AccountID != nil {
		if meta, err := s.metadata.GetByAccountID(ctx, admin.AccountID.String()); err == nil && meta.DisplayName != "" {
			return meta.DisplayName
		}
	}
	return admin.Email
}
