package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"os"
	"time"

	"adminbase/internal/model"
	"adminbase/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// DTOs for Request validation
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SignUpRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Password    string `json:"password" binding:"required,min=8"`
	DisplayName string `json:"display_name"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refresh_token"`
}

type MeResponse struct {
	UserResponse
	DisplayName string `json:"display_name"`
}

// AuthService handles sign-in, sign-up, and token rotation against the
// in-process identity provider (accounts table + JWT sessions)
type AuthService interface {
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
	Refresh(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error)
	Logout(ctx context.Context, refreshToken string)
	SignUp(ctx context.Context, req SignUpRequest) (*UserResponse, error)
	Me(ctx context.Context, accountID string) (*MeResponse, error)
	CreateBootstrapAdmin(ctx context.Context, req SignUpRequest) (*UserResponse, error)
}

type authService struct {
	accounts repository.AccountRepository
	roles    repository.UserRoleRepository
	metadata repository.UserMetadataRepository
	tx       repository.TransactionManager
	audit    AuditService
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(
	accounts repository.AccountRepository,
	roles repository.UserRoleRepository,
	metadata repository.UserMetadataRepository,
	tx repository.TransactionManager,
	audit AuditService,
) AuthService {
	return &authService{
		accounts: accounts,
		roles:    roles,
		metadata: metadata,
		tx:       tx,
		audit:    audit,
	}
}

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

func jwtSecret() []byte {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "default_super_secret_key" // Development fallback only — DO NOT use in production
	}
	return []byte(secret)
}

func (s *authService) Login(ctx context.Context, req LoginRequest) (*TokenResponse, error) {
	account, err := s.accounts.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, errors.New("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(account.Password), []byte(req.Password)); err != nil {
		return nil, errors.New("invalid email or password")
	}

	role, err := s.roles.GetByAccountID(ctx, account.ID.String())
	if err != nil {
		return nil, errors.New("no permission record for this account")
	}
	if role.Status != model.StatusActive {
		return nil, errors.New("account is not active")
	}

	return s.issueTokens(ctx, account.ID.String(), role.Role)
}

func (s *authService) Refresh(ctx context.Context, req RefreshTokenRequest) (*TokenResponse, error) {
	stored, err := s.accounts.GetRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		return nil, errors.New("invalid refresh token")
	}
	if time.Now().After(stored.ExpiresAt) {
		_ = s.accounts.DeleteRefreshToken(ctx, stored.Token)
		return nil, errors.New("refresh token expired")
	}

	role, err := s.roles.GetByAccountID(ctx, stored.AccountID.String())
	if err != nil || role.Status != model.StatusActive {
		return nil, errors.New("account is not active")
	}

	// Rotate: the presented token is single-use
	_ = s.accounts.DeleteRefreshToken(ctx, stored.Token)

	return s.issueTokens(ctx, stored.AccountID.String(), role.Role)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) {
	if refreshToken != "" {
		_ = s.accounts.DeleteRefreshToken(ctx, refreshToken)
	}
}

// SignUp is the uninvited path: first sign-in creates an active UserRole with
// the default role "user". Invited e-mails must go through the invitation link.
func (s *authService) SignUp(ctx context.Context, req SignUpRequest) (*UserResponse, error) {
	if existing, err := s.roles.GetByEmail(ctx, req.Email); err == nil {
		if existing.Status == model.StatusInvited {
			return nil, errors.New("this email has a pending invitation; use the invitation link to sign up")
		}
		return nil, errors.New("email already registered")
	}

	return s.createActiveUser(ctx, req, model.RoleUser)
}

func (s *authService) Me(ctx context.Context, accountID string) (*MeResponse, error) {
	role, err := s.roles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, errors.New("user not found")
	}

	res := &MeResponse{UserResponse: *mapUserToResponse(role)}
	if meta, err := s.metadata.GetByAccountID(ctx, accountID); err == nil {
		res.DisplayName = meta.DisplayName
	}

	return res, nil
}

// CreateBootstrapAdmin creates an active admin without requiring
// authentication. FOR INITIAL SETUP ONLY; the route is disabled in release mode.
func (s *authService) CreateBootstrapAdmin(ctx context.Context, req SignUpRequest) (*UserResponse, error) {
	if _, err := s.roles.GetByEmail(ctx, req.Email); err == nil {
		return nil, errors.New("email already registered")
	}

	res, err := s.createActiveUser(ctx, req, model.RoleAdmin)
	if err != nil {
		return nil, err
	}

	if row, err := s.roles.GetByEmail(ctx, req.Email); err == nil {
		s.audit.Record(ctx, row, model.ActionAdminBootstrapped, AuditOptions{
			TargetEmail: req.Email,
		})
	}

	return res, nil
}

func (s *authService) createActiveUser(ctx context.Context, req SignUpRequest, roleName string) (*UserResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, errors.New("failed to hash password")
	}

	var created *model.UserRole
	err = s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		account := &model.Account{Email: req.Email, Password: string(hashed)}
		if err := s.accounts.Create(txCtx, account); err != nil {
			return err
		}

		accountID := account.ID
		row := &model.UserRole{
			AccountID: &accountID,
			Email:     req.Email,
			Role:      roleName,
			Status:    model.StatusActive,
		}
		if err := s.roles.Create(txCtx, row); err != nil {
			return err
		}

		if err := s.metadata.Create(txCtx, &model.UserMetadata{
			AccountID:   account.ID,
			DisplayName: req.DisplayName,
		}); err != nil {
			return err
		}

		created = row
		return nil
	})
	if err != nil {
		return nil, err
	}

	return mapUserToResponse(created), nil
}

func (s *authService) issueTokens(ctx context.Context, accountID, roleName string) (*TokenResponse, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  accountID,
		"role": roleName,
		"exp":  time.Now().Add(accessTokenTTL).Unix(),
	})

	tokenString, err := token.SignedString(jwtSecret())
	if err != nil {
		return nil, errors.New("failed to generate token")
	}

	refresh, err := newRefreshToken()
	if err != nil {
		return nil, errors.New("failed to generate refresh token")
	}

	row, err := s.accounts.GetByID(ctx, accountID)
	if err != nil {
		return nil, errors.New("account not found")
	}

	if err := s.accounts.CreateRefreshToken(ctx, &model.RefreshToken{
		AccountID: row.ID,
		Token:     refresh,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}); err != nil {
		return nil, err
	}

	return &TokenResponse{Token: tokenString, RefreshToken: refresh}, nil
}

func newRefreshToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
