package repository

import (
	"adminbase/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserRoleRepository defines the interface for data access of UserRole entities
type UserRoleRepository interface {
	Create(ctx context.Context, row *model.UserRole) error
	GetByID(ctx context.Context, id string) (*model.UserRole, error)
	GetByEmail(ctx context.Context, email string) (*model.UserRole, error)
	GetByAccountID(ctx context.Context, accountID string) (*model.UserRole, error)
	GetByInvitation(ctx context.Context, token, email string) (*model.UserRole, error)
	List(ctx context.Context, page, limit int) ([]model.UserRole, int64, error)
	Update(ctx context.Context, row *model.UserRole) error
	Delete(ctx context.Context, id string) error
}

type userRoleRepository struct {
	db *gorm.DB
}

// NewUserRoleRepository returns a new instance of UserRoleRepository
func NewUserRoleRepository(db *gorm.DB) UserRoleRepository {
	return &userRoleRepository{db: db}
}

func (r *userRoleRepository) Create(ctx context.Context, row *model.UserRole) error {
	return GetDB(ctx, r.db).Create(row).Error
}

func (r *userRoleRepository) GetByID(ctx context.Context, id string) (*model.UserRole, error) {
	var row model.UserRole
	if err := GetDB(ctx, r.db).First(&row, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userRoleRepository) GetByEmail(ctx context.Context, email string) (*model.UserRole, error) {
	var row model.UserRole
	if err := GetDB(ctx, r.db).First(&row, "email = ?", email).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userRoleRepository) GetByAccountID(ctx context.Context, accountID string) (*model.UserRole, error) {
	var row model.UserRole
	if err := GetDB(ctx, r.db).First(&row, "account_id = ?", accountID).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// GetByInvitation matches both the invitation token and the invited email, so a
// leaked token alone cannot be probed against other addresses.
func (r *userRoleRepository) GetByInvitation(ctx context.Context, token, email string) (*model.UserRole, error) {
	var row model.UserRole
	if err := GetDB(ctx, r.db).First(&row, "invitation_token = ? AND email = ?", token, email).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *userRoleRepository) List(ctx context.Context, page, limit int) ([]model.UserRole, int64, error) {
	var rows []model.UserRole
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.UserRole{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&rows).Error; err != nil {
		return nil, 0, err
	}

	return rows, total, nil
}

func (r *userRoleRepository) Update(ctx context.Context, row *model.UserRole) error {
	return GetDB(ctx, r.db).Save(row).Error
}

func (r *userRoleRepository) Delete(ctx context.Context, id string) error {
	return GetDB(ctx, r.db).Where("id = ?", id).Delete(&model.UserRole{}).Error
}
