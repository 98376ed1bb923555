package repository

import (
	"adminbase/internal/model"
	"context"

	"gorm.io/gorm"
)

// UserMetadataRepository defines the interface for data access of UserMetadata entities
type UserMetadataRepository interface {
	Create(ctx context.Context, meta *model.UserMetadata) error
	GetByAccountID(ctx context.Context, accountID string) (*model.UserMetadata, error)
	Update(ctx context.Context, meta *model.UserMetadata) error
	DeleteByAccountID(ctx context.Context, accountID string) error
}

type userMetadataRepository struct {
	db *gorm.DB
}

// NewUserMetadataRepository returns a new instance of UserMetadataRepository
func NewUserMetadataRepository(db *gorm.DB) UserMetadataRepository {
	return &userMetadataRepository{db: db}
}

func (r *userMetadataRepository) Create(ctx context.Context, meta *model.UserMetadata) error {
	return GetDB(ctx, r.db).Create(meta).Error
}

func (r *userMetadataRepository) GetByAccountID(ctx context.Context, accountID string) (*model.UserMetadata, error) {
	var meta model.UserMetadata
	if err := GetDB(ctx, r.db).First(&meta, "account_id = ?", accountID).Error; err != nil {
		return nil, err
	}
	return &meta, nil
}

func (r *userMetadataRepository) Update(ctx context.Context, meta *model.UserMetadata) error {
	return GetDB(ctx, r.db).Save(meta).Error
}

func (r *userMetadataRepository) DeleteByAccountID(ctx context.Context, accountID string) error {
	return GetDB(ctx, r.db).Where("account_id = ?", accountID).Delete(&model.UserMetadata{}).Error
}
