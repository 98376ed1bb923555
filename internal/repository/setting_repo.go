package repository

import (
	"context"
	"errors"

	"adminbase/internal/model"

	"gorm.io/gorm"
)

// ErrSettingNotFound is returned when an update targets a key that does not exist.
// Settings rows are provisioned out of band; updates never create them.
var ErrSettingNotFound = errors.New("setting key not found")

// SettingRepository defines the interface for data access of AppSetting entries
type SettingRepository interface {
	ListPublic(ctx context.Context) ([]model.AppSetting, error)
	ListAll(ctx context.Context) ([]model.AppSetting, error)
	GetByKey(ctx context.Context, key string) (*model.AppSetting, error)
	UpdateValue(ctx context.Context, key, value string) error
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository returns a new instance of SettingRepository
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) ListPublic(ctx context.Context) ([]model.AppSetting, error) {
	var settings []model.AppSetting
	if err := GetDB(ctx, r.db).Where("is_public = ?", true).Order("key asc").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingRepository) ListAll(ctx context.Context) ([]model.AppSetting, error) {
	var settings []model.AppSetting
	if err := GetDB(ctx, r.db).Order("key asc").Find(&settings).Error; err != nil {
		return nil, err
	}
	return settings, nil
}

func (r *settingRepository) GetByKey(ctx context.Context, key string) (*model.AppSetting, error) {
	var setting model.AppSetting
	if err := GetDB(ctx, r.db).First(&setting, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &setting, nil
}

func (r *settingRepository) UpdateValue(ctx context.Context, key, value string) error {
	res := GetDB(ctx, r.db).Model(&model.AppSetting{}).Where("key = ?", key).Update("value", value)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrSettingNotFound
	}
	return nil
}
