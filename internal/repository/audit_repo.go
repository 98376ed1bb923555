package repository

import (
	"context"

	"adminbase/internal/model"

	"gorm.io/gorm"
)

// AuditRepository is append-and-list only; audit rows are never updated or deleted
type AuditRepository interface {
	Append(ctx context.Context, entry *model.AdminAuditLog) error
	List(ctx context.Context, page, limit int) ([]model.AdminAuditLog, int64, error)
}

type auditRepository struct {
	db *gorm.DB
}

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{db: db}
}

func (r *auditRepository) Append(ctx context.Context, entry *model.AdminAuditLog) error {
	return GetDB(ctx, r.db).Create(entry).Error
}

func (r *auditRepository) List(ctx context.Context, page, limit int) ([]model.AdminAuditLog, int64, error) {
	var entries []model.AdminAuditLog
	var total int64

	db := GetDB(ctx, r.db)
	if err := db.Model(&model.AdminAuditLog{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * limit
	if err := db.Order("created_at desc").Offset(offset).Limit(limit).Find(&entries).Error; err != nil {
		return nil, 0, err
	}

	return entries, total, nil
}
