package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"homophone_dict/internal/models"
	"homophone_dict/internal/storage"
)

type AuditorPermissionRepository interface {
	Create(ctx context.Context, permission *models.AuditorPermission) error
	ListByAuditor(ctx context.Context, auditorID uint) ([]models.AuditorPermission, error)
	Delete(ctx context.Context, auditorID, categoryID uint) (int64, error)
}

type auditorPermissionRepository struct {
	baseRepository[models.AuditorPermission]
}

func NewAuditorPermissionRepository(db *storage.DB) AuditorPermissionRepository {
	return &auditorPermissionRepository{baseRepository[models.AuditorPermission]{db: db}}
}

func (r *auditorPermissionRepository) Create(ctx context.Context, permission *models.AuditorPermission) error {
	return r.create(ctx, permission)
}

func (r *auditorPermissionRepository) ListByAuditor(ctx context.Context, auditorID uint) ([]models.AuditorPermission, error) {
	var permissions []models.AuditorPermission
	err := r.db.WithContext(ctx).Where("auditor_id = ?", auditorID).Order("category_id asc").Find(&permissions).Error
	return permissions, err
}

func (r *auditorPermissionRepository) Delete(ctx context.Context, auditorID, categoryID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("auditor_id = ? AND category_id = ?", auditorID, categoryID).
		Delete(&models.AuditorPermission{})
	return result.RowsAffected, result.Error
}

type SystemConfigRepository interface {
	Get(ctx context.Context, key string) (*models.SystemConfig, error)
	// Set 以 config_key 為鍵寫入，已存在則覆寫值；說明為空時保留原說明
	Set(ctx context.Context, cfg *models.SystemConfig) error
}

type systemConfigRepository struct {
	baseRepository[models.SystemConfig]
}

func NewSystemConfigRepository(db *storage.DB) SystemConfigRepository {
	return &systemConfigRepository{baseRepository[models.SystemConfig]{db: db}}
}

func (r *systemConfigRepository) Get(ctx context.Context, key string) (*models.SystemConfig, error) {
	var cfg models.SystemConfig
	if err := r.db.WithContext(ctx).Where("config_key = ?", key).First(&cfg).Error; err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *systemConfigRepository) Set(ctx context.Context, cfg *models.SystemConfig) error {
	columns := []string{"config_value", "updated_at"}
	if cfg.Description != "" {
		columns = append(columns, "description")
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "config_key"}},
		DoUpdates: clause.AssignmentColumns(columns),
	}).Create(cfg).Error
}
