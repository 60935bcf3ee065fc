package repository

import (
	"context"

	"homophone_dict/internal/models"
	"homophone_dict/internal/storage"
)

type AuditRecordRepository interface {
	Create(ctx context.Context, record *models.AuditRecord) error
	CreateInBatches(ctx context.Context, records []*models.AuditRecord, batchSize int) error
	FindByHomophone(ctx context.Context, homophoneID uint) ([]models.AuditRecord, error)
	FindByHomophones(ctx context.Context, homophoneIDs []uint) ([]models.AuditRecord, error)
	ExistsForAuditor(ctx context.Context, homophoneID, auditorID uint) (bool, error)
	CountByAction(ctx context.Context, homophoneID uint, action models.AuditAction) (int64, error)
}

type auditRecordRepository struct {
	baseRepository[models.AuditRecord]
}

func NewAuditRecordRepository(db *storage.DB) AuditRecordRepository {
	return &auditRecordRepository{baseRepository[models.AuditRecord]{db: db}}
}

func (r *auditRecordRepository) Create(ctx context.Context, record *models.AuditRecord) error {
	return r.create(ctx, record)
}

func (r *auditRecordRepository) CreateInBatches(ctx context.Context, records []*models.AuditRecord, batchSize int) error {
	if len(records) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(records, batchSize).Error
}

func (r *auditRecordRepository) FindByHomophone(ctx context.Context, homophoneID uint) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	err := r.db.WithContext(ctx).Where("homophone_id = ?", homophoneID).Order("id asc").Find(&records).Error
	return records, err
}

func (r *auditRecordRepository) FindByHomophones(ctx context.Context, homophoneIDs []uint) ([]models.AuditRecord, error) {
	var records []models.AuditRecord
	if len(homophoneIDs) == 0 {
		return records, nil
	}
	err := r.db.WithContext(ctx).Where("homophone_id IN ?", homophoneIDs).Order("id asc").Find(&records).Error
	return records, err
}

func (r *auditRecordRepository) ExistsForAuditor(ctx context.Context, homophoneID, auditorID uint) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditRecord{}).
		Where("homophone_id = ? AND auditor_id = ?", homophoneID, auditorID).
		Count(&count).Error
	return count > 0, err
}

// CountByAction 從審核紀錄重新計算某動作的票數
func (r *auditRecordRepository) CountByAction(ctx context.Context, homophoneID uint, action models.AuditAction) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.AuditRecord{}).
		Where("homophone_id = ? AND action = ?", homophoneID, action).
		Count(&count).Error
	return count, err
}
