package repository

import (
	"context"
	"time"

	"homophone_dict/internal/models"
	"homophone_dict/internal/storage"
)

type HistoryRepository interface {
	Create(ctx context.Context, history *models.QueryHistory) error
	ListByUser(ctx context.Context, userID uint, limit int) ([]models.QueryHistory, error)
	DeleteForUser(ctx context.Context, userID, historyID uint) (int64, error)
	ClearForUser(ctx context.Context, userID uint) (int64, error)
	DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

type historyRepository struct {
	baseRepository[models.QueryHistory]
}

func NewHistoryRepository(db *storage.DB) HistoryRepository {
	return &historyRepository{baseRepository[models.QueryHistory]{db: db}}
}

func (r *historyRepository) Create(ctx context.Context, history *models.QueryHistory) error {
	return r.create(ctx, history)
}

// ListByUser 依查詢時間倒序列出用戶的歷史紀錄
func (r *historyRepository) ListByUser(ctx context.Context, userID uint, limit int) ([]models.QueryHistory, error) {
	var histories []models.QueryHistory
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("query_time desc").Order("id desc").
		Limit(limit).
		Find(&histories).Error
	return histories, err
}

// DeleteForUser 只刪除屬於該用戶的紀錄
func (r *historyRepository) DeleteForUser(ctx context.Context, userID, historyID uint) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, historyID).
		Delete(&models.QueryHistory{})
	return result.RowsAffected, result.Error
}

func (r *historyRepository) ClearForUser(ctx context.Context, userID uint) (int64, error) {
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.QueryHistory{})
	return result.RowsAffected, result.Error
}

func (r *historyRepository) DeleteBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result := r.db.WithContext(ctx).Where("query_time < ?", cutoff).Delete(&models.QueryHistory{})
	return result.RowsAffected, result.Error
}
