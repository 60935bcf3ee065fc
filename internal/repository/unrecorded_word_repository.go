package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"homophone_dict/internal/models"
	"homophone_dict/internal/storage"
)

type UnrecordedWordRepository interface {
	// Record 新增未收錄詞，已存在則請求次數加一
	Record(ctx context.Context, word string) error
	FindByWord(ctx context.Context, word string) (*models.UnrecordedWord, error)
	List(ctx context.Context, limit int) ([]models.UnrecordedWord, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type unrecordedWordRepository struct {
	baseRepository[models.UnrecordedWord]
}

func NewUnrecordedWordRepository(db *storage.DB) UnrecordedWordRepository {
	return &unrecordedWordRepository{baseRepository[models.UnrecordedWord]{db: db}}
}

func (r *unrecordedWordRepository) Record(ctx context.Context, word string) error {
	row := models.UnrecordedWord{Word: word, RequestCount: 1}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "word"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"request_count": gorm.Expr("unrecorded_words.request_count + 1"),
			"updated_at":    time.Now(),
		}),
	}).Create(&row).Error
}

func (r *unrecordedWordRepository) FindByWord(ctx context.Context, word string) (*models.UnrecordedWord, error) {
	var row models.UnrecordedWord
	if err := r.db.WithContext(ctx).Where("word = ?", word).First(&row).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List 依請求次數倒序列出
func (r *unrecordedWordRepository) List(ctx context.Context, limit int) ([]models.UnrecordedWord, error) {
	var rows []models.UnrecordedWord
	err := r.db.WithContext(ctx).
		Order("request_count desc").Order("id asc").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}

func (r *unrecordedWordRepository) Delete(ctx context.Context, id uint) (int64, error) {
	return r.deleteByID(ctx, id)
}
