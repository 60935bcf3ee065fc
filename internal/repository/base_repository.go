package repository

import (
	"context"

	"homophone_dict/internal/storage"
)

// baseRepository 提供各資料表共用的單行 CRUD
type baseRepository[T any] struct {
	db *storage.DB
}

func (r baseRepository[T]) create(ctx context.Context, model *T) error {
	return r.db.WithContext(ctx).Create(model).Error
}

func (r baseRepository[T]) findByID(ctx context.Context, id uint) (*T, error) {
	var model T
	if err := r.db.WithContext(ctx).First(&model, id).Error; err != nil {
		return nil, err
	}
	return &model, nil
}

// updates 只更新給定欄位，回傳受影響的行數
func (r baseRepository[T]) updates(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	var model T
	result := r.db.WithContext(ctx).Model(&model).Where("id = ?", id).Updates(fields)
	return result.RowsAffected, result.Error
}

func (r baseRepository[T]) deleteByID(ctx context.Context, id uint) (int64, error) {
	var model T
	result := r.db.WithContext(ctx).Delete(&model, id)
	return result.RowsAffected, result.Error
}
