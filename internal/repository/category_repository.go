package repository

import (
	"context"

	"homophone_dict/internal/models"
	"homophone_dict/internal/storage"
)

type CategoryRepository interface {
	Create(ctx context.Context, category *models.Category) error
	FindByID(ctx context.Context, id uint) (*models.Category, error)
	FindAll(ctx context.Context) ([]models.Category, error)
	FindByParentID(ctx context.Context, parentID uint) ([]models.Category, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type categoryRepository struct {
	baseRepository[models.Category]
}

func NewCategoryRepository(db *storage.DB) CategoryRepository {
	return &categoryRepository{baseRepository[models.Category]{db: db}}
}

func (r *categoryRepository) Create(ctx context.Context, category *models.Category) error {
	return r.create(ctx, category)
}

func (r *categoryRepository) FindByID(ctx context.Context, id uint) (*models.Category, error) {
	return r.findByID(ctx, id)
}

// FindAll 依排序權重及 ID 列出所有分類
func (r *categoryRepository) FindAll(ctx context.Context) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).Order("sort_order asc").Order("id asc").Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) FindByParentID(ctx context.Context, parentID uint) ([]models.Category, error) {
	var categories []models.Category
	err := r.db.WithContext(ctx).
		Where("parent_id = ?", parentID).
		Order("sort_order asc").Order("id asc").
		Find(&categories).Error
	return categories, err
}

func (r *categoryRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	return r.updates(ctx, id, fields)
}

func (r *categoryRepository) Delete(ctx context.Context, id uint) (int64, error) {
	return r.deleteByID(ctx, id)
}
