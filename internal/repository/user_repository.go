package repository

import (
	"context"
	"time"

	"homophone_dict/internal/models"
	"homophone_dict/internal/storage"
)

type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (*models.User, error)
	FindByOpenID(ctx context.Context, openID string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.User, error)
	FindAll(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error)
	SetDisabled(ctx context.Context, id uint, disabled bool) (int64, error)
	TouchSignedIn(ctx context.Context, id uint, at time.Time) error
	Delete(ctx context.Context, id uint) (int64, error)
}

type userRepository struct {
	baseRepository[models.User]
}

func NewUserRepository(db *storage.DB) UserRepository {
	return &userRepository{baseRepository[models.User]{db: db}}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.create(ctx, user)
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (*models.User, error) {
	return r.findByID(ctx, id)
}

func (r *userRepository) FindByOpenID(ctx context.Context, openID string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("open_id = ?", openID).First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).Where("email = ?", email).Order("id asc").First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *userRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.User, error) {
	var users []models.User
	if len(ids) == 0 {
		return users, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&users).Error
	return users, err
}

// FindAll 依建立時間倒序列出所有用戶
func (r *userRepository) FindAll(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&users).Error
	return users, err
}

func (r *userRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	return r.updates(ctx, id, fields)
}

func (r *userRepository) SetDisabled(ctx context.Context, id uint, disabled bool) (int64, error) {
	return r.updates(ctx, id, map[string]interface{}{"is_disabled": disabled})
}

func (r *userRepository) TouchSignedIn(ctx context.Context, id uint, at time.Time) error {
	_, err := r.updates(ctx, id, map[string]interface{}{"last_signed_in": at})
	return err
}

func (r *userRepository) Delete(ctx context.Context, id uint) (int64, error) {
	return r.deleteByID(ctx, id)
}
