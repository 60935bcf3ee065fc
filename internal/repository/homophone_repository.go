package repository

import (
	"context"

	"gorm.io/gorm/clause"

	"homophone_dict/internal/models"
	"homophone_dict/internal/storage"
)

type HomophoneRepository interface {
	Create(ctx context.Context, homophone *models.Homophone) error
	CreateInBatches(ctx context.Context, homophones []*models.Homophone, batchSize int) error
	FindByID(ctx context.Context, id uint) (*models.Homophone, error)
	// FindByIDForUpdate 在交易中鎖定該行，SQLite 會忽略鎖定子句
	FindByIDForUpdate(ctx context.Context, id uint) (*models.Homophone, error)
	FindApprovedByEntry(ctx context.Context, entryID uint) ([]models.Homophone, error)
	FindByEntry(ctx context.Context, entryID uint) ([]models.Homophone, error)
	FindPending(ctx context.Context) ([]models.Homophone, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
}

type homophoneRepository struct {
	baseRepository[models.Homophone]
}

func NewHomophoneRepository(db *storage.DB) HomophoneRepository {
	return &homophoneRepository{baseRepository[models.Homophone]{db: db}}
}

func (r *homophoneRepository) Create(ctx context.Context, homophone *models.Homophone) error {
	return r.create(ctx, homophone)
}

func (r *homophoneRepository) CreateInBatches(ctx context.Context, homophones []*models.Homophone, batchSize int) error {
	if len(homophones) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(homophones, batchSize).Error
}

func (r *homophoneRepository) FindByID(ctx context.Context, id uint) (*models.Homophone, error) {
	return r.findByID(ctx, id)
}

func (r *homophoneRepository) FindByIDForUpdate(ctx context.Context, id uint) (*models.Homophone, error) {
	var homophone models.Homophone
	db := r.db.WithContext(ctx)
	if db.Dialector.Name() != "sqlite" {
		db = db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := db.First(&homophone, id).Error; err != nil {
		return nil, err
	}
	return &homophone, nil
}

func (r *homophoneRepository) FindApprovedByEntry(ctx context.Context, entryID uint) ([]models.Homophone, error) {
	var homophones []models.Homophone
	err := r.db.WithContext(ctx).
		Where("entry_id = ? AND audit_status = ?", entryID, models.AuditStatusApproved).
		Order("id asc").
		Find(&homophones).Error
	return homophones, err
}

func (r *homophoneRepository) FindByEntry(ctx context.Context, entryID uint) ([]models.Homophone, error) {
	var homophones []models.Homophone
	err := r.db.WithContext(ctx).Where("entry_id = ?", entryID).Order("id asc").Find(&homophones).Error
	return homophones, err
}

// FindPending 依提交時間列出待審核諧音
func (r *homophoneRepository) FindPending(ctx context.Context) ([]models.Homophone, error) {
	var homophones []models.Homophone
	err := r.db.WithContext(ctx).
		Where("audit_status = ?", models.AuditStatusPending).
		Order("created_at asc").Order("id asc").
		Find(&homophones).Error
	return homophones, err
}

func (r *homophoneRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	return r.updates(ctx, id, fields)
}

func (r *homophoneRepository) Delete(ctx context.Context, id uint) (int64, error) {
	return r.deleteByID(ctx, id)
}
