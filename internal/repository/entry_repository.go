package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"

	"homophone_dict/internal/models"
	"homophone_dict/internal/storage"
	"homophone_dict/internal/utils"
)

// EntryQuery 詞條分頁查詢條件
type EntryQuery struct {
	Page       int
	PageSize   int
	Search     string
	CategoryID *uint
}

// EntryRank 帶有時間窗口內查詢次數的詞條
type EntryRank struct {
	models.Entry
	WindowCount int64 `json:"window_count"`
}

type EntryRepository interface {
	Create(ctx context.Context, entry *models.Entry) error
	CreateInBatches(ctx context.Context, entries []*models.Entry, batchSize int) error
	FindByID(ctx context.Context, id uint) (*models.Entry, error)
	FindByIDs(ctx context.Context, ids []uint) ([]models.Entry, error)
	FindByText(ctx context.Context, normalized string) (*models.Entry, error)
	BackfillLookupKeys(ctx context.Context) (int64, error)
	List(ctx context.Context, q EntryQuery) ([]models.Entry, int64, error)
	FindByCategory(ctx context.Context, categoryID uint, limit int) ([]models.Entry, error)
	Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error)
	Delete(ctx context.Context, id uint) (int64, error)
	IncrementQueryCount(ctx context.Context, id uint) error
	TopQueried(ctx context.Context, limit int) ([]models.Entry, error)
	TopQueriedSince(ctx context.Context, since time.Time, limit int) ([]EntryRank, error)
}

type entryRepository struct {
	baseRepository[models.Entry]
}

func NewEntryRepository(db *storage.DB) EntryRepository {
	return &entryRepository{baseRepository[models.Entry]{db: db}}
}

func (r *entryRepository) Create(ctx context.Context, entry *models.Entry) error {
	return r.create(ctx, entry)
}

func (r *entryRepository) CreateInBatches(ctx context.Context, entries []*models.Entry, batchSize int) error {
	if len(entries) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(entries, batchSize).Error
}

func (r *entryRepository) FindByID(ctx context.Context, id uint) (*models.Entry, error) {
	return r.findByID(ctx, id)
}

func (r *entryRepository) FindByIDs(ctx context.Context, ids []uint) ([]models.Entry, error) {
	var entries []models.Entry
	if len(ids) == 0 {
		return entries, nil
	}
	err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&entries).Error
	return entries, err
}

// FindByText 以正規化後的英文原文精確比對，重複詞條取 ID 最小者
func (r *entryRepository) FindByText(ctx context.Context, normalized string) (*models.Entry, error) {
	var entry models.Entry
	err := r.db.WithContext(ctx).
		Where("english_lower = ?", normalized).
		Order("id asc").
		First(&entry).Error
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// BackfillLookupKeys 為比對欄位還是空的舊資料補上小寫原文
func (r *entryRepository) BackfillLookupKeys(ctx context.Context) (int64, error) {
	var updated int64
	var batch []models.Entry
	result := r.db.WithContext(ctx).
		Where("english_lower = ? AND english_text <> ?", "", "").
		FindInBatches(&batch, 500, func(tx *gorm.DB, _ int) error {
			for _, entry := range batch {
				err := tx.Model(&models.Entry{}).
					Where("id = ?", entry.ID).
					UpdateColumn("english_lower", utils.NormalizeLookup(entry.EnglishText)).Error
				if err != nil {
					return err
				}
				updated++
			}
			return nil
		})
	return updated, result.Error
}

// escapeLike 跳脫 LIKE 的萬用字元，搭配 ESCAPE '\' 使用
func escapeLike(term string) string {
	return likeEscaper.Replace(term)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`)

func (r *entryRepository) List(ctx context.Context, q EntryQuery) ([]models.Entry, int64, error) {
	scope := func(db *gorm.DB) *gorm.DB {
		if term := strings.TrimSpace(q.Search); term != "" {
			like := "%" + escapeLike(term) + "%"
			db = db.Where(`english_text LIKE ? ESCAPE '\' OR chinese_translation LIKE ? ESCAPE '\'`, like, like)
		}
		if q.CategoryID != nil {
			db = db.Where("category_id = ?", *q.CategoryID)
		}
		return db
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&models.Entry{}).Scopes(scope).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var entries []models.Entry
	err := r.db.WithContext(ctx).
		Scopes(scope).
		Order("id asc").
		Limit(q.PageSize).
		Offset((q.Page - 1) * q.PageSize).
		Find(&entries).Error
	return entries, total, err
}

// FindByCategory 依查詢次數列出某分類下的高頻詞
func (r *entryRepository) FindByCategory(ctx context.Context, categoryID uint, limit int) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.WithContext(ctx).
		Where("category_id = ?", categoryID).
		Order("query_count desc").Order("id asc").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

func (r *entryRepository) Update(ctx context.Context, id uint, fields map[string]interface{}) (int64, error) {
	if text, ok := fields["english_text"].(string); ok {
		fields["english_lower"] = utils.NormalizeLookup(text)
	}
	return r.updates(ctx, id, fields)
}

func (r *entryRepository) Delete(ctx context.Context, id uint) (int64, error) {
	return r.deleteByID(ctx, id)
}

// IncrementQueryCount 以單一語句原子地累加查詢次數
func (r *entryRepository) IncrementQueryCount(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).
		Model(&models.Entry{}).
		Where("id = ?", id).
		UpdateColumn("query_count", gorm.Expr("query_count + ?", 1)).Error
}

func (r *entryRepository) TopQueried(ctx context.Context, limit int) ([]models.Entry, error) {
	var entries []models.Entry
	err := r.db.WithContext(ctx).
		Order("query_count desc").Order("id asc").
		Limit(limit).
		Find(&entries).Error
	return entries, err
}

// TopQueriedSince 以時間窗口內的查詢紀錄數排序詞條
func (r *entryRepository) TopQueriedSince(ctx context.Context, since time.Time, limit int) ([]EntryRank, error) {
	var ranks []EntryRank
	err := r.db.WithContext(ctx).
		Table("english_entries").
		Select("english_entries.*, COUNT(query_history.id) AS window_count").
		Joins("JOIN query_history ON query_history.entry_id = english_entries.id").
		Where("query_history.query_time >= ?", since).
		Group("english_entries.id").
		Order("window_count desc").Order("english_entries.id asc").
		Limit(limit).
		Scan(&ranks).Error
	return ranks, err
}
