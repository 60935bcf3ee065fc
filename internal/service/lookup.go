package service

import (
	"context"
	"errors"
	"time"
	"unicode/utf8"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
	"homophone_dict/internal/utils"
)

const (
	MaxSearchLength = 50
	NotFoundMessage = "該內容不在詞庫中，已記錄需求，後續將補充"
)

// SearchResult 查詢結果。Found 為 false 時只有 Message，為 true 時帶有 SearchHit
type SearchResult struct {
	Found   bool   `json:"found"`
	Message string `json:"message,omitempty"`
	*SearchHit
}

type SearchHit struct {
	Entry        models.Entry       `json:"entry"`
	Homophones   []models.Homophone `json:"homophones"`
	CategoryPath string             `json:"category_path"`
}

type LookupService struct {
	entryRepo      repository.EntryRepository
	homophoneRepo  repository.HomophoneRepository
	categoryRepo   repository.CategoryRepository
	historyRepo    repository.HistoryRepository
	unrecordedRepo repository.UnrecordedWordRepository
	logger         *logrus.Logger
	now            func() time.Time
}

func NewLookupService(repos *repository.Repositories, logger *logrus.Logger, now func() time.Time) *LookupService {
	return &LookupService{
		entryRepo:      repos.Entry,
		homophoneRepo:  repos.Homophone,
		categoryRepo:   repos.Category,
		historyRepo:    repos.History,
		unrecordedRepo: repos.UnrecordedWord,
		logger:         logger,
		now:            now,
	}
}

// Search 以不分大小寫的精確比對查詢詞條。
// 查詢次數、歷史紀錄與未收錄詞的寫入都是盡力而為，失敗只記錄警告，不影響查詢結果。
func (s *LookupService) Search(ctx context.Context, actor *Actor, text string) (*SearchResult, error) {
	text = utils.SanitizeInput(text, 0)
	if text == "" {
		return nil, validationError("查詢內容不能為空")
	}
	if utf8.RuneCountInString(text) > MaxSearchLength {
		return nil, validationError("查詢內容不能超過 50 個字元")
	}
	normalized := utils.NormalizeLookup(text)

	entry, err := s.entryRepo.FindByText(ctx, normalized)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := s.unrecordedRepo.Record(ctx, normalized); err != nil {
			s.logger.WithError(err).WithField("word", normalized).Warn("記錄未收錄詞失敗")
		}
		return &SearchResult{Found: false, Message: NotFoundMessage}, nil
	}
	if err != nil {
		return nil, internalError("查詢詞條失敗", err)
	}

	if err := s.entryRepo.IncrementQueryCount(ctx, entry.ID); err != nil {
		s.logger.WithError(err).WithField("entry_id", entry.ID).Warn("增加查詢次數失敗")
	} else {
		entry.QueryCount++
	}

	if actor != nil {
		history := &models.QueryHistory{UserID: actor.ID, EntryID: entry.ID, QueryTime: s.now()}
		if err := s.historyRepo.Create(ctx, history); err != nil {
			s.logger.WithError(err).WithFields(logrus.Fields{
				"user_id":  actor.ID,
				"entry_id": entry.ID,
			}).Warn("記錄查詢歷史失敗")
		}
	}

	homophones, err := s.homophoneRepo.FindApprovedByEntry(ctx, entry.ID)
	if err != nil {
		return nil, internalError("讀取諧音失敗", err)
	}
	if homophones == nil {
		homophones = []models.Homophone{}
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("讀取分類失敗", err)
	}

	return &SearchResult{
		Found: true,
		SearchHit: &SearchHit{
			Entry:        *entry,
			Homophones:   homophones,
			CategoryPath: CategoryPath(categories, entry.CategoryID),
		},
	}, nil
}

// TopByCategory 列出分類下查詢次數最高的詞條
func (s *LookupService) TopByCategory(ctx context.Context, categoryID uint, limit int) ([]models.Entry, error) {
	entries, err := s.entryRepo.FindByCategory(ctx, categoryID, clampLimit(limit, 20, 100))
	if err != nil {
		return nil, internalError("讀取分類詞條失敗", err)
	}
	return entries, nil
}

// clampLimit 非正數時使用預設值，並限制最大值
func clampLimit(limit, def, max int) int {
	if limit <= 0 {
		return def
	}
	if limit > max {
		return max
	}
	return limit
}
