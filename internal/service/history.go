package service

import (
	"context"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
)

const (
	insightSampleSize   = 100
	insightRecentWords  = 50
	insightTopCategory  = 3
	insightRecentWindow = 7 * 24 * time.Hour
)

// HistoryItem 查詢紀錄及對應詞條，詞條已刪除時 Entry 為 nil
type HistoryItem struct {
	models.QueryHistory
	Entry *models.Entry `json:"entry"`
}

type HistoryService struct {
	historyRepo  repository.HistoryRepository
	entryRepo    repository.EntryRepository
	categoryRepo repository.CategoryRepository
	logger       *logrus.Logger
	now          func() time.Time
}

func NewHistoryService(repos *repository.Repositories, logger *logrus.Logger, now func() time.Time) *HistoryService {
	return &HistoryService{
		historyRepo:  repos.History,
		entryRepo:    repos.Entry,
		categoryRepo: repos.Category,
		logger:       logger,
		now:          now,
	}
}

func (s *HistoryService) List(ctx context.Context, actor *Actor, limit int) ([]HistoryItem, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	histories, err := s.historyRepo.ListByUser(ctx, actor.ID, clampLimit(limit, 100, 500))
	if err != nil {
		return nil, internalError("讀取查詢歷史失敗", err)
	}
	entryByID, err := s.entriesFor(ctx, histories)
	if err != nil {
		return nil, err
	}

	items := make([]HistoryItem, 0, len(histories))
	for _, h := range histories {
		item := HistoryItem{QueryHistory: h}
		if entry, ok := entryByID[h.EntryID]; ok {
			item.Entry = &entry
		}
		items = append(items, item)
	}
	return items, nil
}

// Delete 只能刪除自己的紀錄，刪除他人的紀錄視為不存在
func (s *HistoryService) Delete(ctx context.Context, actor *Actor, historyID uint) error {
	if err := requireAuthenticated(actor); err != nil {
		return err
	}
	n, err := s.historyRepo.DeleteForUser(ctx, actor.ID, historyID)
	if err != nil {
		return internalError("刪除查詢歷史失敗", err)
	}
	if n == 0 {
		return notFoundError("查詢紀錄不存在")
	}
	return nil
}

func (s *HistoryService) Clear(ctx context.Context, actor *Actor) (int64, error) {
	if err := requireAuthenticated(actor); err != nil {
		return 0, err
	}
	n, err := s.historyRepo.ClearForUser(ctx, actor.ID)
	if err != nil {
		return 0, internalError("清空查詢歷史失敗", err)
	}
	return n, nil
}

func (s *HistoryService) Purge(ctx context.Context, actor *Actor, months int) (int64, error) {
	if err := requireAdmin(actor); err != nil {
		return 0, err
	}
	return s.PurgeOlderThan(ctx, months)
}

// PurgeOlderThan 刪除 months 個月以前的所有查詢紀錄，供維護指令直接呼叫
func (s *HistoryService) PurgeOlderThan(ctx context.Context, months int) (int64, error) {
	if months <= 0 {
		return 0, validationError("保留月數必須大於 0")
	}
	cutoff := s.now().AddDate(0, -months, 0)
	n, err := s.historyRepo.DeleteBefore(ctx, cutoff)
	if err != nil {
		return 0, internalError("清理查詢歷史失敗", err)
	}
	s.logger.WithFields(logrus.Fields{
		"months":  months,
		"cutoff":  cutoff,
		"deleted": n,
	}).Info("query history purged")
	return n, nil
}

// CategoryFrequency 分類名稱與出現次數
type CategoryFrequency struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Insights 以最近 100 筆查詢紀錄統計的學習概況
type Insights struct {
	TotalQueries  int                 `json:"total_queries"`
	RecentQueries int                 `json:"recent_queries"`
	TopCategories []CategoryFrequency `json:"top_categories"`
	RecentWords   []string            `json:"recent_words"`
}

func (s *HistoryService) Insights(ctx context.Context, actor *Actor) (*Insights, error) {
	if err := requireAuthenticated(actor); err != nil {
		return nil, err
	}
	histories, err := s.historyRepo.ListByUser(ctx, actor.ID, insightSampleSize)
	if err != nil {
		return nil, internalError("讀取查詢歷史失敗", err)
	}
	entryByID, err := s.entriesFor(ctx, histories)
	if err != nil {
		return nil, err
	}
	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("讀取分類失敗", err)
	}
	categoryByID := lo.KeyBy(categories, func(c models.Category) uint { return c.ID })

	since := s.now().Add(-insightRecentWindow)
	insights := &Insights{
		TotalQueries:  len(histories),
		RecentQueries: lo.CountBy(histories, func(h models.QueryHistory) bool { return h.QueryTime.After(since) }),
		TopCategories: []CategoryFrequency{},
		RecentWords:   []string{},
	}

	counts := map[string]int{}
	seen := map[string]bool{}
	for _, h := range histories {
		entry, ok := entryByID[h.EntryID]
		if !ok {
			continue
		}
		if category, ok := categoryByID[entry.CategoryID]; ok {
			counts[category.Name]++
		}
		if !seen[entry.EnglishText] && len(insights.RecentWords) < insightRecentWords {
			seen[entry.EnglishText] = true
			insights.RecentWords = append(insights.RecentWords, entry.EnglishText)
		}
	}

	for name, count := range counts {
		insights.TopCategories = append(insights.TopCategories, CategoryFrequency{Name: name, Count: count})
	}
	sort.Slice(insights.TopCategories, func(i, j int) bool {
		a, b := insights.TopCategories[i], insights.TopCategories[j]
		if a.Count != b.Count {
			return a.Count > b.Count
		}
		return a.Name < b.Name
	})
	if len(insights.TopCategories) > insightTopCategory {
		insights.TopCategories = insights.TopCategories[:insightTopCategory]
	}
	return insights, nil
}

func (s *HistoryService) entriesFor(ctx context.Context, histories []models.QueryHistory) (map[uint]models.Entry, error) {
	ids := lo.Uniq(lo.Map(histories, func(h models.QueryHistory, _ int) uint { return h.EntryID }))
	entries, err := s.entryRepo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, internalError("讀取詞條失敗", err)
	}
	return lo.KeyBy(entries, func(e models.Entry) uint { return e.ID }), nil
}
