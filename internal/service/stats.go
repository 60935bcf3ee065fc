package service

import (
	"context"
	"time"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
)

// TopWord 排行榜中的一個詞條。Count 在指定天數時為區間內查詢次數，否則為累計查詢次數
type TopWord struct {
	models.Entry
	Count int64 `json:"count"`
}

type StatsService struct {
	entryRepo      repository.EntryRepository
	unrecordedRepo repository.UnrecordedWordRepository
	now            func() time.Time
}

func NewStatsService(repos *repository.Repositories, now func() time.Time) *StatsService {
	return &StatsService{entryRepo: repos.Entry, unrecordedRepo: repos.UnrecordedWord, now: now}
}

// TopWords days 大於 0 時以區間內的查詢紀錄排序，只計入已登入用戶的查詢
func (s *StatsService) TopWords(ctx context.Context, limit, days int) ([]TopWord, error) {
	limit = clampLimit(limit, 50, 200)
	if days < 0 {
		return nil, validationError("天數不能為負數")
	}

	words := []TopWord{}
	if days == 0 {
		entries, err := s.entryRepo.TopQueried(ctx, limit)
		if err != nil {
			return nil, internalError("讀取排行榜失敗", err)
		}
		for _, e := range entries {
			words = append(words, TopWord{Entry: e, Count: e.QueryCount})
		}
		return words, nil
	}

	since := s.now().AddDate(0, 0, -days)
	ranks, err := s.entryRepo.TopQueriedSince(ctx, since, limit)
	if err != nil {
		return nil, internalError("讀取排行榜失敗", err)
	}
	for _, r := range ranks {
		words = append(words, TopWord{Entry: r.Entry, Count: r.WindowCount})
	}
	return words, nil
}

func (s *StatsService) UnrecordedWords(ctx context.Context, actor *Actor, limit int) ([]models.UnrecordedWord, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	words, err := s.unrecordedRepo.List(ctx, clampLimit(limit, 100, 500))
	if err != nil {
		return nil, internalError("讀取未收錄詞失敗", err)
	}
	if words == nil {
		words = []models.UnrecordedWord{}
	}
	return words, nil
}

func (s *StatsService) DeleteUnrecordedWord(ctx context.Context, actor *Actor, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	n, err := s.unrecordedRepo.Delete(ctx, id)
	if err != nil {
		return internalError("刪除未收錄詞失敗", err)
	}
	if n == 0 {
		return notFoundError("未收錄詞不存在")
	}
	return nil
}
