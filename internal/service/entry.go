package service

import (
	"context"
	"unicode/utf8"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
	"homophone_dict/internal/utils"
)

const (
	maxEnglishLength    = 500
	maxHomophoneLength  = 500
	maxPageSize         = 200
	adminHomophoneNote  = "管理員新增詞條時直接建立"
	importHomophoneNote = "詞庫匯入時直接建立"
)

type EntryService struct {
	repos *repository.Repositories
}

func NewEntryService(repos *repository.Repositories) *EntryService {
	return &EntryService{repos: repos}
}

type EntryListInput struct {
	Page       int
	PageSize   int
	Search     string
	CategoryID *uint
}

type EntryPage struct {
	Data     []models.Entry `json:"data"`
	Total    int64          `json:"total"`
	Page     int            `json:"page"`
	PageSize int            `json:"page_size"`
}

func (s *EntryService) List(ctx context.Context, actor *Actor, input EntryListInput) (*EntryPage, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if input.Page <= 0 {
		input.Page = 1
	}
	input.PageSize = clampLimit(input.PageSize, 50, maxPageSize)

	data, total, err := s.repos.Entry.List(ctx, repository.EntryQuery{
		Page:       input.Page,
		PageSize:   input.PageSize,
		Search:     utils.SanitizeInput(input.Search, 100),
		CategoryID: input.CategoryID,
	})
	if err != nil {
		return nil, internalError("讀取詞條列表失敗", err)
	}
	if data == nil {
		data = []models.Entry{}
	}
	return &EntryPage{Data: data, Total: total, Page: input.Page, PageSize: input.PageSize}, nil
}

func (s *EntryService) Get(ctx context.Context, id uint) (*models.Entry, error) {
	entry, err := s.repos.Entry.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(err, "詞條不存在", "讀取詞條失敗")
	}
	return entry, nil
}

type CreateEntryInput struct {
	EnglishText        string
	ChineseTranslation string
	IPA                string
	Syllables          string
	CategoryID         uint
	// HomophoneText 非空時一併建立已通過的諧音
	HomophoneText string
}

type CreateEntryResult struct {
	Entry     *models.Entry     `json:"entry"`
	Homophone *models.Homophone `json:"homophone,omitempty"`
}

// Create 新增詞條。附帶的諧音由管理員建立，直接進入 approved 狀態並留下一筆審核紀錄
func (s *EntryService) Create(ctx context.Context, actor *Actor, input CreateEntryInput) (*CreateEntryResult, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}

	english := utils.SanitizeInput(input.EnglishText, 0)
	chinese := utils.SanitizeInput(input.ChineseTranslation, 0)
	if english == "" || chinese == "" {
		return nil, validationError("英文原文與中文譯文不能為空")
	}
	if utf8.RuneCountInString(english) > maxEnglishLength {
		return nil, validationError("英文原文不能超過 500 個字元")
	}
	homophoneText := utils.SanitizeInput(input.HomophoneText, 0)
	if utf8.RuneCountInString(homophoneText) > maxHomophoneLength {
		return nil, validationError("諧音內容不能超過 500 個字元")
	}

	entry := &models.Entry{
		EnglishText:        english,
		ChineseTranslation: chinese,
		IPA:                utils.SanitizeInput(input.IPA, 200),
		Syllables:          utils.SanitizeInput(input.Syllables, 200),
		CategoryID:         input.CategoryID,
	}
	result := &CreateEntryResult{Entry: entry}

	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Entry.Create(ctx, entry); err != nil {
			return err
		}
		if homophoneText == "" {
			return nil
		}

		homophone := &models.Homophone{
			EntryID:       entry.ID,
			Text:          homophoneText,
			AuditStatus:   models.AuditStatusApproved,
			SubmitterID:   actor.ID,
			ApprovalCount: 1,
		}
		if err := tx.Homophone.Create(ctx, homophone); err != nil {
			return err
		}
		record := &models.AuditRecord{
			HomophoneID: homophone.ID,
			AuditorID:   actor.ID,
			Action:      models.AuditActionApprove,
			Opinion:     adminHomophoneNote,
		}
		if err := tx.AuditRecord.Create(ctx, record); err != nil {
			return err
		}
		result.Homophone = homophone
		return nil
	})
	if err != nil {
		return nil, internalError("創建詞條失敗", err)
	}
	return result, nil
}

type UpdateEntryInput struct {
	EnglishText        *string
	ChineseTranslation *string
	IPA                *string
	Syllables          *string
	CategoryID         *uint
}

func (s *EntryService) Update(ctx context.Context, actor *Actor, id uint, input UpdateEntryInput) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if _, err := s.repos.Entry.FindByID(ctx, id); err != nil {
		return storeError(err, "詞條不存在", "讀取詞條失敗")
	}

	fields := map[string]interface{}{}
	if input.EnglishText != nil {
		english := utils.SanitizeInput(*input.EnglishText, 0)
		if english == "" || utf8.RuneCountInString(english) > maxEnglishLength {
			return validationError("英文原文不能為空且不能超過 500 個字元")
		}
		fields["english_text"] = english
	}
	if input.ChineseTranslation != nil {
		chinese := utils.SanitizeInput(*input.ChineseTranslation, 0)
		if chinese == "" {
			return validationError("中文譯文不能為空")
		}
		fields["chinese_translation"] = chinese
	}
	if input.IPA != nil {
		fields["ipa"] = utils.SanitizeInput(*input.IPA, 200)
	}
	if input.Syllables != nil {
		fields["syllables"] = utils.SanitizeInput(*input.Syllables, 200)
	}
	if input.CategoryID != nil {
		fields["category_id"] = *input.CategoryID
	}
	if len(fields) == 0 {
		return nil
	}

	if _, err := s.repos.Entry.Update(ctx, id, fields); err != nil {
		return internalError("更新詞條失敗", err)
	}
	return nil
}

// Delete 不會連帶刪除諧音與歷史紀錄
func (s *EntryService) Delete(ctx context.Context, actor *Actor, id uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	n, err := s.repos.Entry.Delete(ctx, id)
	if err != nil {
		return internalError("刪除詞條失敗", err)
	}
	if n == 0 {
		return notFoundError("詞條不存在")
	}
	return nil
}
