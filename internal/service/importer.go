package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/sirupsen/logrus"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
	"homophone_dict/internal/utils"
)

const defaultImportBatchSize = 1000

type ImportFormat string

const (
	ImportJSON ImportFormat = "json"
	ImportCSV  ImportFormat = "csv"
)

// ImportItem JSON 詞庫檔中的一個詞條
type ImportItem struct {
	English   string `json:"english"`
	Chinese   string `json:"chinese"`
	IPA       string `json:"ipa"`
	Syllables string `json:"syllables"`
	Homophone string `json:"homophone"`
}

type ImportOptions struct {
	Format     ImportFormat
	CategoryID uint
	// SubmitterID 附帶諧音的提交者，通常是系統管理員
	SubmitterID uint
	BatchSize   int
}

type ImportReport struct {
	Imported   int `json:"imported"`
	Homophones int `json:"homophones"`
	Skipped    int `json:"skipped"`
}

type Importer struct {
	repos  *repository.Repositories
	logger *logrus.Logger
}

func NewImporter(repos *repository.Repositories, logger *logrus.Logger) *Importer {
	return &Importer{repos: repos, logger: logger}
}

// Import 讀取整份檔案後在單一交易中分批寫入，缺少英文或中文的列會被略過
func (im *Importer) Import(ctx context.Context, r io.Reader, opts ImportOptions) (*ImportReport, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = defaultImportBatchSize
	}

	var items []ImportItem
	var err error
	switch opts.Format {
	case ImportJSON:
		items, err = decodeJSONItems(r)
	case ImportCSV:
		items, err = decodeCSVItems(r)
	default:
		return nil, validationError(fmt.Sprintf("不支援的匯入格式: %s", opts.Format))
	}
	if err != nil {
		return nil, &Error{Code: CodeValidation, Message: "詞庫檔格式錯誤", Err: err}
	}

	report := &ImportReport{}
	entries := make([]*models.Entry, 0, len(items))
	homophoneTexts := make([]string, 0, len(items))
	for _, item := range items {
		english := utils.SanitizeInput(item.English, 0)
		chinese := utils.SanitizeInput(item.Chinese, 0)
		if english == "" || chinese == "" || utf8.RuneCountInString(english) > maxEnglishLength {
			report.Skipped++
			continue
		}
		entries = append(entries, &models.Entry{
			EnglishText:        english,
			ChineseTranslation: chinese,
			IPA:                utils.SanitizeInput(item.IPA, 200),
			Syllables:          utils.SanitizeInput(item.Syllables, 200),
			CategoryID:         opts.CategoryID,
		})
		homophoneTexts = append(homophoneTexts, utils.SanitizeInput(item.Homophone, maxHomophoneLength))
	}

	err = im.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Entry.CreateInBatches(ctx, entries, opts.BatchSize); err != nil {
			return err
		}
		var homophones []*models.Homophone
		for i, entry := range entries {
			if homophoneTexts[i] == "" {
				continue
			}
			homophones = append(homophones, &models.Homophone{
				EntryID:       entry.ID,
				Text:          homophoneTexts[i],
				AuditStatus:   models.AuditStatusApproved,
				SubmitterID:   opts.SubmitterID,
				ApprovalCount: 1,
			})
		}
		if err := tx.Homophone.CreateInBatches(ctx, homophones, opts.BatchSize); err != nil {
			return err
		}
		// 每筆匯入的諧音都留下一筆通過紀錄，與 approval_count 一致
		records := make([]*models.AuditRecord, 0, len(homophones))
		for _, h := range homophones {
			records = append(records, &models.AuditRecord{
				HomophoneID: h.ID,
				AuditorID:   opts.SubmitterID,
				Action:      models.AuditActionApprove,
				Opinion:     importHomophoneNote,
			})
		}
		if err := tx.AuditRecord.CreateInBatches(ctx, records, opts.BatchSize); err != nil {
			return err
		}
		report.Homophones = len(homophones)
		return nil
	})
	if err != nil {
		return nil, internalError("匯入詞條失敗", err)
	}
	report.Imported = len(entries)

	im.logger.WithFields(logrus.Fields{
		"format":     opts.Format,
		"imported":   report.Imported,
		"homophones": report.Homophones,
		"skipped":    report.Skipped,
	}).Info("dictionary imported")
	return report, nil
}

func decodeJSONItems(r io.Reader) ([]ImportItem, error) {
	var items []ImportItem
	if err := json.NewDecoder(r).Decode(&items); err != nil {
		return nil, err
	}
	return items, nil
}

// decodeCSVItems 第一列必須是包含 word 與 translation 的標題列
func decodeCSVItems(r io.Reader) ([]ImportItem, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, err
	}
	wordCol, translationCol := -1, -1
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))) {
		case "word":
			wordCol = i
		case "translation":
			translationCol = i
		}
	}
	if wordCol < 0 || translationCol < 0 {
		return nil, errors.New("csv header must contain word and translation")
	}

	var items []ImportItem
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		item := ImportItem{}
		if wordCol < len(record) {
			item.English = record[wordCol]
		}
		if translationCol < len(record) {
			item.Chinese = record[translationCol]
		}
		items = append(items, item)
	}
	return items, nil
}
