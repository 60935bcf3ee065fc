package models

import (
	"time"

	"gorm.io/gorm"

	"homophone_dict/internal/utils"
)

// Entry 詞庫中的一個英文單詞或短語
type Entry struct {
	ID                 uint      `gorm:"primaryKey" json:"id"`
	EnglishText        string    `gorm:"size:500;not null" json:"english_text"`
	EnglishLower       string    `gorm:"size:500;not null;default:'';index" json:"-"` // 查詢比對用的小寫原文
	ChineseTranslation string    `gorm:"type:text;not null" json:"chinese_translation"`
	IPA                string    `gorm:"size:200" json:"ipa,omitempty"`
	Syllables          string    `gorm:"size:200" json:"syllables,omitempty"`
	CategoryID         uint      `gorm:"not null;index" json:"category_id"`
	QueryCount         int64     `gorm:"not null;default:0;index" json:"query_count"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

func (Entry) TableName() string {
	return "english_entries"
}

// BeforeCreate 寫入前由英文原文產生比對欄位，更新時由 repository 同步
func (e *Entry) BeforeCreate(tx *gorm.DB) error {
	e.EnglishLower = utils.NormalizeLookup(e.EnglishText)
	return nil
}
