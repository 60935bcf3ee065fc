package models

import "time"

// QueryHistory 用戶的一次查詢紀錄
type QueryHistory struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	EntryID   uint      `gorm:"not null;index" json:"entry_id"`
	QueryTime time.Time `gorm:"not null;index" json:"query_time"`
}

func (QueryHistory) TableName() string {
	return "query_history"
}

// UnrecordedWord 詞庫未收錄但被查詢過的詞，同一個詞只有一行
type UnrecordedWord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Word         string    `gorm:"size:500;not null;uniqueIndex" json:"word"`
	RequestCount int64     `gorm:"not null;default:1;index" json:"request_count"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}
