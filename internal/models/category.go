package models

import "time"

// Category 三級分類，ParentID 為 0 表示一級分類
type Category struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ParentID  uint      `gorm:"not null;default:0;index" json:"parent_id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Level     int       `gorm:"not null;index" json:"level"` // 1=一級 2=二級 3=三級
	SortOrder int       `gorm:"not null;default:0" json:"sort_order"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

const MaxCategoryLevel = 3
