package models

import "time"

// AuditorPermission 審核員可審核的分類範圍，CategoryID 為 0 表示全部分類
type AuditorPermission struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AuditorID  uint      `gorm:"not null;index;uniqueIndex:idx_auditor_scope" json:"auditor_id"`
	CategoryID uint      `gorm:"not null;uniqueIndex:idx_auditor_scope" json:"category_id"`
	CreatedAt  time.Time `json:"created_at"`
}

// SystemConfig 系統層級的鍵值配置
type SystemConfig struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	ConfigKey   string    `gorm:"size:100;not null;uniqueIndex" json:"config_key"`
	ConfigValue string    `gorm:"type:text;not null" json:"config_value"`
	Description string    `gorm:"type:text" json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

const ConfigKeyAuditDeadlineHours = "audit_deadline_hours"

// All 回傳需要自動遷移的所有模型
func All() []interface{} {
	return []interface{}{
		&User{},
		&Category{},
		&Entry{},
		&Homophone{},
		&AuditRecord{},
		&QueryHistory{},
		&UnrecordedWord{},
		&AuditorPermission{},
		&SystemConfig{},
	}
}
