package models

import "time"

// Homophone 用戶提交的諧音記憶，只有 approved 狀態會對一般用戶顯示
type Homophone struct {
	ID              uint        `gorm:"primaryKey" json:"id"`
	EntryID         uint        `gorm:"not null;index" json:"entry_id"`
	Text            string      `gorm:"column:homophone_text;size:500;not null" json:"homophone_text"`
	AuditStatus     AuditStatus `gorm:"size:16;not null;default:pending;index" json:"audit_status"`
	SubmitterID     uint        `gorm:"not null;index" json:"submitter_id"`
	ApprovalCount   int         `gorm:"not null;default:0" json:"approval_count"`
	RejectionReason string      `gorm:"type:text" json:"rejection_reason,omitempty"`
	AuditDeadline   *time.Time  `json:"audit_deadline,omitempty"`
	CreatedAt       time.Time   `json:"created_at"`
	UpdatedAt       time.Time   `json:"updated_at"`
}

// AuditStatus 定義諧音審核狀態
type AuditStatus string

const (
	AuditStatusPending  AuditStatus = "pending"
	AuditStatusApproved AuditStatus = "approved"
	AuditStatusRejected AuditStatus = "rejected"
)

// Terminal 已通過或已拒絕的諧音不再接受審核
func (s AuditStatus) Terminal() bool {
	return s == AuditStatusApproved || s == AuditStatusRejected
}

// AuditRecord 單一審核員對單一諧音的審核紀錄，寫入後不可修改
type AuditRecord struct {
	ID          uint        `gorm:"primaryKey" json:"id"`
	HomophoneID uint        `gorm:"not null;uniqueIndex:idx_audit_vote" json:"homophone_id"`
	AuditorID   uint        `gorm:"not null;uniqueIndex:idx_audit_vote;index" json:"auditor_id"`
	Action      AuditAction `gorm:"size:16;not null" json:"action"`
	Opinion     string      `gorm:"type:text" json:"opinion,omitempty"`
	CreatedAt   time.Time   `json:"created_at"`
}

// AuditAction 審核動作
type AuditAction string

const (
	AuditActionApprove AuditAction = "approve"
	AuditActionReject  AuditAction = "reject"
)

func (a AuditAction) Valid() bool {
	return a == AuditActionApprove || a == AuditActionReject
}
