package service

import (
	"time"

	"homophone_dict/internal/models"
)

const (
	EventHomophoneSubmitted = "homophone_submitted"
	EventHomophoneAudited   = "homophone_audited"
)

// AuditEvent 推送給審核員的諧音審核事件
type AuditEvent struct {
	Type          string             `json:"type"`
	HomophoneID   uint               `json:"homophone_id"`
	EntryID       uint               `json:"entry_id"`
	Status        models.AuditStatus `json:"status"`
	ApprovalCount int                `json:"approval_count"`
	ActorID       uint               `json:"actor_id"`
	Timestamp     time.Time          `json:"timestamp"`
}

// Notifier 接收審核事件，實作不得阻塞呼叫端
type Notifier interface {
	Notify(event AuditEvent)
}

type nopNotifier struct{}

func (nopNotifier) Notify(AuditEvent) {}
