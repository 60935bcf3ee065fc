package models

import "time"

// User 表示系統中的用戶
type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	OpenID       string    `gorm:"size:64;uniqueIndex;not null" json:"open_id"` // 外部身份 ID，全域唯一
	Name         string    `gorm:"size:100" json:"name"`
	Email        string    `gorm:"size:320;index" json:"email,omitempty"`
	Phone        string    `gorm:"size:20" json:"phone,omitempty"`
	LoginMethod  string    `gorm:"size:64" json:"login_method,omitempty"`
	PasswordHash string    `gorm:"size:255" json:"-"` // 密碼雜湊，json 序列化時會被忽略
	Role         UserRole  `gorm:"size:16;not null;default:user" json:"role"`
	IsDisabled   bool      `gorm:"not null;default:false" json:"is_disabled"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	LastSignedIn time.Time `json:"last_signed_in"`
}

// UserRole 定義用戶角色的類型
type UserRole string

const (
	RoleUser    UserRole = "user"    // 一般用戶
	RoleAdmin   UserRole = "admin"   // 管理員
	RoleAuditor UserRole = "auditor" // 審核員
)

func (r UserRole) Valid() bool {
	switch r {
	case RoleUser, RoleAdmin, RoleAuditor:
		return true
	}
	return false
}
