package service

import "homophone_dict/internal/models"

// Actor 發起請求的已登入用戶，未登入時為 nil
type Actor struct {
	ID   uint
	Role models.UserRole
}

func (a *Actor) IsAdmin() bool {
	return a != nil && a.Role == models.RoleAdmin
}

func (a *Actor) IsAuditor() bool {
	return a != nil && (a.Role == models.RoleAuditor || a.Role == models.RoleAdmin)
}

// 以下為各操作開頭的權限檢查

func requireAuthenticated(a *Actor) error {
	if a == nil {
		return newError(CodeUnauthenticated, "請先登入")
	}
	return nil
}

func requireAdmin(a *Actor) error {
	if err := requireAuthenticated(a); err != nil {
		return err
	}
	if !a.IsAdmin() {
		return forbiddenError("需要管理員權限")
	}
	return nil
}

func requireAuditor(a *Actor) error {
	if err := requireAuthenticated(a); err != nil {
		return err
	}
	if !a.IsAuditor() {
		return forbiddenError("需要審核員權限")
	}
	return nil
}
