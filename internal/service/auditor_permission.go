package service

import (
	"context"

	"homophone_dict/internal/models"
	"homophone_dict/internal/repository"
)

// AllCategories 授權時使用此分類 ID 表示可審核所有分類
const AllCategories uint = 0

type AuditorPermissionService struct {
	permissionRepo repository.AuditorPermissionRepository
	userRepo       repository.UserRepository
	categoryRepo   repository.CategoryRepository
}

func NewAuditorPermissionService(repos *repository.Repositories) *AuditorPermissionService {
	return &AuditorPermissionService{
		permissionRepo: repos.AuditorPermission,
		userRepo:       repos.User,
		categoryRepo:   repos.Category,
	}
}

func (s *AuditorPermissionService) Grant(ctx context.Context, actor *Actor, auditorID, categoryID uint) (*models.AuditorPermission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	user, err := s.userRepo.FindByID(ctx, auditorID)
	if err != nil {
		return nil, storeError(err, "用戶不存在", "讀取用戶失敗")
	}
	if user.Role != models.RoleAuditor {
		return nil, validationError("只能為審核員設定審核範圍")
	}
	if categoryID != AllCategories {
		if _, err := s.categoryRepo.FindByID(ctx, categoryID); err != nil {
			return nil, storeError(err, "分類不存在", "讀取分類失敗")
		}
	}

	permission := &models.AuditorPermission{AuditorID: auditorID, CategoryID: categoryID}
	if err := s.permissionRepo.Create(ctx, permission); err != nil {
		return nil, storeError(err, "", "此審核範圍已存在")
	}
	return permission, nil
}

func (s *AuditorPermissionService) Revoke(ctx context.Context, actor *Actor, auditorID, categoryID uint) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	n, err := s.permissionRepo.Delete(ctx, auditorID, categoryID)
	if err != nil {
		return internalError("刪除審核範圍失敗", err)
	}
	if n == 0 {
		return notFoundError("審核範圍不存在")
	}
	return nil
}

func (s *AuditorPermissionService) List(ctx context.Context, actor *Actor, auditorID uint) ([]models.AuditorPermission, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	permissions, err := s.permissionRepo.ListByAuditor(ctx, auditorID)
	if err != nil {
		return nil, internalError("讀取審核範圍失敗", err)
	}
	if permissions == nil {
		permissions = []models.AuditorPermission{}
	}
	return permissions, nil
}

// auditScope 審核員可審核的分類集合，包含授權分類的所有子孫分類
type auditScope struct {
	granted map[uint]bool
	parents map[uint]uint
}

// allows 沿上級分類往上找，任一祖先在授權集合中即允許
func (sc *auditScope) allows(categoryID uint) bool {
	visited := map[uint]bool{}
	for id := categoryID; id != 0 && !visited[id]; id = sc.parents[id] {
		if sc.granted[id] {
			return true
		}
		visited[id] = true
	}
	return false
}

// scopeFor 管理員、沒有任何授權紀錄或擁有全分類授權的審核員回傳 nil，表示不受限制
func (s *AuditorPermissionService) scopeFor(ctx context.Context, actor *Actor) (*auditScope, error) {
	if actor.IsAdmin() {
		return nil, nil
	}
	permissions, err := s.permissionRepo.ListByAuditor(ctx, actor.ID)
	if err != nil {
		return nil, internalError("讀取審核範圍失敗", err)
	}
	if len(permissions) == 0 {
		return nil, nil
	}

	granted := make(map[uint]bool, len(permissions))
	for _, p := range permissions {
		if p.CategoryID == AllCategories {
			return nil, nil
		}
		granted[p.CategoryID] = true
	}

	categories, err := s.categoryRepo.FindAll(ctx)
	if err != nil {
		return nil, internalError("讀取分類失敗", err)
	}
	parents := make(map[uint]uint, len(categories))
	for _, c := range categories {
		parents[c.ID] = c.ParentID
	}
	return &auditScope{granted: granted, parents: parents}, nil
}
