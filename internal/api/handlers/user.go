package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/middleware"
	"homophone_dict/internal/models"
	"homophone_dict/internal/service"
)

// UserHandler 處理管理員的用戶管理與審核員授權
type UserHandler struct {
	userService       *service.UserService
	permissionService *service.AuditorPermissionService
}

func NewUserHandler(userService *service.UserService, permissionService *service.AuditorPermissionService) *UserHandler {
	return &UserHandler{userService: userService, permissionService: permissionService}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.userService.List(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	user, err := h.userService.Get(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}

func (h *UserHandler) Create(c *gin.Context) {
	var input struct {
		OpenID   string `json:"open_id" binding:"required,max=64"`
		Name     string `json:"name" binding:"max=100"`
		Email    string `json:"email" binding:"omitempty,email"`
		Phone    string `json:"phone" binding:"max=20"`
		Role     string `json:"role" binding:"omitempty,role"`
		Password string `json:"password" binding:"omitempty,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	user, err := h.userService.Create(c.Request.Context(), middleware.CurrentActor(c), service.CreateUserInput{
		OpenID:   input.OpenID,
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Role:     models.UserRole(input.Role),
		Password: input.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

func (h *UserHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Name     *string `json:"name" binding:"omitempty,max=100"`
		Email    *string `json:"email" binding:"omitempty,email"`
		Phone    *string `json:"phone" binding:"omitempty,max=20"`
		Role     *string `json:"role" binding:"omitempty,role"`
		Password *string `json:"password" binding:"omitempty,min=6"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	update := service.UpdateUserInput{
		Name:     input.Name,
		Email:    input.Email,
		Phone:    input.Phone,
		Password: input.Password,
	}
	if input.Role != nil {
		role := models.UserRole(*input.Role)
		update.Role = &role
	}
	if err := h.userService.Update(c.Request.Context(), middleware.CurrentActor(c), id, update); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "用戶已更新"})
}

func (h *UserHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.userService.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "用戶已刪除"})
}

func (h *UserHandler) ToggleDisabled(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	disabled, err := h.userService.ToggleDisabled(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"is_disabled": disabled})
}

func (h *UserHandler) ListPermissions(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	permissions, err := h.permissionService.List(c.Request.Context(), middleware.CurrentActor(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, permissions)
}

// GrantPermission POST /admin/users/:id/permissions，category_id 為 0 表示全部分類
func (h *UserHandler) GrantPermission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input struct {
		CategoryID uint `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	permission, err := h.permissionService.Grant(c.Request.Context(), middleware.CurrentActor(c), id, input.CategoryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, permission)
}

func (h *UserHandler) RevokePermission(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var categoryID uint
	if c.Param("categoryId") != "0" {
		cid, ok := parseID(c, "categoryId")
		if !ok {
			return
		}
		categoryID = cid
	}
	if err := h.permissionService.Revoke(c.Request.Context(), middleware.CurrentActor(c), id, categoryID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "審核範圍已移除"})
}
