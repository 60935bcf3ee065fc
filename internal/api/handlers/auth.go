package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/middleware"
	"homophone_dict/internal/service"
)

// AuthHandler 處理與認證相關的請求
type AuthHandler struct {
	userService *service.UserService
}

// NewAuthHandler 創建一個新的 AuthHandler 實例
func NewAuthHandler(userService *service.UserService) *AuthHandler {
	return &AuthHandler{userService: userService}
}

// LoginInput 定義登入請求的結構，Account 可以是用戶 ID 或電子郵件
type LoginInput struct {
	Account  string `json:"account" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterInput 定義註冊請求的結構
type RegisterInput struct {
	Name     string `json:"name" binding:"required,max=100"`
	Email    string `json:"email" binding:"omitempty,email"`
	Password string `json:"password" binding:"required,min=6"`
}

// Register 處理用戶註冊
func (h *AuthHandler) Register(c *gin.Context) {
	var input RegisterInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.userService.Register(c.Request.Context(), service.RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

// Login 處理用戶登入
func (h *AuthHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.userService.Login(c.Request.Context(), input.Account, input.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// Me 回傳目前登入的用戶
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.userService.Me(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user)
}
