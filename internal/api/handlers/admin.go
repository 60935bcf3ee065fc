package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/middleware"
	"homophone_dict/internal/service"
)

// AdminHandler 處理未收錄詞與系統配置
type AdminHandler struct {
	statsService  *service.StatsService
	configService *service.SystemConfigService
}

func NewAdminHandler(statsService *service.StatsService, configService *service.SystemConfigService) *AdminHandler {
	return &AdminHandler{statsService: statsService, configService: configService}
}

func (h *AdminHandler) UnrecordedWords(c *gin.Context) {
	words, err := h.statsService.UnrecordedWords(c.Request.Context(), middleware.CurrentActor(c), queryInt(c, "limit", 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, words)
}

func (h *AdminHandler) DeleteUnrecordedWord(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.statsService.DeleteUnrecordedWord(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "未收錄詞已刪除"})
}

func (h *AdminHandler) GetConfig(c *gin.Context) {
	cfg, err := h.configService.Get(c.Request.Context(), middleware.CurrentActor(c), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, cfg)
}

// SetConfig PUT /admin/config/:key
func (h *AdminHandler) SetConfig(c *gin.Context) {
	var input struct {
		Value       string `json:"value" binding:"required"`
		Description string `json:"description"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}
	err := h.configService.Set(c.Request.Context(), middleware.CurrentActor(c), c.Param("key"), input.Value, input.Description)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "配置已儲存"})
}
