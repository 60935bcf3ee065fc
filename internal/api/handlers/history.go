package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/middleware"
	"homophone_dict/internal/service"
)

// HistoryHandler 處理查詢歷史
type HistoryHandler struct {
	historyService  *service.HistoryService
	retentionMonths int
}

func NewHistoryHandler(historyService *service.HistoryService, retentionMonths int) *HistoryHandler {
	return &HistoryHandler{historyService: historyService, retentionMonths: retentionMonths}
}

func (h *HistoryHandler) List(c *gin.Context) {
	items, err := h.historyService.List(c.Request.Context(), middleware.CurrentActor(c), queryInt(c, "limit", 100))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func (h *HistoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.historyService.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "查詢紀錄已刪除"})
}

func (h *HistoryHandler) Clear(c *gin.Context) {
	n, err := h.historyService.Clear(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n})
}

func (h *HistoryHandler) Insights(c *gin.Context) {
	insights, err := h.historyService.Insights(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, insights)
}

// Purge DELETE /admin/history?months=，未指定時使用配置的保留月數
func (h *HistoryHandler) Purge(c *gin.Context) {
	months := queryInt(c, "months", h.retentionMonths)
	n, err := h.historyService.Purge(c.Request.Context(), middleware.CurrentActor(c), months)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"deleted": n, "months": months})
}
