package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/middleware"
	"homophone_dict/internal/service"
)

// TranslationHandler 處理詞條查詢
type TranslationHandler struct {
	lookupService *service.LookupService
	statsService  *service.StatsService
}

func NewTranslationHandler(lookupService *service.LookupService, statsService *service.StatsService) *TranslationHandler {
	return &TranslationHandler{lookupService: lookupService, statsService: statsService}
}

// Search GET /translation/search?text=
func (h *TranslationHandler) Search(c *gin.Context) {
	result, err := h.lookupService.Search(c.Request.Context(), middleware.CurrentActor(c), c.Query("text"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// TopByCategory GET /translation/categories/:id/top?limit=
func (h *TranslationHandler) TopByCategory(c *gin.Context) {
	categoryID, ok := parseID(c, "id")
	if !ok {
		return
	}
	entries, err := h.lookupService.TopByCategory(c.Request.Context(), categoryID, queryInt(c, "limit", 20))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

// TopWords GET /stats/top-words?limit=&days=
func (h *TranslationHandler) TopWords(c *gin.Context) {
	words, err := h.statsService.TopWords(c.Request.Context(), queryInt(c, "limit", 50), queryInt(c, "days", 0))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, words)
}
