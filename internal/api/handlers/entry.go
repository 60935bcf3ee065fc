package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/middleware"
	"homophone_dict/internal/service"
)

// EntryHandler 處理詞條管理
type EntryHandler struct {
	entryService *service.EntryService
}

func NewEntryHandler(entryService *service.EntryService) *EntryHandler {
	return &EntryHandler{entryService: entryService}
}

func (h *EntryHandler) Get(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	entry, err := h.entryService.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entry)
}

// List GET /admin/entries?page=&page_size=&search=&category_id=
func (h *EntryHandler) List(c *gin.Context) {
	input := service.EntryListInput{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 50),
		Search:   c.Query("search"),
	}
	if c.Query("category_id") != "" {
		categoryID := uint(queryInt(c, "category_id", 0))
		input.CategoryID = &categoryID
	}

	page, err := h.entryService.List(c.Request.Context(), middleware.CurrentActor(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (h *EntryHandler) Create(c *gin.Context) {
	var input struct {
		EnglishText        string `json:"english_text" binding:"required,max=500,english"`
		ChineseTranslation string `json:"chinese_translation" binding:"required"`
		IPA                string `json:"ipa" binding:"max=200"`
		Syllables          string `json:"syllables" binding:"max=200"`
		CategoryID         uint   `json:"category_id" binding:"required"`
		HomophoneText      string `json:"homophone_text" binding:"max=500"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	result, err := h.entryService.Create(c.Request.Context(), middleware.CurrentActor(c), service.CreateEntryInput{
		EnglishText:        input.EnglishText,
		ChineseTranslation: input.ChineseTranslation,
		IPA:                input.IPA,
		Syllables:          input.Syllables,
		CategoryID:         input.CategoryID,
		HomophoneText:      input.HomophoneText,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, result)
}

func (h *EntryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input struct {
		EnglishText        *string `json:"english_text" binding:"omitempty,max=500,english"`
		ChineseTranslation *string `json:"chinese_translation"`
		IPA                *string `json:"ipa" binding:"omitempty,max=200"`
		Syllables          *string `json:"syllables" binding:"omitempty,max=200"`
		CategoryID         *uint   `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	err := h.entryService.Update(c.Request.Context(), middleware.CurrentActor(c), id, service.UpdateEntryInput{
		EnglishText:        input.EnglishText,
		ChineseTranslation: input.ChineseTranslation,
		IPA:                input.IPA,
		Syllables:          input.Syllables,
		CategoryID:         input.CategoryID,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "詞條已更新"})
}

func (h *EntryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.entryService.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "詞條已刪除"})
}
