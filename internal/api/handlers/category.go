package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/middleware"
	"homophone_dict/internal/service"
)

// CategoryHandler 處理分類相關的請求
type CategoryHandler struct {
	categoryService *service.CategoryService
}

func NewCategoryHandler(categoryService *service.CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

func (h *CategoryHandler) GetAll(c *gin.Context) {
	tree, err := h.categoryService.GetAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, tree)
}

// GetChildren GET /categories/:id/children，id 為 0 時回傳一級分類
func (h *CategoryHandler) GetChildren(c *gin.Context) {
	var parentID uint
	if c.Param("id") != "0" {
		id, ok := parseID(c, "id")
		if !ok {
			return
		}
		parentID = id
	}
	children, err := h.categoryService.GetChildren(c.Request.Context(), parentID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, children)
}

func (h *CategoryHandler) GetPath(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	path, err := h.categoryService.Path(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"path": path})
}

func (h *CategoryHandler) Create(c *gin.Context) {
	var input struct {
		ParentID  uint   `json:"parent_id"`
		Name      string `json:"name" binding:"required,max=100"`
		Level     int    `json:"level" binding:"required,min=1,max=3"`
		SortOrder int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	category, err := h.categoryService.Create(c.Request.Context(), middleware.CurrentActor(c), service.CreateCategoryInput{
		ParentID:  input.ParentID,
		Name:      input.Name,
		Level:     input.Level,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, category)
}

func (h *CategoryHandler) Update(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Name      *string `json:"name" binding:"omitempty,max=100"`
		SortOrder *int    `json:"sort_order"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	err := h.categoryService.Update(c.Request.Context(), middleware.CurrentActor(c), id, service.UpdateCategoryInput{
		Name:      input.Name,
		SortOrder: input.SortOrder,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "分類已更新"})
}

func (h *CategoryHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.categoryService.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "分類已刪除"})
}
