package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"homophone_dict/internal/middleware"
	"homophone_dict/internal/models"
	"homophone_dict/internal/service"
)

// HomophoneHandler 處理諧音提交與審核
type HomophoneHandler struct {
	homophoneService *service.HomophoneService
}

func NewHomophoneHandler(homophoneService *service.HomophoneService) *HomophoneHandler {
	return &HomophoneHandler{homophoneService: homophoneService}
}

func (h *HomophoneHandler) Submit(c *gin.Context) {
	var input struct {
		EntryID       uint   `json:"entry_id" binding:"required"`
		HomophoneText string `json:"homophone_text" binding:"required,max=500"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	homophone, err := h.homophoneService.Submit(c.Request.Context(), middleware.CurrentActor(c), input.EntryID, input.HomophoneText)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, homophone)
}

func (h *HomophoneHandler) Pending(c *gin.Context) {
	pending, err := h.homophoneService.Pending(c.Request.Context(), middleware.CurrentActor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, pending)
}

// Audit POST /audits/:id
func (h *HomophoneHandler) Audit(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	var input struct {
		Action  string `json:"action" binding:"required,oneof=approve reject"`
		Opinion string `json:"opinion" binding:"max=1000"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		bindError(c, err)
		return
	}

	outcome, err := h.homophoneService.Audit(c.Request.Context(), middleware.CurrentActor(c), service.AuditInput{
		HomophoneID: id,
		Action:      models.AuditAction(input.Action),
		Opinion:     input.Opinion,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, outcome)
}

func (h *HomophoneHandler) ListByEntry(c *gin.Context) {
	entryID, ok := parseID(c, "id")
	if !ok {
		return
	}
	homophones, err := h.homophoneService.ListByEntry(c.Request.Context(), middleware.CurrentActor(c), entryID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, homophones)
}

func (h *HomophoneHandler) Delete(c *gin.Context) {
	id, ok := parseID(c, "id")
	if !ok {
		return
	}
	if err := h.homophoneService.Delete(c.Request.Context(), middleware.CurrentActor(c), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "諧音已刪除"})
}
