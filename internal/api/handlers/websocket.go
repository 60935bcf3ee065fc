package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"homophone_dict/internal/middleware"
	"homophone_dict/internal/service"
)

// WebSocketHandler 處理審核員的即時通知連線
type WebSocketHandler struct {
	hub      *service.AuditHub
	upgrader websocket.Upgrader
}

// NewWebSocketHandler origins 為空或包含 "*" 時接受任何來源
func NewWebSocketHandler(hub *service.AuditHub, origins []string) *WebSocketHandler {
	allowAll := len(origins) == 0
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		if o == "*" {
			allowAll = true
		}
		allowed[o] = true
	}

	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return allowAll || origin == "" || allowed[origin]
			},
		},
	}
}

// HandleAudits GET /ws/audits，只有審核員與管理員可以連線
func (h *WebSocketHandler) HandleAudits(c *gin.Context) {
	actor := middleware.CurrentActor(c)
	if actor == nil || !actor.IsAuditor() {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "需要審核員權限", "code": service.CodeForbidden})
		return
	}

	// 升級 HTTP 連接為 WebSocket 連接，失敗時 upgrader 已寫入錯誤回應
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	h.hub.HandleConnection(conn, actor.ID)
}
