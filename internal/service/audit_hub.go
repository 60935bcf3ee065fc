package service

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
	sendBuffer   = 64
)

// AuditClient 一個已連線的審核員 WebSocket
type AuditClient struct {
	conn   *websocket.Conn
	userID uint
	send   chan AuditEvent
	done   chan struct{}
	once   sync.Once
}

func (c *AuditClient) close() {
	c.once.Do(func() {
		close(c.done)
		c.conn.Close()
	})
}

// AuditHub 管理審核員的 WebSocket 連接並廣播審核事件
type AuditHub struct {
	clients    map[*AuditClient]bool
	clientsMux sync.RWMutex
	logger     *logrus.Logger
}

func NewAuditHub(logger *logrus.Logger) *AuditHub {
	return &AuditHub{
		clients: make(map[*AuditClient]bool),
		logger:  logger,
	}
}

// HandleConnection 註冊連線並阻塞直到連線關閉
func (h *AuditHub) HandleConnection(conn *websocket.Conn, userID uint) {
	client := &AuditClient{
		conn:   conn,
		userID: userID,
		send:   make(chan AuditEvent, sendBuffer),
		done:   make(chan struct{}),
	}
	h.addClient(client)

	defer func() {
		h.removeClient(client)
		client.close()
	}()

	go h.writePump(client)
	h.readPump(client)
}

// readPump 只處理心跳，審核員不會透過此連線送出資料
func (h *AuditHub) readPump(client *AuditClient) {
	client.conn.SetReadLimit(512)
	_ = client.conn.SetReadDeadline(time.Now().Add(pongWait))
	client.conn.SetPongHandler(func(string) error {
		return client.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := client.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				h.logger.WithError(err).WithField("user_id", client.userID).Warn("audit websocket closed unexpectedly")
			}
			return
		}
	}
}

func (h *AuditHub) writePump(client *AuditClient) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-client.done:
			return

		case event := <-client.send:
			payload, err := json.Marshal(event)
			if err != nil {
				h.logger.WithError(err).Error("audit event encoding error")
				continue
			}
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				client.close()
				return
			}

		case <-ticker.C:
			_ = client.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := client.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				client.close()
				return
			}
		}
	}
}

// Notify 廣播事件給所有在線審核員，發送隊列已滿的連線會被關閉
func (h *AuditHub) Notify(event AuditEvent) {
	h.clientsMux.RLock()
	clients := make([]*AuditClient, 0, len(h.clients))
	for client := range h.clients {
		clients = append(clients, client)
	}
	h.clientsMux.RUnlock()

	for _, client := range clients {
		select {
		case client.send <- event:
		case <-client.done:
		default:
			h.removeClient(client)
			client.close()
		}
	}
}

func (h *AuditHub) addClient(client *AuditClient) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	h.clients[client] = true
}

func (h *AuditHub) removeClient(client *AuditClient) {
	h.clientsMux.Lock()
	defer h.clientsMux.Unlock()
	delete(h.clients, client)
}

// ClientCount 目前在線的審核員連線數
func (h *AuditHub) ClientCount() int {
	h.clientsMux.RLock()
	defer h.clientsMux.RUnlock()
	return len(h.clients)
}
