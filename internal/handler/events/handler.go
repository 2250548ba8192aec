package events

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/pkg/utils"
)

const (
	writeWait    = 10 * time.Second
	pongWait     = 60 * time.Second
	pingInterval = 54 * time.Second
)

// Handler serves the event stream endpoints.
type Handler struct {
	hub          *Hub
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

// New 创建事件处理器
func New(hub *Hub) *Handler {
	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		pingInterval: pingInterval,
	}
}

// RegisterRoutes 注册事件相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/events", h.handleWebSocket)
	r.Get("/events/stream", h.handleSSE)
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	events, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	// 读循环只用于感知断开和处理 pong。
	go func() {
		defer cancel()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					h.hub.logger.Debug("websocket read error", zap.Error(err))
				}
				return
			}
		}
	}()

	h.hub.logger.Info("event client connected", zap.String("transport", "websocket"))
	defer h.hub.logger.Info("event client disconnected", zap.String("transport", "websocket"))

	if hello, err := h.hub.encode(TypeConnected, nil); err == nil {
		if err := h.write(conn, websocket.TextMessage, hello); err != nil {
			return
		}
	}

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-events:
			if !ok {
				_ = h.write(conn, websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseGoingAway, "server shutting down"))
				return
			}
			if err := h.write(conn, websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := h.write(conn, websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (h *Handler) write(conn *websocket.Conn, messageType int, data []byte) error {
	conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteMessage(messageType, data)
}

// handleSSE streams the same events as server-sent events for clients that
// cannot open a websocket.
func (h *Handler) handleSSE(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, unsubscribe := h.hub.Subscribe()
	defer unsubscribe()

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	if hello, err := h.hub.encode(TypeConnected, nil); err == nil {
		if err := utils.SendSSEChunk(w, flusher, TypeConnected, hello); err != nil {
			return
		}
	}

	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case payload, ok := <-events:
			if !ok {
				return
			}
			if err := utils.SendSSEChunk(w, flusher, "", payload); err != nil {
				return
			}
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "keepalive"); err != nil {
				return
			}
		}
	}
}
