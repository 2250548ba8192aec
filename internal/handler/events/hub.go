// Package events fans orchestrator events out to connected UI clients over
// websocket or server-sent events.
package events

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/internal/logging"
	"github.com/zhouzirui/solace/backend/internal/model/chat"
	chatService "github.com/zhouzirui/solace/backend/internal/service/chat"
)

// Event types.
const (
	TypeConnected = "connected"
	TypeAdvisory  = "advisory"
	TypeTurn      = "turn"
)

const subscriberBuffer = 16

// Event is the envelope written to clients.
type Event struct {
	Type      string `json:"type"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// Hub broadcasts events to every subscriber. It implements chat.Listener.
type Hub struct {
	mu     sync.Mutex
	subs   map[chan []byte]struct{}
	closed bool
	now    func() time.Time
	logger *zap.Logger
}

var _ chatService.Listener = (*Hub)(nil)

// NewHub returns an empty hub.
func NewHub(logger *zap.Logger) *Hub {
	return &Hub{
		subs:   make(map[chan []byte]struct{}),
		now:    time.Now,
		logger: logging.OrNop(logger).Named("events"),
	}
}

// OnAdvisory broadcasts an escalation advisory.
func (h *Hub) OnAdvisory(a chat.Advisory) {
	h.Broadcast(TypeAdvisory, a)
}

// OnTurn broadcasts a settled turn.
func (h *Hub) OnTurn(r chatService.TurnResult) {
	h.Broadcast(TypeTurn, r)
}

// Broadcast encodes one event and offers it to every subscriber. Slow
// subscribers miss events rather than blocking the sender.
func (h *Hub) Broadcast(eventType string, data any) {
	payload, err := h.encode(eventType, data)
	if err != nil {
		h.logger.Warn("failed to encode event", zap.String("type", eventType), zap.Error(err))
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	for ch := range h.subs {
		select {
		case ch <- payload:
		default:
			h.logger.Warn("subscriber too slow, event dropped", zap.String("type", eventType))
		}
	}
}

func (h *Hub) encode(eventType string, data any) ([]byte, error) {
	return json.Marshal(Event{Type: eventType, Data: data, Timestamp: h.now().UnixMilli()})
}

// Subscribe registers a new subscriber. The returned channel is closed by
// unsubscribe or Close.
func (h *Hub) Subscribe() (<-chan []byte, func()) {
	ch := make(chan []byte, subscriberBuffer)

	h.mu.Lock()
	if h.closed {
		h.mu.Unlock()
		close(ch)
		return ch, func() {}
	}
	h.subs[ch] = struct{}{}
	h.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			h.mu.Lock()
			defer h.mu.Unlock()
			if _, ok := h.subs[ch]; ok {
				delete(h.subs, ch)
				close(ch)
			}
		})
	}
}

// Subscribers returns the number of connected subscribers.
func (h *Hub) Subscribers() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}

// Close disconnects every subscriber and rejects new ones.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.closed = true
	for ch := range h.subs {
		delete(h.subs, ch)
		close(ch)
	}
}
