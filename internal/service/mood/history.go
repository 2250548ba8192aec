package mood

import (
	"sync"

	"github.com/zhouzirui/solace/backend/internal/analysis/sentiment"
	"github.com/zhouzirui/solace/backend/internal/model/chat"
)

// History is the append-only mood time series of a session.
type History struct {
	mu     sync.RWMutex
	points []chat.MoodPoint
}

// NewHistory returns a History seeded with previously stored points.
func NewHistory(initial []chat.MoodPoint) *History {
	return &History{points: append(make([]chat.MoodPoint, 0, len(initial)+16), initial...)}
}

// Record appends a point. No deduplication or capping is applied.
func (h *History) Record(point chat.MoodPoint) {
	h.mu.Lock()
	h.points = append(h.points, point)
	h.mu.Unlock()
}

// All returns a copy of every recorded point in insertion order.
func (h *History) All() []chat.MoodPoint {
	h.mu.RLock()
	defer h.mu.RUnlock()

	copied := make([]chat.MoodPoint, len(h.points))
	copy(copied, h.points)
	return copied
}

// Len returns the number of recorded points.
func (h *History) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.points)
}

// Summary condenses the history for chart legends.
type Summary struct {
	Count        int                        `json:"count"`
	MeanPolarity float64                    `json:"meanPolarity"`
	Latest       *sentiment.Category        `json:"latest,omitempty"`
	ByCategory   map[sentiment.Category]int `json:"byCategory"`
}

// Summary computes aggregate figures over the whole history.
func (h *History) Summary() Summary {
	h.mu.RLock()
	defer h.mu.RUnlock()

	summary := Summary{
		Count:      len(h.points),
		ByCategory: make(map[sentiment.Category]int, 5),
	}
	for _, category := range sentiment.Categories() {
		summary.ByCategory[category] = 0
	}
	if len(h.points) == 0 {
		return summary
	}

	var total float64
	for _, point := range h.points {
		total += point.Polarity
		summary.ByCategory[point.Category]++
	}
	summary.MeanPolarity = total / float64(len(h.points))
	latest := h.points[len(h.points)-1].Category
	summary.Latest = &latest
	return summary
}
