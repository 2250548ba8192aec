package chat

import (
	"time"

	"github.com/zhouzirui/solace/backend/internal/analysis/sentiment"
)

// Sender identifies who authored a message.
type Sender string

const (
	SenderUser      Sender = "user"
	SenderAssistant Sender = "assistant"
)

// Message is one immutable entry of the conversation.
type Message struct {
	ID        string              `json:"id"`
	Text      string              `json:"text"`
	Sender    Sender              `json:"sender"`
	Category  *sentiment.Category `json:"sentimentCategory,omitempty"`
	Polarity  *float64            `json:"polarity,omitempty"`
	Emotion   string              `json:"emotion,omitempty"`
	CreatedAt time.Time           `json:"createdAt"`
	Language  string              `json:"language,omitempty"`
}

// MoodPoint records the classified mood of one user message.
type MoodPoint struct {
	SourceText string             `json:"sourceText"`
	Category   sentiment.Category `json:"sentimentCategory"`
	Polarity   float64            `json:"polarity"`
	RecordedAt time.Time          `json:"recordedAt"`
}
