package persistence

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zhouzirui/solace/backend/internal/analysis/sentiment"
	"github.com/zhouzirui/solace/backend/internal/model/chat"
)

// storedMessage is the on-disk shape of chat.Message. Timestamps are kept raw so
// that older encodings can be migrated on load.
type storedMessage struct {
	ID        string          `json:"id"`
	Text      string          `json:"text"`
	Sender    string          `json:"sender"`
	Category  string          `json:"sentimentCategory,omitempty"`
	Polarity  *float64        `json:"polarity,omitempty"`
	Emotion   string          `json:"emotion,omitempty"`
	CreatedAt json.RawMessage `json:"createdAt"`
	Language  string          `json:"language,omitempty"`
}

type storedMoodPoint struct {
	SourceText string          `json:"sourceText"`
	Category   string          `json:"sentimentCategory"`
	Polarity   float64         `json:"polarity"`
	RecordedAt json.RawMessage `json:"recordedAt"`
}

func toStoredMessage(msg chat.Message) storedMessage {
	record := storedMessage{
		ID:        msg.ID,
		Text:      msg.Text,
		Sender:    string(msg.Sender),
		Polarity:  msg.Polarity,
		Emotion:   msg.Emotion,
		CreatedAt: encodeTime(msg.CreatedAt),
		Language:  msg.Language,
	}
	if msg.Category != nil {
		record.Category = string(*msg.Category)
	}
	return record
}

func toStoredMoodPoint(point chat.MoodPoint) storedMoodPoint {
	return storedMoodPoint{
		SourceText: point.SourceText,
		Category:   string(point.Category),
		Polarity:   point.Polarity,
		RecordedAt: encodeTime(point.RecordedAt),
	}
}

func (r storedMessage) toMessage() (chat.Message, error) {
	if r.ID == "" {
		return chat.Message{}, errors.New("message id is empty")
	}

	sender := chat.Sender(r.Sender)
	if sender != chat.SenderUser && sender != chat.SenderAssistant {
		return chat.Message{}, fmt.Errorf("message %s: unknown sender %q", r.ID, r.Sender)
	}

	createdAt, err := decodeTime(r.CreatedAt)
	if err != nil {
		return chat.Message{}, fmt.Errorf("message %s: createdAt: %w", r.ID, err)
	}

	msg := chat.Message{
		ID:        r.ID,
		Text:      r.Text,
		Sender:    sender,
		Emotion:   r.Emotion,
		CreatedAt: createdAt,
		Language:  r.Language,
	}

	if r.Category != "" {
		category := sentiment.Category(r.Category)
		if !category.Valid() {
			return chat.Message{}, fmt.Errorf("message %s: unknown category %q", r.ID, r.Category)
		}
		msg.Category = &category
	}
	if r.Polarity != nil {
		if err := checkPolarity(*r.Polarity); err != nil {
			return chat.Message{}, fmt.Errorf("message %s: %w", r.ID, err)
		}
		polarity := *r.Polarity
		msg.Polarity = &polarity
	}
	if msg.Category != nil && msg.Polarity != nil {
		if err := checkCategory(*msg.Category, *msg.Polarity); err != nil {
			return chat.Message{}, fmt.Errorf("message %s: %w", r.ID, err)
		}
	}
	return msg, nil
}

func (r storedMoodPoint) toMoodPoint() (chat.MoodPoint, error) {
	category := sentiment.Category(r.Category)
	if !category.Valid() {
		return chat.MoodPoint{}, fmt.Errorf("unknown category %q", r.Category)
	}
	if err := checkPolarity(r.Polarity); err != nil {
		return chat.MoodPoint{}, err
	}
	if err := checkCategory(category, r.Polarity); err != nil {
		return chat.MoodPoint{}, err
	}
	recordedAt, err := decodeTime(r.RecordedAt)
	if err != nil {
		return chat.MoodPoint{}, fmt.Errorf("recordedAt: %w", err)
	}
	return chat.MoodPoint{
		SourceText: r.SourceText,
		Category:   category,
		Polarity:   r.Polarity,
		RecordedAt: recordedAt,
	}, nil
}

func checkPolarity(p float64) error {
	if p < -1 || p > 1 {
		return fmt.Errorf("polarity %v out of range", p)
	}
	return nil
}

// checkCategory 保证类别与极性一致，类别总是由极性推导出来的。
func checkCategory(category sentiment.Category, polarity float64) error {
	if want := sentiment.CategoryFor(polarity); category != want {
		return fmt.Errorf("category %q does not match polarity %v (want %q)", category, polarity, want)
	}
	return nil
}

func encodeTime(t time.Time) json.RawMessage {
	b, _ := json.Marshal(t.UTC().Format(time.RFC3339Nano))
	return b
}

// timeLayouts are tried in order for textual timestamps.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
}

// decodeTime accepts ISO-8601 text (including JavaScript toISOString output) and
// legacy epoch milliseconds, either as a JSON number or a digit string.
func decodeTime(raw json.RawMessage) (time.Time, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return time.Time{}, errors.New("timestamp missing")
	}

	if trimmed[0] != '"' {
		var millis json.Number
		if err := json.Unmarshal(trimmed, &millis); err != nil {
			return time.Time{}, fmt.Errorf("timestamp %s: %w", trimmed, err)
		}
		return fromEpochMillis(string(millis))
	}

	var text string
	if err := json.Unmarshal(trimmed, &text); err != nil {
		return time.Time{}, err
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return time.Time{}, errors.New("timestamp empty")
	}
	if isDigits(text) {
		return fromEpochMillis(text)
	}

	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, text); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", text)
}

func fromEpochMillis(s string) (time.Time, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("epoch millis %q: %w", s, err)
	}
	if f <= 0 {
		return time.Time{}, fmt.Errorf("epoch millis %q not positive", s)
	}
	return time.UnixMilli(int64(f)).UTC(), nil
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}
