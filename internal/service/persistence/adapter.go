package persistence

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/internal/logging"
	"github.com/zhouzirui/solace/backend/internal/model/chat"
	"github.com/zhouzirui/solace/backend/internal/storage"
)

// Fixed key names, appended to the configured prefix.
const (
	messagesKey    = "messages"
	moodHistoryKey = "moodHistory"
	preferencesKey = "preferences"
)

// Snapshot is the conversation state recovered at startup.
type Snapshot struct {
	Messages   []chat.Message
	MoodPoints []chat.MoodPoint
}

// Adapter serializes conversation and mood state into a storage.Store.
// Reads fail soft: corrupt or missing data yields empty collections.
type Adapter struct {
	store  storage.Store
	prefix string
	logger *zap.Logger
}

// NewAdapter wraps store. prefix namespaces every key, e.g. "solace.".
func NewAdapter(store storage.Store, prefix string, logger *zap.Logger) *Adapter {
	return &Adapter{
		store:  store,
		prefix: prefix,
		logger: logging.OrNop(logger).Named("persistence"),
	}
}

func (a *Adapter) key(name string) string {
	return a.prefix + name
}

// SaveMessages replaces the stored message list.
func (a *Adapter) SaveMessages(ctx context.Context, messages []chat.Message) error {
	records := make([]storedMessage, len(messages))
	for i, msg := range messages {
		records[i] = toStoredMessage(msg)
	}
	return a.write(ctx, messagesKey, records)
}

// SaveMoodPoints replaces the stored mood history.
func (a *Adapter) SaveMoodPoints(ctx context.Context, points []chat.MoodPoint) error {
	records := make([]storedMoodPoint, len(points))
	for i, point := range points {
		records[i] = toStoredMoodPoint(point)
	}
	return a.write(ctx, moodHistoryKey, records)
}

// SavePreferences stores the preferences that survive a restart.
func (a *Adapter) SavePreferences(ctx context.Context, prefs chat.Preferences) error {
	return a.write(ctx, preferencesKey, prefs)
}

// ClearMessages removes the stored message list. Mood history is kept.
func (a *Adapter) ClearMessages(ctx context.Context) error {
	if err := a.store.Remove(ctx, a.key(messagesKey)); err != nil {
		return fmt.Errorf("clear messages: %w", err)
	}
	return nil
}

// Load reads messages and mood points. It never returns an error; each key that
// is missing or fails to decode comes back empty.
func (a *Adapter) Load(ctx context.Context) Snapshot {
	return Snapshot{
		Messages:   a.loadMessages(ctx),
		MoodPoints: a.loadMoodPoints(ctx),
	}
}

// LoadPreferences returns the stored preferences and whether any were found.
func (a *Adapter) LoadPreferences(ctx context.Context) (chat.Preferences, bool) {
	var prefs chat.Preferences
	if !a.read(ctx, preferencesKey, &prefs) {
		return chat.Preferences{}, false
	}
	return prefs, true
}

func (a *Adapter) loadMessages(ctx context.Context) []chat.Message {
	var records []storedMessage
	if !a.read(ctx, messagesKey, &records) {
		return []chat.Message{}
	}

	messages := make([]chat.Message, 0, len(records))
	for i, record := range records {
		msg, err := record.toMessage()
		if err != nil {
			a.logger.Warn("stored messages failed validation, starting empty",
				zap.Int("index", i), zap.Error(err))
			return []chat.Message{}
		}
		messages = append(messages, msg)
	}
	return messages
}

func (a *Adapter) loadMoodPoints(ctx context.Context) []chat.MoodPoint {
	var records []storedMoodPoint
	if !a.read(ctx, moodHistoryKey, &records) {
		return []chat.MoodPoint{}
	}

	points := make([]chat.MoodPoint, 0, len(records))
	for i, record := range records {
		point, err := record.toMoodPoint()
		if err != nil {
			a.logger.Warn("stored mood history failed validation, starting empty",
				zap.Int("index", i), zap.Error(err))
			return []chat.MoodPoint{}
		}
		points = append(points, point)
	}
	return points
}

func (a *Adapter) write(ctx context.Context, name string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal %s: %w", name, err)
	}
	if err := a.store.Set(ctx, a.key(name), string(b)); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}

// read decodes the value under name into dst and reports success. Failures are
// logged here so callers only see an empty result.
func (a *Adapter) read(ctx context.Context, name string, dst any) bool {
	raw, err := a.store.Get(ctx, a.key(name))
	if errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if err != nil {
		a.logger.Warn("failed to read stored state", zap.String("key", a.key(name)), zap.Error(err))
		return false
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		a.logger.Warn("stored state is corrupt, ignoring", zap.String("key", a.key(name)), zap.Error(err))
		return false
	}
	return true
}
