package chat

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/internal/analysis/coping"
	"github.com/zhouzirui/solace/backend/internal/analysis/recommend"
	"github.com/zhouzirui/solace/backend/internal/analysis/sentiment"
	"github.com/zhouzirui/solace/backend/internal/model/article"
	"github.com/zhouzirui/solace/backend/internal/model/chat"
	"github.com/zhouzirui/solace/backend/internal/service/ai"
)

// TurnResult is everything one user turn produced.
type TurnResult struct {
	UserMessage chat.Message      `json:"userMessage"`
	Suggestion  string            `json:"suggestion"`
	Reply       chat.Message      `json:"reply"`
	Escalated   bool              `json:"escalated"`
	Articles    []article.Article `json:"articles"`
}

// Submit runs one user turn to completion. A second call while a turn is in
// flight returns ErrTurnInFlight immediately. Generator and translator failures
// never surface here: the turn settles with a fallback or untranslated reply.
func (s *Service) Submit(ctx context.Context, text string) (TurnResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return TurnResult{}, ErrEmptyMessage
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return TurnResult{}, ErrTurnInFlight
	}
	defer s.inFlight.Store(false)

	// 一旦进入生成阶段，回合必须走到 Settled，调用方取消不再生效。
	ctx = context.WithoutCancel(ctx)

	s.state.Store(chat.StateAwaitingClassification)
	result := s.classify(ctx, text)

	s.state.Store(chat.StateAwaitingGeneration)
	reply := s.reply(ctx, text)

	s.mu.Lock()
	s.messages = append(s.messages, reply)
	s.mu.Unlock()
	s.persistMessages(ctx)

	result.Reply = reply
	if *result.UserMessage.Polarity < EscalationThreshold {
		result.Escalated = s.scheduleAdvisory(result.UserMessage)
	}
	s.state.Store(chat.StateSettled)

	s.logger.Debug("turn settled",
		zap.String("messageId", result.UserMessage.ID),
		zap.String("category", string(*result.UserMessage.Category)),
		zap.Bool("escalated", result.Escalated),
	)
	if s.listener != nil {
		s.listener.OnTurn(result)
	}
	return result, nil
}

// classify records the user message and mood point and refreshes suggestions.
func (s *Service) classify(ctx context.Context, text string) TurnResult {
	scored := sentiment.Classify(text)
	suggestion := coping.Suggest(scored.Category)
	createdAt := s.now().UTC()

	category := scored.Category
	polarity := scored.Polarity

	s.mu.Lock()
	msg := chat.Message{
		ID:        newID(),
		Text:      text,
		Sender:    chat.SenderUser,
		Category:  &category,
		Polarity:  &polarity,
		CreatedAt: createdAt,
		Language:  s.language,
	}
	s.messages = append(s.messages, msg)
	// 消息与情绪点在同一临界区内写入，读者不会只看到其中一个。
	s.moods.Record(chat.MoodPoint{
		SourceText: text,
		Category:   scored.Category,
		Polarity:   scored.Polarity,
		RecordedAt: createdAt,
	})
	s.lastText = text
	s.suggestions = recommend.Recommend(text, s.prefs.Topic, s.catalog.List())
	articles := append([]article.Article(nil), s.suggestions...)
	s.mu.Unlock()

	s.persistMessages(ctx)
	s.persistMoods(ctx)

	return TurnResult{UserMessage: msg, Suggestion: suggestion, Articles: articles}
}

// reply produces the assistant message, falling back on generation failure.
func (s *Service) reply(ctx context.Context, text string) chat.Message {
	genCtx, cancel := withTimeout(ctx, s.generationTimeout)
	generated, err := s.generate(genCtx, text)
	cancel()
	if err != nil {
		s.logger.Warn("reply generation failed, using fallback", zap.Error(err))
		return chat.Message{
			ID:        newID(),
			Text:      FallbackReply,
			Sender:    chat.SenderAssistant,
			CreatedAt: s.now().UTC(),
		}
	}

	replyText := generated.Text
	language := BaseLanguage
	if target := s.Language(); target != BaseLanguage {
		s.state.Store(chat.StateAwaitingTranslation)
		trCtx, cancel := withTimeout(ctx, s.translationTimeout)
		translated, err := s.translate(trCtx, replyText, target)
		cancel()
		if err != nil || strings.TrimSpace(translated) == "" {
			s.logger.Warn("translation failed, keeping original reply", zap.String("language", target), zap.Error(err))
		} else {
			replyText = translated
			language = target
		}
	}

	return chat.Message{
		ID:        newID(),
		Text:      replyText,
		Sender:    chat.SenderAssistant,
		Emotion:   generated.Emotion,
		CreatedAt: s.now().UTC(),
		Language:  language,
	}
}

// generate calls the generator, turning a panic into an error so the turn
// still settles with the fallback reply.
func (s *Service) generate(ctx context.Context, text string) (reply ai.Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panic: %v", r)
		}
	}()
	return s.generator.Generate(ctx, text)
}

// translate calls the translator, turning a panic into an error.
func (s *Service) translate(ctx context.Context, text, language string) (out string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("translator panic: %v", r)
		}
	}()
	return s.translator.Translate(ctx, text, language)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// persistMessages and persistMoods take the snapshot under persistMu so a
// stale snapshot can never be written after a newer one.
func (s *Service) persistMessages(ctx context.Context) {
	if s.adapter == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if !s.Preferences().PersistenceEnabled {
		return
	}
	if err := s.adapter.SaveMessages(ctx, s.Messages()); err != nil {
		s.logger.Warn("failed to persist messages", zap.Error(err))
	}
}

func (s *Service) persistMoods(ctx context.Context) {
	if s.adapter == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if !s.Preferences().PersistenceEnabled {
		return
	}
	if err := s.adapter.SaveMoodPoints(ctx, s.moods.All()); err != nil {
		s.logger.Warn("failed to persist mood history", zap.Error(err))
	}
}
