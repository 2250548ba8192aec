package chat

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/internal/analysis/recommend"
	"github.com/zhouzirui/solace/backend/internal/model/article"
	"github.com/zhouzirui/solace/backend/internal/model/chat"
)

// ActivePanel returns the panel currently shown, or chat.PanelNone.
func (s *Service) ActivePanel() chat.Panel {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.panel
}

// TogglePanel opens panel, closing whichever one was open, or closes it when it
// is already the active panel. It returns the resulting active panel.
func (s *Service) TogglePanel(panel chat.Panel) (chat.Panel, error) {
	if _, err := chat.ParsePanel(string(panel)); err != nil {
		return s.ActivePanel(), fmt.Errorf("%w: %q", ErrUnknownPanel, panel)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panel == panel {
		s.panel = chat.PanelNone
	} else {
		s.panel = panel
	}
	return s.panel, nil
}

// ClosePanel hides any open panel.
func (s *Service) ClosePanel() {
	s.mu.Lock()
	s.panel = chat.PanelNone
	s.mu.Unlock()
}

func (s *Service) ShowMoodChart() chat.Panel        { return s.mustToggle(chat.PanelMoodChart) }
func (s *Service) ShowResources() chat.Panel        { return s.mustToggle(chat.PanelResources) }
func (s *Service) ShowEmergencySupport() chat.Panel { return s.mustToggle(chat.PanelEmergency) }
func (s *Service) ShowRelaxation() chat.Panel       { return s.mustToggle(chat.PanelRelaxation) }
func (s *Service) ShowArticles() chat.Panel         { return s.mustToggle(chat.PanelArticles) }

func (s *Service) mustToggle(panel chat.Panel) chat.Panel {
	active, _ := s.TogglePanel(panel)
	return active
}

// SetLanguage selects the language assistant replies are translated into.
// Only the next turn is affected.
func (s *Service) SetLanguage(language string) {
	language = strings.TrimSpace(language)
	if language == "" {
		language = BaseLanguage
	}
	s.mu.Lock()
	s.language = language
	s.mu.Unlock()
}

// SetTopic changes the preferred reading topic and re-runs the recommender
// against the last user message.
func (s *Service) SetTopic(ctx context.Context, topic string) []article.Article {
	topic = strings.ToLower(strings.TrimSpace(topic))
	if topic == "" {
		topic = article.DefaultTopic
	}

	s.mu.Lock()
	s.prefs.Topic = topic
	s.suggestions = recommend.Recommend(s.lastText, topic, s.catalog.List())
	articles := append([]article.Article(nil), s.suggestions...)
	s.mu.Unlock()

	s.persistPreferences(ctx)
	return articles
}

// SetPersistenceEnabled toggles durable storage. Enabling writes the current
// conversation immediately; disabling leaves stored data as it is.
func (s *Service) SetPersistenceEnabled(ctx context.Context, enabled bool) {
	s.mu.Lock()
	changed := s.prefs.PersistenceEnabled != enabled
	s.prefs.PersistenceEnabled = enabled
	s.mu.Unlock()

	s.persistPreferences(ctx)
	if changed && enabled {
		s.persistMessages(ctx)
		s.persistMoods(ctx)
	}
	s.logger.Info("persistence preference changed", zap.Bool("enabled", enabled))
}

// ResetSession clears the conversation back to the greeting and removes the
// stored message list. Mood history is kept. confirmed must be true.
func (s *Service) ResetSession(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return ErrConfirmationRequired
	}
	if !s.inFlight.CompareAndSwap(false, true) {
		return ErrTurnInFlight
	}
	defer s.inFlight.Store(false)

	s.mu.Lock()
	s.messages = []chat.Message{s.greeting()}
	s.lastText = ""
	s.suggestions = recommend.Recommend("", s.prefs.Topic, s.catalog.List())
	s.mu.Unlock()

	if s.adapter != nil {
		if err := s.adapter.ClearMessages(ctx); err != nil {
			s.logger.Warn("failed to clear stored messages", zap.Error(err))
		}
	}
	s.state.Store(chat.StateIdle)
	s.logger.Info("session reset")
	return nil
}

// persistPreferences always writes: the preferences hold the persistence
// switch itself.
func (s *Service) persistPreferences(ctx context.Context) {
	if s.adapter == nil {
		return
	}
	s.persistMu.Lock()
	defer s.persistMu.Unlock()
	if err := s.adapter.SavePreferences(ctx, s.Preferences()); err != nil {
		s.logger.Warn("failed to persist preferences", zap.Error(err))
	}
}
