// Package chat implements the conversation orchestrator: it owns the message
// list and session flags, runs each user turn through classification, reply
// generation and optional translation, and raises escalation advisories.
package chat

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/internal/analysis/recommend"
	"github.com/zhouzirui/solace/backend/internal/logging"
	"github.com/zhouzirui/solace/backend/internal/model/article"
	"github.com/zhouzirui/solace/backend/internal/model/chat"
	"github.com/zhouzirui/solace/backend/internal/service/ai"
	"github.com/zhouzirui/solace/backend/internal/service/mood"
	"github.com/zhouzirui/solace/backend/internal/service/persistence"
)

var (
	ErrTurnInFlight         = errors.New("a message is already being answered")
	ErrEmptyMessage         = errors.New("message text is required")
	ErrConfirmationRequired = errors.New("session reset requires confirmation")
	ErrUnknownPanel         = errors.New("unknown panel")
)

const (
	// GreetingText opens every fresh or reset conversation.
	GreetingText = "Hello! I'm here to listen and support you. How are you feeling today?"
	// FallbackReply replaces the assistant reply when generation fails.
	FallbackReply = "I'm having trouble connecting right now. Please try again in a moment."
	// AdvisoryText is shown when a message crosses the escalation threshold.
	AdvisoryText = "It sounds like you're going through a really difficult time. Would you like to see some support resources?"

	// EscalationThreshold 用户消息极性低于该值时触发求助提示。
	EscalationThreshold = -0.3

	// BaseLanguage is the language replies are generated in.
	BaseLanguage = "en"
)

// Listener receives events raised outside the request/response path.
// Implementations must not block.
type Listener interface {
	OnAdvisory(chat.Advisory)
	OnTurn(TurnResult)
}

// Options wires the orchestrator's collaborators.
type Options struct {
	Generator  ai.Generator
	Translator ai.Translator
	// Adapter may be nil, in which case nothing is persisted.
	Adapter  *persistence.Adapter
	Catalog  article.Store
	Listener Listener
	Logger   *zap.Logger

	Now                func() time.Time
	EscalationDelay    time.Duration
	GenerationTimeout  time.Duration
	TranslationTimeout time.Duration
	DefaultLanguage    string
	// PersistenceEnabled applies when no stored preferences exist.
	PersistenceEnabled bool
}

// Service is the single-session conversation orchestrator.
type Service struct {
	generator  ai.Generator
	translator ai.Translator
	adapter    *persistence.Adapter
	catalog    article.Store
	listener   Listener
	logger     *zap.Logger
	now        func() time.Time

	escalationDelay    time.Duration
	generationTimeout  time.Duration
	translationTimeout time.Duration

	inFlight atomic.Bool
	state    atomic.Value // chat.TurnState

	// persistMu orders writes to the store.
	persistMu sync.Mutex

	// mu guards messages and moods together so a user message and its mood
	// point always appear at once.
	mu          sync.RWMutex
	messages    []chat.Message
	moods       *mood.History
	panel       chat.Panel
	language    string
	prefs       chat.Preferences
	lastText    string
	suggestions []article.Article

	advisories advisoryScheduler
}

// NewService builds the orchestrator and rehydrates stored state when
// persistence is enabled.
func NewService(ctx context.Context, opts Options) *Service {
	if opts.Generator == nil {
		opts.Generator = ai.NewMockGenerator()
	}
	if opts.Translator == nil {
		opts.Translator = ai.NewMockTranslator()
	}
	if opts.Catalog == nil {
		opts.Catalog = article.NewMemoryStore(article.Seed())
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.DefaultLanguage == "" {
		opts.DefaultLanguage = BaseLanguage
	}

	s := &Service{
		generator:          opts.Generator,
		translator:         opts.Translator,
		adapter:            opts.Adapter,
		catalog:            opts.Catalog,
		listener:           opts.Listener,
		logger:             logging.OrNop(opts.Logger).Named("chat"),
		now:                opts.Now,
		escalationDelay:    opts.EscalationDelay,
		generationTimeout:  opts.GenerationTimeout,
		translationTimeout: opts.TranslationTimeout,
		language:           opts.DefaultLanguage,
		prefs: chat.Preferences{
			PersistenceEnabled: opts.PersistenceEnabled,
			Topic:              article.DefaultTopic,
		},
	}
	s.state.Store(chat.StateIdle)
	s.advisories.init()

	var snapshot persistence.Snapshot
	if s.adapter != nil {
		if prefs, ok := s.adapter.LoadPreferences(ctx); ok {
			s.prefs.PersistenceEnabled = prefs.PersistenceEnabled
			if prefs.Topic != "" {
				s.prefs.Topic = prefs.Topic
			}
		}
		if s.prefs.PersistenceEnabled {
			snapshot = s.adapter.Load(ctx)
		}
	}

	s.messages = snapshot.Messages
	if len(s.messages) == 0 {
		s.messages = []chat.Message{s.greeting()}
	}
	s.moods = mood.NewHistory(snapshot.MoodPoints)
	for i := len(s.messages) - 1; i >= 0; i-- {
		if s.messages[i].Sender == chat.SenderUser {
			s.lastText = s.messages[i].Text
			break
		}
	}
	s.suggestions = recommend.Recommend(s.lastText, s.prefs.Topic, s.catalog.List())

	s.logger.Info("conversation ready",
		zap.Int("messages", len(s.messages)),
		zap.Int("moodPoints", s.moods.Len()),
		zap.Bool("persistenceEnabled", s.prefs.PersistenceEnabled),
	)
	return s
}

// Close cancels pending advisories and waits for any that are being delivered.
func (s *Service) Close() {
	s.advisories.close()
}

// State reports the turn state machine's current position.
func (s *Service) State() chat.TurnState {
	return s.state.Load().(chat.TurnState)
}

// Messages returns a copy of the conversation.
func (s *Service) Messages() []chat.Message {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]chat.Message(nil), s.messages...)
}

// MoodPoints returns the mood history in recording order.
func (s *Service) MoodPoints() []chat.MoodPoint {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moods.All()
}

// MoodSummary returns aggregate mood figures.
func (s *Service) MoodSummary() mood.Summary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.moods.Summary()
}

// SuggestedArticles returns the current reading suggestions.
func (s *Service) SuggestedArticles() []article.Article {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]article.Article(nil), s.suggestions...)
}

// Catalog exposes the article catalog backing the recommender.
func (s *Service) Catalog() article.Store {
	return s.catalog
}

// Language returns the selected reply language.
func (s *Service) Language() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.language
}

// Preferences returns the persisted session settings.
func (s *Service) Preferences() chat.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// SessionView is a point-in-time copy of everything the UI renders.
type SessionView struct {
	Messages           []chat.Message    `json:"messages"`
	MoodPoints         []chat.MoodPoint  `json:"moodPoints"`
	MoodSummary        mood.Summary      `json:"moodSummary"`
	ActivePanel        chat.Panel        `json:"activePanel"`
	Language           string            `json:"language"`
	Topic              string            `json:"topic"`
	PersistenceEnabled bool              `json:"persistenceEnabled"`
	SuggestedArticles  []article.Article `json:"suggestedArticles"`
	State              chat.TurnState    `json:"state"`
}

// Snapshot returns the current session view.
func (s *Service) Snapshot() SessionView {
	s.mu.RLock()
	view := SessionView{
		Messages:           append([]chat.Message(nil), s.messages...),
		ActivePanel:        s.panel,
		Language:           s.language,
		Topic:              s.prefs.Topic,
		PersistenceEnabled: s.prefs.PersistenceEnabled,
		SuggestedArticles:  append([]article.Article(nil), s.suggestions...),
		MoodPoints:         s.moods.All(),
		MoodSummary:        s.moods.Summary(),
	}
	s.mu.RUnlock()

	view.State = s.State()
	return view
}

func (s *Service) greeting() chat.Message {
	return chat.Message{
		ID:        newID(),
		Text:      GreetingText,
		Sender:    chat.SenderAssistant,
		CreatedAt: s.now().UTC(),
		Language:  BaseLanguage,
	}
}

// newID returns a time-ordered identifier so id order matches creation order.
func newID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
