// Package ai holds the remote collaborators of a conversation turn: the
// response generator and the translator. Each has a deterministic mock and
// network-backed implementations selected once at startup.
package ai

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/internal/config"
	"github.com/zhouzirui/solace/backend/internal/logging"
)

// ErrEmptyReply is returned when a generator produced no usable text.
var ErrEmptyReply = errors.New("ai: empty reply")

// Reply is a generated assistant answer with its emotion tag.
type Reply struct {
	Text    string `json:"text" jsonschema:"required,description=The supportive reply shown to the user"`
	Emotion string `json:"emotion" jsonschema:"required,description=One lower-case word describing the tone of the reply"`
}

// Generator produces an assistant reply for the raw user text.
type Generator interface {
	Generate(ctx context.Context, userText string) (Reply, error)
}

// Translator renders text into the target language. Unsupported languages may
// come back unchanged.
type Translator interface {
	Translate(ctx context.Context, text, targetLanguage string) (string, error)
}

// NewBackend builds the generator and translator for the configured provider.
func NewBackend(ctx context.Context, cfg config.AIConfig, logger *zap.Logger) (Generator, Translator, error) {
	logger = logging.OrNop(logger).Named("ai")

	switch cfg.Provider {
	case config.ProviderMock, "":
		logger.Info("using mock response generator")
		return NewMockGenerator(), NewMockTranslator(), nil
	case config.ProviderArk:
		chatModel, err := newArkChatModel(ctx, cfg.Ark)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to create chat model: %w", err)
		}
		generator, err := NewEinoGenerator(ctx, chatModel, logger)
		if err != nil {
			return nil, nil, err
		}
		translator, err := NewEinoTranslator(ctx, chatModel, logger)
		if err != nil {
			return nil, nil, err
		}
		logger.Info("using ark response generator", zap.String("model", cfg.Ark.Model))
		return generator, translator, nil
	case config.ProviderOpenAI:
		if !cfg.OpenAI.Enabled() {
			return nil, nil, errors.New("openai provider selected but OPENAI_API_KEY or OPENAI_MODEL is missing")
		}
		client := newOpenAIClient(cfg.OpenAI)
		logger.Info("using openai response generator", zap.String("model", cfg.OpenAI.Model))
		return NewOpenAIGenerator(client, cfg.OpenAI.Model, logger), NewOpenAITranslator(client, cfg.OpenAI.Model), nil
	default:
		return nil, nil, fmt.Errorf("unsupported ai provider %q", cfg.Provider)
	}
}
