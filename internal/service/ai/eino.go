package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"
	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/internal/logging"
)

const generatorSystemPrompt = `You are a warm, patient wellness companion. The user may be sharing how they feel.
Listen, reflect their feelings back, and offer gentle encouragement in two to four sentences.
Never diagnose and never give medical instructions. If the user mentions danger to themselves, encourage them to contact local emergency services or a crisis line.
Respond with only a JSON object containing two string fields: "text" (your reply) and "emotion" (one lower-case word for the tone of your reply, such as comfort, warm, calm or cheerful).`

const translatorSystemPrompt = `You are a translation engine. Translate the user's message into the language identified by the code {language}.
Keep the meaning and the warm tone. Output only the translated text with no notes, quotes or explanations.`

// EinoGenerator runs a prompt-template -> chat-model chain to produce replies.
type EinoGenerator struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	logger *zap.Logger
}

// NewEinoGenerator compiles the reply chain over chatModel.
func NewEinoGenerator(ctx context.Context, chatModel model.ChatModel, logger *zap.Logger) (*EinoGenerator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(generatorSystemPrompt),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile reply chain: %w", err)
	}

	return &EinoGenerator{chain: runnable, logger: logging.OrNop(logger)}, nil
}

// Generate produces a reply for userText.
func (g *EinoGenerator) Generate(ctx context.Context, userText string) (Reply, error) {
	response, err := g.chain.Invoke(ctx, map[string]any{"query": userText})
	if err != nil {
		return Reply{}, fmt.Errorf("failed to run reply chain: %w", err)
	}
	if response == nil {
		return Reply{}, ErrEmptyReply
	}

	reply, err := parseReply(response.Content)
	if err != nil {
		return Reply{}, err
	}
	g.logger.Debug("generated reply", zap.Int("length", len(reply.Text)), zap.String("emotion", reply.Emotion))
	return reply, nil
}

// EinoTranslator runs a translation chain over the same chat model.
type EinoTranslator struct {
	chain  compose.Runnable[map[string]any, *schema.Message]
	logger *zap.Logger
}

// NewEinoTranslator compiles the translation chain over chatModel.
func NewEinoTranslator(ctx context.Context, chatModel model.ChatModel, logger *zap.Logger) (*EinoTranslator, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage(translatorSystemPrompt),
		schema.UserMessage("{text}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile translation chain: %w", err)
	}

	return &EinoTranslator{chain: runnable, logger: logging.OrNop(logger)}, nil
}

// Translate renders text in targetLanguage.
func (t *EinoTranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	response, err := t.chain.Invoke(ctx, map[string]any{
		"language": targetLanguage,
		"text":     text,
	})
	if err != nil {
		return "", fmt.Errorf("failed to run translation chain: %w", err)
	}
	if response == nil || strings.TrimSpace(response.Content) == "" {
		return "", ErrEmptyReply
	}
	return strings.TrimSpace(response.Content), nil
}
