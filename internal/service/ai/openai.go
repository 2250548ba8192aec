package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/responses"
	"go.uber.org/zap"

	"github.com/zhouzirui/solace/backend/internal/config"
	"github.com/zhouzirui/solace/backend/internal/logging"
)

// replySchema is the strict output schema requested from the Responses API.
var replySchema = generateSchema[Reply]()

func newOpenAIClient(cfg config.OpenAIConfig) *openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		// failed turns fall back to a canned reply instead of retrying
		option.WithMaxRetries(0),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	client := openai.NewClient(opts...)
	return &client
}

// OpenAIGenerator produces replies through the OpenAI Responses API.
type OpenAIGenerator struct {
	client *openai.Client
	model  string
	logger *zap.Logger
}

// NewOpenAIGenerator returns a generator bound to model.
func NewOpenAIGenerator(client *openai.Client, model string, logger *zap.Logger) *OpenAIGenerator {
	return &OpenAIGenerator{client: client, model: model, logger: logging.OrNop(logger)}
}

// Generate asks the model for a JSON reply and decodes it.
func (g *OpenAIGenerator) Generate(ctx context.Context, userText string) (Reply, error) {
	if g.client == nil {
		return Reply{}, errors.New("openai generator: client is nil")
	}

	format := responses.ResponseFormatTextConfigUnionParam{
		OfJSONSchema: &responses.ResponseFormatTextJSONSchemaConfigParam{
			Name:        "SupportiveReply",
			Schema:      replySchema,
			Strict:      openai.Bool(true),
			Description: openai.String("Supportive reply with tone tag"),
			Type:        "json_schema",
		},
	}

	params := responses.ResponseNewParams{
		Model:           g.model,
		MaxOutputTokens: openai.Int(600),
		Instructions:    openai.String(generatorSystemPrompt),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(userText, responses.EasyInputMessageRoleUser),
			},
		},
		Text: responses.ResponseTextConfigParam{
			Format: format,
		},
	}

	resp, err := g.client.Responses.New(ctx, params)
	if err != nil {
		return Reply{}, fmt.Errorf("openai responses: %w", err)
	}

	reply, err := parseReply(resp.OutputText())
	if err != nil {
		return Reply{}, err
	}
	g.logger.Debug("generated reply", zap.Int("length", len(reply.Text)), zap.String("emotion", reply.Emotion))
	return reply, nil
}

// OpenAITranslator translates through the OpenAI Responses API.
type OpenAITranslator struct {
	client *openai.Client
	model  string
}

// NewOpenAITranslator returns a translator bound to model.
func NewOpenAITranslator(client *openai.Client, model string) *OpenAITranslator {
	return &OpenAITranslator{client: client, model: model}
}

// Translate renders text in targetLanguage.
func (t *OpenAITranslator) Translate(ctx context.Context, text, targetLanguage string) (string, error) {
	if t.client == nil {
		return "", errors.New("openai translator: client is nil")
	}

	instructions := strings.ReplaceAll(translatorSystemPrompt, "{language}", targetLanguage)
	params := responses.ResponseNewParams{
		Model:           t.model,
		MaxOutputTokens: openai.Int(800),
		Instructions:    openai.String(instructions),
		Input: responses.ResponseNewParamsInputUnion{
			OfInputItemList: []responses.ResponseInputItemUnionParam{
				responses.ResponseInputItemParamOfMessage(text, responses.EasyInputMessageRoleUser),
			},
		},
	}

	resp, err := t.client.Responses.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("openai responses: %w", err)
	}
	out := strings.TrimSpace(resp.OutputText())
	if out == "" {
		return "", ErrEmptyReply
	}
	return out, nil
}

func generateSchema[T any]() map[string]any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties:  false,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
	}
	var v T
	s := reflector.Reflect(v)

	b, err := s.MarshalJSON()
	if err != nil {
		panic(err)
	}
	var out map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		panic(err)
	}
	// strict mode rejects unknown keys
	out["additionalProperties"] = false
	delete(out, "$schema")
	delete(out, "$id")
	return out
}
