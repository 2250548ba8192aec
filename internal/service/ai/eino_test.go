package ai

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
)

type fakeChatModel struct {
	content string
	err     error
	inputs  [][]*schema.Message
}

func (f *fakeChatModel) Generate(_ context.Context, input []*schema.Message, _ ...model.Option) (*schema.Message, error) {
	f.inputs = append(f.inputs, input)
	if f.err != nil {
		return nil, f.err
	}
	return schema.AssistantMessage(f.content, nil), nil
}

func (f *fakeChatModel) Stream(ctx context.Context, input []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := f.Generate(ctx, input, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func (f *fakeChatModel) BindTools(_ []*schema.ToolInfo) error { return nil }

func TestEinoGeneratorParsesJSONReply(t *testing.T) {
	ctx := context.Background()
	fake := &fakeChatModel{content: `{"text":"I'm listening.","emotion":"warm"}`}

	g, err := NewEinoGenerator(ctx, fake, nil)
	if err != nil {
		t.Fatalf("NewEinoGenerator err: %v", err)
	}

	reply, err := g.Generate(ctx, "rough day at work")
	if err != nil {
		t.Fatalf("Generate err: %v", err)
	}
	if reply.Text != "I'm listening." || reply.Emotion != "warm" {
		t.Fatalf("unexpected reply %+v", reply)
	}

	if len(fake.inputs) != 1 {
		t.Fatalf("expected one model call, got %d", len(fake.inputs))
	}
	messages := fake.inputs[0]
	if len(messages) != 2 || messages[0].Role != schema.System || messages[1].Role != schema.User {
		t.Fatalf("unexpected prompt shape: %+v", messages)
	}
	if messages[1].Content != "rough day at work" {
		t.Fatalf("user text not forwarded verbatim: %q", messages[1].Content)
	}
}

func TestEinoGeneratorPropagatesModelError(t *testing.T) {
	ctx := context.Background()
	g, err := NewEinoGenerator(ctx, &fakeChatModel{err: errors.New("upstream 503")}, nil)
	if err != nil {
		t.Fatalf("NewEinoGenerator err: %v", err)
	}
	if _, err := g.Generate(ctx, "hello"); err == nil {
		t.Fatal("expected error from failing model")
	}
}

func TestEinoGeneratorEmptyContent(t *testing.T) {
	ctx := context.Background()
	g, err := NewEinoGenerator(ctx, &fakeChatModel{content: "  "}, nil)
	if err != nil {
		t.Fatalf("NewEinoGenerator err: %v", err)
	}
	if _, err := g.Generate(ctx, "hello"); !errors.Is(err, ErrEmptyReply) {
		t.Fatalf("expected ErrEmptyReply, got %v", err)
	}
}

func TestEinoTranslatorFillsLanguage(t *testing.T) {
	ctx := context.Background()
	fake := &fakeChatModel{content: " Hola, estoy aquí. "}

	tr, err := NewEinoTranslator(ctx, fake, nil)
	if err != nil {
		t.Fatalf("NewEinoTranslator err: %v", err)
	}

	out, err := tr.Translate(ctx, "Hello, I'm here.", "es")
	if err != nil {
		t.Fatalf("Translate err: %v", err)
	}
	if out != "Hola, estoy aquí." {
		t.Fatalf("unexpected translation %q", out)
	}

	system := fake.inputs[0][0].Content
	if !strings.Contains(system, "code es") {
		t.Fatalf("language not substituted into prompt: %q", system)
	}
	if fake.inputs[0][1].Content != "Hello, I'm here." {
		t.Fatalf("text not forwarded: %q", fake.inputs[0][1].Content)
	}
}
