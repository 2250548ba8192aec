package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/solace/backend/internal/model/article"
	"github.com/zhouzirui/solace/backend/internal/model/chat"
	"github.com/zhouzirui/solace/backend/internal/service/ai"
	chatservice "github.com/zhouzirui/solace/backend/internal/service/chat"
)

type blockingGenerator struct {
	started chan struct{}
	release chan struct{}
}

func (g *blockingGenerator) Generate(ctx context.Context, _ string) (ai.Reply, error) {
	g.started <- struct{}{}
	<-g.release
	return ai.Reply{Text: "ok"}, nil
}

func setupRouter(t *testing.T, opts chatservice.Options) (*chi.Mux, *chatservice.Service) {
	t.Helper()
	chatSvc := chatservice.NewService(context.Background(), opts)
	t.Cleanup(chatSvc.Close)

	r := chi.NewRouter()
	New(chatSvc).RegisterRoutes(r)
	return r, chatSvc
}

func do(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	return resp
}

func TestSubmitMessage(t *testing.T) {
	r, _ := setupRouter(t, chatservice.Options{})

	resp := do(r, http.MethodPost, "/messages", map[string]string{"text": "I am happy"})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result chatservice.TurnResult
	if err := json.Unmarshal(resp.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if result.UserMessage.Text != "I am happy" || result.Reply.Text == "" {
		t.Fatalf("unexpected result %+v", result)
	}

	resp = do(r, http.MethodGet, "/messages", nil)
	var list struct {
		Messages []chat.Message `json:"messages"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &list)
	if len(list.Messages) != 3 {
		t.Fatalf("expected greeting + 2 messages, got %d", len(list.Messages))
	}
}

func TestSubmitEmptyMessage(t *testing.T) {
	r, _ := setupRouter(t, chatservice.Options{})

	if resp := do(r, http.MethodPost, "/messages", map[string]string{"text": "  "}); resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.Code)
	}
	req := httptest.NewRequest(http.MethodPost, "/messages", bytes.NewReader([]byte("{broken")))
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %d", resp.Code)
	}
}

func TestSubmitWhileInFlight(t *testing.T) {
	gen := &blockingGenerator{started: make(chan struct{}, 1), release: make(chan struct{})}
	r, _ := setupRouter(t, chatservice.Options{Generator: gen})

	done := make(chan int, 1)
	go func() {
		done <- do(r, http.MethodPost, "/messages", map[string]string{"text": "first"}).Code
	}()
	<-gen.started

	if resp := do(r, http.MethodPost, "/messages", map[string]string{"text": "second"}); resp.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.Code)
	}

	close(gen.release)
	if code := <-done; code != http.StatusOK {
		t.Fatalf("expected first submission to succeed, got %d", code)
	}
}

func TestTogglePanel(t *testing.T) {
	r, svc := setupRouter(t, chatservice.Options{})

	resp := do(r, http.MethodPost, "/panels/resources", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if svc.ActivePanel() != chat.PanelResources {
		t.Fatalf("expected resources panel, got %q", svc.ActivePanel())
	}

	do(r, http.MethodPost, "/panels/emergency", nil)
	if svc.ActivePanel() != chat.PanelEmergency {
		t.Fatalf("expected emergency panel, got %q", svc.ActivePanel())
	}

	if resp := do(r, http.MethodPost, "/panels/sidebar", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for unknown panel, got %d", resp.Code)
	}

	do(r, http.MethodDelete, "/panels", nil)
	if svc.ActivePanel() != chat.PanelNone {
		t.Fatalf("expected no panel, got %q", svc.ActivePanel())
	}
}

func TestUpdatePreferences(t *testing.T) {
	r, svc := setupRouter(t, chatservice.Options{})

	resp := do(r, http.MethodPut, "/preferences", map[string]any{"language": "es", "topic": "sleep", "persistenceEnabled": false})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}

	var view chatservice.SessionView
	if err := json.Unmarshal(resp.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if view.Language != "es" || view.Topic != "sleep" || view.PersistenceEnabled {
		t.Fatalf("preferences not applied: %+v", view)
	}
	if svc.Language() != "es" {
		t.Fatalf("expected language es, got %s", svc.Language())
	}
	for _, a := range view.SuggestedArticles {
		if !a.HasTopic("sleep") {
			t.Fatalf("unexpected suggestion %s", a.ID)
		}
	}
}

func TestResetRequiresConfirmation(t *testing.T) {
	r, svc := setupRouter(t, chatservice.Options{})
	do(r, http.MethodPost, "/messages", map[string]string{"text": "hello"})

	if resp := do(r, http.MethodPost, "/session/reset", map[string]bool{"confirm": false}); resp.Code != http.StatusPreconditionRequired {
		t.Fatalf("expected 428, got %d", resp.Code)
	}
	if len(svc.Messages()) != 3 {
		t.Fatal("unconfirmed reset must not clear messages")
	}

	if resp := do(r, http.MethodPost, "/session/reset", map[string]bool{"confirm": true}); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	msgs := svc.Messages()
	if len(msgs) != 1 || msgs[0].Text != chatservice.GreetingText {
		t.Fatalf("expected only the greeting, got %+v", msgs)
	}
	if len(svc.MoodPoints()) != 1 {
		t.Fatal("reset must keep mood history")
	}
}

func TestCatalogEndpoints(t *testing.T) {
	r, _ := setupRouter(t, chatservice.Options{})

	resp := do(r, http.MethodGet, "/catalog", nil)
	var catalog struct {
		Articles []article.Article `json:"articles"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &catalog)
	if len(catalog.Articles) != len(article.Seed()) {
		t.Fatalf("expected full catalog, got %d", len(catalog.Articles))
	}

	if resp := do(r, http.MethodGet, "/catalog/better-sleep", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	if resp := do(r, http.MethodGet, "/catalog/missing", nil); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", resp.Code)
	}

	resp = do(r, http.MethodGet, "/topics", nil)
	var topics struct {
		Topics []string `json:"topics"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &topics)
	if len(topics.Topics) == 0 || topics.Topics[0] == "" {
		t.Fatalf("unexpected topics %v", topics.Topics)
	}

	resp = do(r, http.MethodGet, "/articles", nil)
	var suggested struct {
		Articles []article.Article `json:"articles"`
	}
	_ = json.Unmarshal(resp.Body.Bytes(), &suggested)
	if len(suggested.Articles) != 3 {
		t.Fatalf("expected fallback suggestions, got %d", len(suggested.Articles))
	}
}

func TestMoodsAndSession(t *testing.T) {
	r, _ := setupRouter(t, chatservice.Options{})
	do(r, http.MethodPost, "/messages", map[string]string{"text": "I feel sad"})

	resp := do(r, http.MethodGet, "/moods", nil)
	var moods struct {
		Points  []chat.MoodPoint `json:"points"`
		Summary struct {
			Count int `json:"count"`
		} `json:"summary"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &moods); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(moods.Points) != 1 || moods.Summary.Count != 1 {
		t.Fatalf("unexpected moods %+v", moods)
	}

	if resp := do(r, http.MethodGet, "/session", nil); resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
}
