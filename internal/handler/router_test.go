package handler

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/zhouzirui/solace/backend/internal/handler/events"
	chatService "github.com/zhouzirui/solace/backend/internal/service/chat"
)

func TestRouterMountsAPI(t *testing.T) {
	svc := chatService.NewService(context.Background(), chatService.Options{})
	defer svc.Close()
	hub := events.NewHub(nil)
	defer hub.Close()

	router := NewRouter(svc, hub)

	cases := []struct {
		method  string
		path    string
		body    string
		headers map[string]string
		want    int
	}{
		{http.MethodGet, "/healthz", "", nil, http.StatusOK},
		{http.MethodGet, "/api/session", "", nil, http.StatusOK},
		{http.MethodPost, "/api/messages", `{"text":"hello"}`, nil, http.StatusOK},
		{http.MethodPost, "/api/session/reset", `{}`, nil, http.StatusPreconditionRequired},
		{http.MethodOptions, "/api/messages", "", map[string]string{
			"Origin":                        "http://localhost:5173",
			"Access-Control-Request-Method": http.MethodPost,
		}, http.StatusNoContent},
		{http.MethodGet, "/api/unknown", "", nil, http.StatusNotFound},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(tc.method, tc.path, bytes.NewBufferString(tc.body))
		for k, v := range tc.headers {
			req.Header.Set(k, v)
		}
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != tc.want {
			t.Fatalf("%s %s: expected %d, got %d", tc.method, tc.path, tc.want, resp.Code)
		}
	}
}
