package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/zhouzirui/solace/backend/internal/handler/chat"
	"github.com/zhouzirui/solace/backend/internal/handler/events"
	middlewarePkg "github.com/zhouzirui/solace/backend/internal/middleware"
	chatService "github.com/zhouzirui/solace/backend/internal/service/chat"
	"github.com/zhouzirui/solace/backend/pkg/utils"
)

// NewRouter wires HTTP routes to core services.
func NewRouter(chatSvc *chatService.Service, hub *events.Hub) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middlewarePkg.CORS)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.RespondJSON(w, http.StatusOK, map[string]string{
			"status": "ok",
			"state":  string(chatSvc.State()),
		})
	})

	r.Route("/api", func(api chi.Router) {
		chat.New(chatSvc).RegisterRoutes(api)
		events.New(hub).RegisterRoutes(api)
	})

	return r
}
