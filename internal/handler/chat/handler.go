package chat

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/solace/backend/internal/model/chat"
	chatService "github.com/zhouzirui/solace/backend/internal/service/chat"
	"github.com/zhouzirui/solace/backend/pkg/utils"
)

// Handler 聊天服务的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/session", h.handleSession)
	r.Post("/session/reset", h.handleReset)
	r.Get("/messages", h.handleListMessages)
	r.Post("/messages", h.handleSubmit)
	r.Get("/moods", h.handleMoods)
	r.Get("/articles", h.handleSuggestedArticles)
	r.Get("/catalog", h.handleCatalog)
	r.Get("/catalog/{articleID}", h.handleArticle)
	r.Get("/topics", h.handleTopics)
	r.Post("/panels/{panel}", h.handleTogglePanel)
	r.Delete("/panels", h.handleClosePanel)
	r.Put("/preferences", h.handlePreferences)
}

func (h *Handler) handleSession(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.Snapshot())
}

// handleSubmit 提交一条用户消息并等待本轮回复
func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Text string `json:"text"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.chatSvc.Submit(r.Context(), payload.Text)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, result)
}

func (h *Handler) handleListMessages(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"messages": h.chatSvc.Messages()})
}

func (h *Handler) handleMoods(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{
		"points":  h.chatSvc.MoodPoints(),
		"summary": h.chatSvc.MoodSummary(),
	})
}

func (h *Handler) handleSuggestedArticles(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"articles": h.chatSvc.SuggestedArticles()})
}

func (h *Handler) handleCatalog(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"articles": h.chatSvc.Catalog().List()})
}

func (h *Handler) handleArticle(w http.ResponseWriter, r *http.Request) {
	item, ok := h.chatSvc.Catalog().FindByID(chi.URLParam(r, "articleID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "article not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, item)
}

func (h *Handler) handleTopics(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, map[string]any{"topics": h.chatSvc.Catalog().Topics()})
}

// handleTogglePanel 切换辅助面板，同一时间只有一个面板处于打开状态
func (h *Handler) handleTogglePanel(w http.ResponseWriter, r *http.Request) {
	active, err := h.chatSvc.TogglePanel(chat.Panel(chi.URLParam(r, "panel")))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, map[string]any{"activePanel": active})
}

func (h *Handler) handleClosePanel(w http.ResponseWriter, r *http.Request) {
	h.chatSvc.ClosePanel()
	utils.RespondJSON(w, http.StatusOK, map[string]any{"activePanel": chat.PanelNone})
}

func (h *Handler) handlePreferences(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Language           *string `json:"language"`
		Topic              *string `json:"topic"`
		PersistenceEnabled *bool   `json:"persistenceEnabled"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if payload.Language != nil {
		h.chatSvc.SetLanguage(*payload.Language)
	}
	if payload.Topic != nil {
		h.chatSvc.SetTopic(r.Context(), *payload.Topic)
	}
	if payload.PersistenceEnabled != nil {
		h.chatSvc.SetPersistenceEnabled(r.Context(), *payload.PersistenceEnabled)
	}
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.Snapshot())
}

// handleReset 清空对话，需要显式确认
func (h *Handler) handleReset(w http.ResponseWriter, r *http.Request) {
	var payload struct {
		Confirm bool `json:"confirm"`
	}
	if err := utils.DecodeJSON(w, r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.chatSvc.ResetSession(r.Context(), payload.Confirm); err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, h.chatSvc.Snapshot())
}

func respondServiceError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, chatService.ErrTurnInFlight):
		status = http.StatusConflict
	case errors.Is(err, chatService.ErrEmptyMessage):
		status = http.StatusBadRequest
	case errors.Is(err, chatService.ErrConfirmationRequired):
		status = http.StatusPreconditionRequired
	case errors.Is(err, chatService.ErrUnknownPanel):
		status = http.StatusNotFound
	}
	utils.RespondError(w, status, err.Error())
}
