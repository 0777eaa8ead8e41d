package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexaboard/nexaboard-go/internal/httpjson"
	"github.com/nexaboard/nexaboard-go/internal/middleware"
	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/service"
)

// MessageHandler handles HTTP requests for the communication channel.
type MessageHandler struct {
	service *service.MessageService
}

// NewMessageHandler creates a new MessageHandler.
func NewMessageHandler(svc *service.MessageService) *MessageHandler {
	return &MessageHandler{service: svc}
}

// HandleList handles GET /api/messages requests.
func (h *MessageHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, messages)
}

// HandleByProject handles GET /api/messages/project/{projectId} requests.
func (h *MessageHandler) HandleByProject(w http.ResponseWriter, r *http.Request) {
	messages, err := h.service.ListByProject(r.Context(), chi.URLParam(r, "projectId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, messages)
}

// HandleCreate handles POST /api/messages requests. The sender is always
// the principal.
func (h *MessageHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		// Unreachable behind Require(Authenticated).
		httpjson.Error(w, http.StatusUnauthorized, middleware.ErrUnauthenticated.Error())
		return
	}

	var req model.MessageRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	msg, err := h.service.Post(r.Context(), principal, req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, msg)
}
