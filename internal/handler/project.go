package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nexaboard/nexaboard-go/internal/httpjson"
	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/service"
)

// ProjectHandler handles HTTP requests for projects.
type ProjectHandler struct {
	service *service.ProjectService
}

// NewProjectHandler creates a new ProjectHandler.
func NewProjectHandler(svc *service.ProjectService) *ProjectHandler {
	return &ProjectHandler{service: svc}
}

// HandleCreate handles POST /api/projects requests.
func (h *ProjectHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req model.ProjectRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusCreated, project)
}

// HandleList handles GET /api/projects requests.
func (h *ProjectHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.List(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, projects)
}

// HandleMine handles GET /api/projects/my-projects?userId= requests.
func (h *ProjectHandler) HandleMine(w http.ResponseWriter, r *http.Request) {
	projects, err := h.service.ListForUser(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, projects)
}

// HandleGet handles GET /api/projects/{id} requests.
func (h *ProjectHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	project, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, project)
}

// HandleUpdate handles PUT /api/projects/{id} requests.
func (h *ProjectHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	var req model.ProjectUpdateRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	project, err := h.service.Update(r.Context(), chi.URLParam(r, "id"), req)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, project)
}

// HandleDelete handles DELETE /api/projects/{id} requests.
func (h *ProjectHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
