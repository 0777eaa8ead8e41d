package handler

import (
	"net/http"

	"github.com/nexaboard/nexaboard-go/internal/httpjson"
	"github.com/nexaboard/nexaboard-go/internal/service"
)

// StatsHandler serves the dashboard counters.
type StatsHandler struct {
	service *service.StatsService
}

// NewStatsHandler creates a new StatsHandler.
func NewStatsHandler(svc *service.StatsService) *StatsHandler {
	return &StatsHandler{service: svc}
}

// HandleGet handles GET /api/stats requests.
func (h *StatsHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Get(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	httpjson.Write(w, http.StatusOK, stats)
}
