package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/nexaboard/nexaboard-go/internal/httpjson"
	"github.com/nexaboard/nexaboard-go/internal/service"
)

const maxBodyBytes = 1 << 20 // 1MB

// decodeJSON reads a size-limited JSON body into v. On failure it writes the
// error response and returns false.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httpjson.Error(w, http.StatusRequestEntityTooLarge, "request body too large")
			return false
		}
		httpjson.Error(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

var (
	badRequestErrors = []error{
		service.ErrEmailRequired,
		service.ErrPasswordRequired,
		service.ErrNameRequired,
		service.ErrProjectNameRequired,
		service.ErrManagerRequired,
		service.ErrInvalidDeadline,
		service.ErrUserIDRequired,
		service.ErrTaskTitleRequired,
		service.ErrProjectIDRequired,
		service.ErrInvalidStatus,
		service.ErrInvalidPriority,
		service.ErrContentRequired,
	}
	notFoundErrors = []error{
		service.ErrUserNotFound,
		service.ErrManagerNotFound,
		service.ErrProjectNotFound,
		service.ErrTaskNotFound,
	}
)

// writeServiceError maps service errors to status codes. Anything not in the
// taxonomy is logged and reported as a server fault.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case isAny(err, badRequestErrors):
		httpjson.Error(w, http.StatusBadRequest, err.Error())
	case isAny(err, notFoundErrors):
		httpjson.Error(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrEmailTaken):
		httpjson.Error(w, http.StatusConflict, err.Error())
	case errors.Is(err, service.ErrInvalidCredentials):
		httpjson.Error(w, http.StatusUnauthorized, err.Error())
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		httpjson.Error(w, http.StatusInternalServerError, "internal server error")
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
