package handler

import (
	"errors"
	"net/http"

	"github.com/nexaboard/nexaboard-go/internal/httpjson"
	"github.com/nexaboard/nexaboard-go/internal/middleware"
	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/observability"
	"github.com/nexaboard/nexaboard-go/internal/service"
)

// SessionCookies builds the cookies that carry and clear the session token.
type SessionCookies interface {
	Cookie(token string) *http.Cookie
	ClearCookie() *http.Cookie
}

// AuthHandler handles HTTP requests for authentication.
type AuthHandler struct {
	service *service.AuthService
	cookies SessionCookies
	metrics *observability.Metrics
}

// NewAuthHandler creates a new AuthHandler. metrics may be nil.
func NewAuthHandler(svc *service.AuthService, cookies SessionCookies, metrics *observability.Metrics) *AuthHandler {
	return &AuthHandler{service: svc, cookies: cookies, metrics: metrics}
}

// HandleRegister handles POST /api/auth/register requests.
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !decodeJSON(w, r, &req) {
		h.metrics.RecordAuth("register", observability.OutcomeInvalid)
		return
	}

	res, err := h.service.Register(r.Context(), req)
	if err != nil {
		h.metrics.RecordAuth("register", authOutcome(err))
		writeServiceError(w, r, err)
		return
	}

	h.metrics.RecordAuth("register", observability.OutcomeSuccess)
	http.SetCookie(w, h.cookies.Cookie(res.Token))
	httpjson.Write(w, http.StatusCreated, model.NewUserResponse(res.User))
}

// HandleLogin handles POST /api/auth/login requests.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !decodeJSON(w, r, &req) {
		h.metrics.RecordAuth("login", observability.OutcomeInvalid)
		return
	}

	res, err := h.service.Login(r.Context(), req)
	if err != nil {
		h.metrics.RecordAuth("login", authOutcome(err))
		writeServiceError(w, r, err)
		return
	}

	h.metrics.RecordAuth("login", observability.OutcomeSuccess)
	http.SetCookie(w, h.cookies.Cookie(res.Token))
	httpjson.Write(w, http.StatusOK, model.NewUserResponse(res.User))
}

// HandleMe handles GET /api/auth/me requests.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.PrincipalFromContext(r.Context())
	if !ok {
		// Unreachable behind Require(Authenticated).
		httpjson.Error(w, http.StatusUnauthorized, middleware.ErrUnauthenticated.Error())
		return
	}

	httpjson.Write(w, http.StatusOK, model.NewUserResponse(principal))
}

// HandleLogout handles POST /api/auth/logout requests. The token itself stays
// valid until it expires; logout only tells the client to drop the cookie.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, h.cookies.ClearCookie())
	httpjson.Write(w, http.StatusOK, map[string]string{"message": "logout successful"})
}

func authOutcome(err error) string {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return observability.OutcomeInvalidCredentials
	case errors.Is(err, service.ErrEmailTaken):
		return observability.OutcomeDuplicate
	case isAny(err, badRequestErrors):
		return observability.OutcomeInvalid
	default:
		return observability.OutcomeError
	}
}
