// Package server assembles the HTTP surface: middleware chain, route table
// and the access policy attached to each route.
package server

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/nexaboard/nexaboard-go/internal/crypto"
	"github.com/nexaboard/nexaboard-go/internal/handler"
	"github.com/nexaboard/nexaboard-go/internal/middleware"
	"github.com/nexaboard/nexaboard-go/internal/model"
	"github.com/nexaboard/nexaboard-go/internal/observability"
	"github.com/nexaboard/nexaboard-go/internal/repository"
	"github.com/nexaboard/nexaboard-go/internal/service"
)

// CORSConfig lists what cross-origin callers may send. Credentials are always
// allowed since the session travels in a cookie.
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Options wires the router to its collaborators. Metrics and Logger may be nil.
type Options struct {
	Store   *repository.Store
	Tokens  *crypto.TokenService
	Metrics *observability.Metrics
	Logger  *slog.Logger
	CORS    CORSConfig
}

type route struct {
	method  string
	pattern string
	policy  middleware.Policy
	handler http.HandlerFunc
}

type handlers struct {
	auth     *handler.AuthHandler
	users    *handler.UserHandler
	projects *handler.ProjectHandler
	tasks    *handler.TaskHandler
	messages *handler.MessageHandler
	stats    *handler.StatsHandler
}

// NewRouter builds the application handler.
func NewRouter(opts Options) (http.Handler, error) {
	if opts.Store == nil || opts.Tokens == nil {
		return nil, errors.New("server: store and token service are required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	authService, err := service.NewAuthService(opts.Store.Users, opts.Tokens)
	if err != nil {
		return nil, fmt.Errorf("creating auth service: %w", err)
	}

	h := handlers{
		auth:     handler.NewAuthHandler(authService, opts.Tokens, opts.Metrics),
		users:    handler.NewUserHandler(service.NewUserService(opts.Store.Users)),
		projects: handler.NewProjectHandler(service.NewProjectService(opts.Store.Projects, opts.Store.Users)),
		tasks:    handler.NewTaskHandler(service.NewTaskService(opts.Store.Tasks, opts.Store.Users)),
		messages: handler.NewMessageHandler(service.NewMessageService(opts.Store.Messages)),
		stats:    handler.NewStatsHandler(service.NewStatsService(opts.Store.Projects, opts.Store.Users, opts.Store.Messages)),
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimw.Recoverer)
	if opts.Metrics != nil {
		r.Use(observability.HTTPMetricsMiddleware(opts.Metrics))
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.CORS.AllowedOrigins,
		AllowedMethods:   opts.CORS.AllowedMethods,
		AllowedHeaders:   opts.CORS.AllowedHeaders,
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.Authenticate(opts.Tokens, authService))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	for _, rt := range routes(h) {
		r.With(middleware.Require(rt.policy, opts.Metrics)).Method(rt.method, rt.pattern, rt.handler)
	}

	return otelhttp.NewHandler(r, "nexaboard-api"), nil
}

func routes(h handlers) []route {
	public := middleware.Public()
	authed := middleware.Authenticated()
	managers := middleware.RoleIn(model.RoleManager, model.RoleAdmin)

	return []route{
		{http.MethodPost, "/api/auth/register", public, h.auth.HandleRegister},
		{http.MethodPost, "/api/auth/login", public, h.auth.HandleLogin},
		{http.MethodGet, "/api/auth/me", authed, h.auth.HandleMe},
		{http.MethodPost, "/api/auth/logout", public, h.auth.HandleLogout},

		{http.MethodGet, "/api/users", authed, h.users.HandleList},
		{http.MethodGet, "/api/users/managers", authed, h.users.HandleManagers},
		{http.MethodGet, "/api/users/{id}", authed, h.users.HandleGet},

		{http.MethodPost, "/api/projects", managers, h.projects.HandleCreate},
		{http.MethodGet, "/api/projects", authed, h.projects.HandleList},
		{http.MethodGet, "/api/projects/my-projects", authed, h.projects.HandleMine},
		{http.MethodGet, "/api/projects/{id}", authed, h.projects.HandleGet},
		{http.MethodPut, "/api/projects/{id}", managers, h.projects.HandleUpdate},
		{http.MethodDelete, "/api/projects/{id}", managers, h.projects.HandleDelete},

		{http.MethodPost, "/api/tasks", authed, h.tasks.HandleCreate},
		{http.MethodPut, "/api/tasks/{id}", authed, h.tasks.HandleUpdate},
		{http.MethodPatch, "/api/tasks/{id}/status", authed, h.tasks.HandleUpdateStatus},
		{http.MethodGet, "/api/tasks/project/{projectId}", authed, h.tasks.HandleByProject},
		{http.MethodGet, "/api/tasks/my-tasks", authed, h.tasks.HandleMine},
		{http.MethodDelete, "/api/tasks/{id}", authed, h.tasks.HandleDelete},

		{http.MethodGet, "/api/messages", authed, h.messages.HandleList},
		{http.MethodGet, "/api/messages/project/{projectId}", authed, h.messages.HandleByProject},
		{http.MethodPost, "/api/messages", authed, h.messages.HandleCreate},

		{http.MethodGet, "/api/stats", authed, h.stats.HandleGet},
	}
}
