package httpx

import (
	"log/slog"
	"net/http"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth       SessionAuth
	Gateway    Authenticator
	Delegation Delegation
	Todos      TodoService
	Pages      *PageRenderer
	Cookies    SessionCookies
	// LoginHint is shown on the delegated login form (empty hides it).
	LoginHint string

	// Optional: request metrics and the scrape endpoint.
	Metrics        HTTPObserver
	MetricsHandler http.Handler
	MetricsPath    string

	// Optional: dependency checks served at /readyz.
	Readiness map[string]ReadinessCheck

	Logger *slog.Logger
}

// NewRouter creates and configures the todo API router.
func NewRouter(services RouterServices) http.Handler {
	if services.Auth == nil || services.Gateway == nil || services.Delegation == nil ||
		services.Todos == nil || services.Pages == nil {
		panic("httpx: NewRouter requires Auth, Gateway, Delegation, Todos and Pages") //nolint:forbidigo // Fail fast during server setup.
	}
	mux := http.NewServeMux()

	registerAuthRoutes(mux, &AuthHandlers{
		Svc:     services.Auth,
		Cookies: services.Cookies,
		Logger:  services.Logger,
	})
	registerBYOARoutes(mux, &BYOAHandlers{
		Flow:   services.Delegation,
		Pages:  services.Pages,
		Hint:   services.LoginHint,
		Logger: services.Logger,
	})
	registerTodoRoutes(mux,
		&TodoHandlers{Svc: services.Todos, Logger: services.Logger},
		RequireIdentity(services.Gateway, services.Cookies),
	)

	mux.Handle("GET /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("HEAD /healthz", http.HandlerFunc(healthHandler))
	mux.Handle("GET /readyz", readinessHandler(services.Readiness))

	if services.MetricsHandler != nil {
		path := services.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, services.MetricsHandler)
	}

	var h http.Handler = mux
	if services.Metrics != nil {
		h = Metrics(services.Metrics)(h)
	}
	return h
}

func registerAuthRoutes(mux *http.ServeMux, h *AuthHandlers) {
	mux.HandleFunc("POST /auth/login", h.Login)
	mux.HandleFunc("POST /auth/logout", h.Logout)
	mux.HandleFunc("GET /auth/status", h.Status)
}

func registerBYOARoutes(mux *http.ServeMux, h *BYOAHandlers) {
	mux.HandleFunc("GET /auth/mcp-login", h.LoginPage)
	mux.HandleFunc("POST /auth/mcp-login-callback", h.Callback)
}

func registerTodoRoutes(mux *http.ServeMux, h *TodoHandlers, mw func(http.Handler) http.Handler) {
	mux.Handle("GET /api/todos", mw(http.HandlerFunc(h.List)))
	mux.Handle("POST /api/todos", mw(http.HandlerFunc(h.Create)))
	mux.Handle("PUT /api/todos/{id}", mw(http.HandlerFunc(h.Update)))
	mux.Handle("DELETE /api/todos/{id}", mw(http.HandlerFunc(h.Delete)))
}
