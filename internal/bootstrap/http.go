package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	todobyoa "github.com/target/todo-byoa"
	"github.com/target/todo-byoa/config"
	httpx "github.com/target/todo-byoa/internal/http"
	"github.com/target/todo-byoa/internal/observability/metrics"
)

const shutdownTimeout = 10 * time.Second

// HTTPServerConfig contains configuration for the todo API server.
type HTTPServerConfig struct {
	Config    *config.AppConfig
	Services  ServiceContainer
	Readiness map[string]httpx.ReadinessCheck
	Logger    *slog.Logger
}

// BuildAPIHandler assembles the router and wraps it in logging and panic recovery.
func BuildAPIHandler(cfg *HTTPServerConfig) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	templates, err := fs.Sub(todobyoa.TemplateFS, "frontend/templates")
	if err != nil {
		return nil, fmt.Errorf("open templates: %w", err)
	}
	pages, err := httpx.NewPageRenderer(templates, logger)
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	obs := cfg.Services.Observability
	services := httpx.RouterServices{
		Auth:       cfg.Services.Sessions,
		Gateway:    cfg.Services.Gateway,
		Delegation: cfg.Services.Delegation,
		Todos:      cfg.Services.Todos,
		Pages:      pages,
		Cookies: httpx.SessionCookies{
			Secret: []byte(appCfg.Auth.SessionSecret),
			Domain: appCfg.HTTP.CookieDomain,
		},
		Metrics:   obs.Metrics,
		Readiness: cfg.Readiness,
		Logger:    logger,
	}
	if appCfg.Storage.SeedDemoData {
		services.LoginHint = httpx.DemoLoginHint
	}
	if obs.MetricsConfig.IsEnabled() && obs.Registry != nil {
		services.MetricsHandler = metrics.Handler(obs.Registry)
		services.MetricsPath = obs.MetricsConfig.Path
	}

	return wrapHandler(httpx.NewRouter(services), logger), nil
}

// wrapHandler applies Recover -> Logging -> handler.
func wrapHandler(h http.Handler, logger *slog.Logger) http.Handler {
	h = httpx.Logging(logger)(h)
	h = httpx.Recover(logger)(h)
	return h
}

// newServer applies the shared timeouts. Addr falls back to fallback when empty.
func newServer(addr, fallback string, handler http.Handler) *http.Server {
	if addr == "" {
		addr = fallback
	}
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
}

// serve runs srv until it is shut down. ErrServerClosed is not an error.
func serve(srv *http.Server, name string, logger *slog.Logger) error {
	logger.Info("starting "+name+" server", "addr", srv.Addr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("%s server: %w", name, err)
	}
	return nil
}

// shutdownServer drains srv within shutdownTimeout.
func shutdownServer(ctx context.Context, srv *http.Server, name string, logger *slog.Logger) error {
	logger.Info("shutting down " + name + " server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown %s server: %w", name, err)
	}
	logger.Info(name + " server stopped")
	return nil
}

// readinessChecks pings whichever backing stores are in use.
func readinessChecks(infra Infrastructure) map[string]httpx.ReadinessCheck {
	checks := map[string]httpx.ReadinessCheck{}
	if infra.DB != nil {
		checks["postgres"] = infra.DB.PingContext
	}
	if infra.Redis != nil {
		client := infra.Redis
		checks["redis"] = func(ctx context.Context) error { return pingRedis(ctx, client) }
	}
	return checks
}

func pingRedis(ctx context.Context, client redis.UniversalClient) error {
	return client.Ping(ctx).Err()
}
