package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/target/todo-byoa/config"
)

// ServiceOrchestrationConfig contains everything needed to run the enabled servers.
type ServiceOrchestrationConfig struct {
	Config   *config.AppConfig
	Services ServiceContainer
	Infra    Infrastructure
	Logger   *slog.Logger
}

type namedServer struct {
	name string
	srv  *http.Server
}

// buildServers creates one http.Server per enabled service mode.
func buildServers(ctx context.Context, cfg *ServiceOrchestrationConfig) ([]namedServer, error) {
	appCfg := cfg.Config
	enabled, err := appCfg.GetEnabledServices()
	if err != nil {
		return nil, err
	}

	var servers []namedServer
	if enabled[config.ServiceModeAPI] {
		h, err := BuildAPIHandler(&HTTPServerConfig{
			Config:    appCfg,
			Services:  cfg.Services,
			Readiness: readinessChecks(cfg.Infra),
			Logger:    cfg.Logger,
		})
		if err != nil {
			return nil, err
		}
		servers = append(servers, namedServer{name: "api", srv: newServer(appCfg.HTTP.Addr, ":3001", h)})
	}
	if enabled[config.ServiceModeMCP] {
		h, err := BuildMCPHandler(ctx, &MCPServerConfig{Config: appCfg, Logger: cfg.Logger})
		if err != nil {
			return nil, err
		}
		servers = append(servers, namedServer{name: "mcp", srv: newServer(appCfg.MCP.Addr, ":8000", h)})
	}
	if len(servers) == 0 {
		return nil, errors.New("no services enabled")
	}
	return servers, nil
}

// RunServicesWithShutdown serves every enabled service until SIGINT/SIGTERM or
// until one of them fails, then shuts all of them down.
func RunServicesWithShutdown(ctx context.Context, cfg *ServiceOrchestrationConfig) error {
	if cfg == nil || cfg.Config == nil {
		return errors.New("service orchestration config is required")
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	servers, err := buildServers(sigCtx, cfg)
	if err != nil {
		return err
	}
	return runServers(sigCtx, servers, cfg.Logger)
}

func runServers(ctx context.Context, servers []namedServer, logger *slog.Logger) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, s := range servers {
		g.Go(func() error { return serve(s.srv, s.name, logger) })
	}
	g.Go(func() error {
		<-gctx.Done()
		var errs []error
		for _, s := range servers {
			if err := shutdownServer(gctx, s.srv, s.name, logger); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)
	})
	return g.Wait()
}
