package bootstrap

import (
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/target/todo-byoa/config"
	"github.com/target/todo-byoa/internal/adapters/scalekit"
	"github.com/target/todo-byoa/internal/observability/metrics"
	"github.com/target/todo-byoa/internal/ports"
	"github.com/target/todo-byoa/internal/service"
)

// ServiceContainer holds all application services.
type ServiceContainer struct {
	Sessions      *service.SessionAuthService
	Gateway       *service.AuthGateway
	Delegation    *service.DelegationFlow
	Todos         *service.TodoService
	Observability ObservabilityContainer
}

// ObservabilityContainer groups shared observability dependencies.
type ObservabilityContainer struct {
	Registry      *prometheus.Registry
	Metrics       *metrics.Collector
	MetricsConfig config.ObservabilityMetricsConfig
}

// ServiceDeps groups dependencies for service initialization.
type ServiceDeps struct {
	Config *config.AppConfig
	Stores Stores
	// Orchestrator overrides the Scalekit client built from Config.
	Orchestrator ports.Orchestrator
	Logger       *slog.Logger
}

// buildObservability creates a private registry so tests can build services repeatedly.
func buildObservability(cfg config.ObservabilityConfig) ObservabilityContainer {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return ObservabilityContainer{
		Registry:      reg,
		Metrics:       metrics.NewCollector(reg),
		MetricsConfig: cfg.Metrics,
	}
}

func newOrchestrator(cfg config.OrchestratorConfig, logger *slog.Logger) ports.Orchestrator {
	orch := scalekit.NewOrchestrator(scalekit.ClientOptions{Config: cfg, Logger: logger})
	if u, ok := orch.(scalekit.Unconfigured); ok {
		logger.Warn("scalekit not configured; delegated logins will fail", "missing", u.Missing)
	}
	return orch
}

// NewServices wires the auth, delegation and todo services over the given stores.
func NewServices(deps *ServiceDeps) ServiceContainer {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	cfg := deps.Config
	obs := buildObservability(cfg.Observability)

	sessions := service.NewSessionAuthService(service.SessionAuthServiceOptions{
		Users:    deps.Stores.Users,
		Sessions: deps.Stores.Sessions,
		Config:   service.SessionConfig{TTL: cfg.Auth.SessionTTL, Observer: obs.Metrics},
	})

	gateway := service.NewAuthGateway(service.AuthGatewayOptions{
		Bearer:   service.NewBearerAuthenticator(cfg.Auth.APIKey, cfg.Auth.DefaultUserID),
		Sessions: sessions,
		Observe:  service.GatewayObservability{Logger: logger, Observer: obs.Metrics},
	})

	orch := deps.Orchestrator
	if orch == nil {
		orch = newOrchestrator(cfg.Orchestrator, logger)
	}
	delegation := service.NewDelegationFlow(service.DelegationFlowOptions{
		Verifier:     sessions,
		Orchestrator: orch,
		Config: service.DelegationConfig{
			ConnectionID: cfg.Orchestrator.ConnectionID,
			Logger:       logger,
			Observer:     obs.Metrics,
		},
	})

	todos := service.NewTodoService(service.TodoServiceOptions{
		Repo:   deps.Stores.Todos,
		Logger: logger,
	})

	return ServiceContainer{
		Sessions:      sessions,
		Gateway:       gateway,
		Delegation:    delegation,
		Todos:         todos,
		Observability: obs,
	}
}
