package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/target/todo-byoa/config"
	"github.com/target/todo-byoa/internal/bootstrap"
)

func main() {
	ctx := context.Background()
	logger := bootstrap.InitLogger()
	if err := run(ctx, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func run(ctx context.Context, logger *slog.Logger) error {
	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		return err
	}
	cfgPtr := &cfg

	if err = bootstrap.SetLogLevel(cfg.Observability.LogLevel); err != nil {
		return err
	}

	logStartupInfo(ctx, logger, cfgPtr)

	if err = bootstrap.ValidateServiceConfig(cfgPtr); err != nil {
		return err
	}

	infra, err := bootstrap.InitInfrastructure(ctx, cfgPtr, logger)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := infra.Close(); cerr != nil {
			logger.ErrorContext(ctx, "close infrastructure failed", "error", cerr)
		}
	}()

	stores, err := bootstrap.BuildStores(ctx, bootstrap.StoreDeps{
		Storage: cfg.Storage,
		Redis:   cfg.Redis,
		DB:      infra.DB,
		Client:  infra.Redis,
		Logger:  logger,
	})
	if err != nil {
		return err
	}

	services := bootstrap.NewServices(&bootstrap.ServiceDeps{
		Config: cfgPtr,
		Stores: stores,
		Logger: logger,
	})

	return bootstrap.RunServicesWithShutdown(ctx, &bootstrap.ServiceOrchestrationConfig{
		Config:   cfgPtr,
		Services: services,
		Infra:    infra,
		Logger:   logger,
	})
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting todo-byoa",
		"enabled_services", bootstrap.GetEnabledServices(cfg),
		"storage", cfg.Storage.Data,
		"session_store", cfg.Storage.Sessions,
		"dev_mode", cfg.IsDev,
		"orchestrator_configured", cfg.Orchestrator.Configured())
}
