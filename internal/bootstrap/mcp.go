package bootstrap

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/target/todo-byoa/config"
	"github.com/target/todo-byoa/internal/adapters/oidc"
	"github.com/target/todo-byoa/internal/mcpserver"
	"github.com/target/todo-byoa/internal/ports"
)

// MCPServerConfig contains configuration for the MCP tool server.
type MCPServerConfig struct {
	Config *config.AppConfig
	// Verifier overrides the OIDC verifier built from Config.MCP.
	Verifier ports.TokenVerifier
	Logger   *slog.Logger
}

// BuildMCPHandler wires the MCP tools to the todo API and guards them with bearer token checks.
// Without an injected verifier, OIDC discovery runs against the configured issuer.
func BuildMCPHandler(ctx context.Context, cfg *MCPServerConfig) (http.Handler, error) {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	appCfg := cfg.Config

	verifier := cfg.Verifier
	if verifier == nil {
		v, err := oidc.NewTokenVerifier(ctx, oidc.VerifierConfig{
			IssuerURL: appCfg.MCP.IssuerURL,
			Audience:  appCfg.MCP.Audience,
		})
		if err != nil {
			return nil, fmt.Errorf("mcp token verifier: %w", err)
		}
		verifier = v
	}

	handler := mcpserver.Handler(mcpserver.Options{
		API:      mcpserver.NewTodoAPIClient(appCfg.MCP.TodoAPIBaseURL, appCfg.Auth.APIKey, nil),
		Verifier: verifier,
		Config:   appCfg.MCP,
		Logger:   logger,
	})
	return wrapHandler(handler, logger), nil
}
