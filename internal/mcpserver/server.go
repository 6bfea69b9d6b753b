// Package mcpserver exposes the todo API as MCP tools over streamable HTTP.
// Callers present an orchestrator-issued bearer token; its subject becomes the
// x-user-id the todo API is called with.
package mcpserver

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/auth"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/modelcontextprotocol/go-sdk/oauthex"

	"github.com/target/todo-byoa/config"
	"github.com/target/todo-byoa/internal/ports"
)

const (
	serverName    = "TodoMCPServer"
	serverVersion = "1.0.0"

	// EndpointPath is where the streamable HTTP transport is mounted.
	EndpointPath = "/mcp"

	instructions = "This MCP server provides tools to manage todos in a B2B todo application. " +
		"Available tools: list_todos, create_todo, update_todo, delete_todo."
)

// Options groups dependencies for Handler.
type Options struct {
	API      TodoAPI
	Verifier ports.TokenVerifier
	Config   config.MCPConfig
	Logger   *slog.Logger
}

// NewServer returns an MCP server with the todo tools registered.
func NewServer(api TodoAPI, logger *slog.Logger) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, &mcp.ServerOptions{
		Instructions: instructions,
		Logger:       logger,
	})
	registerTools(server, api)
	return server
}

// Handler mounts the bearer-protected MCP endpoint and, when a resource URL
// is configured, the protected resource metadata document.
func Handler(opts Options) http.Handler {
	if opts.API == nil || opts.Verifier == nil {
		panic("mcpserver: Handler requires API and Verifier")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "mcp")

	server := NewServer(opts.API, logger)
	streamable := mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server { return server }, &mcp.StreamableHTTPOptions{
		Stateless: true,
		Logger:    logger,
	})
	requireToken := auth.RequireBearerToken(verifyToken(opts.Verifier, logger), &auth.RequireBearerTokenOptions{
		ResourceMetadataURL: opts.Config.ResourceMetadataURL,
	})

	mux := http.NewServeMux()
	mux.Handle(EndpointPath, requireToken(streamable))
	if opts.Config.ResourceURL != "" {
		meta := auth.ProtectedResourceMetadataHandler(&oauthex.ProtectedResourceMetadata{
			Resource:               opts.Config.ResourceURL,
			AuthorizationServers:   authorizationServers(opts.Config.AuthorizationServer),
			BearerMethodsSupported: []string{"header"},
		})
		mux.Handle(config.ResourceMetadataPath, meta)
		mux.Handle(config.ResourceMetadataPath+EndpointPath, meta)
	}
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return mux
}

// verifyToken adapts a ports.TokenVerifier to the SDK middleware. Failures
// surface as a bare invalid-token 401; the cause is only logged.
func verifyToken(v ports.TokenVerifier, logger *slog.Logger) auth.TokenVerifier {
	return func(ctx context.Context, token string, _ *http.Request) (*auth.TokenInfo, error) {
		at, err := v.Verify(ctx, token)
		if err != nil {
			logger.DebugContext(ctx, "bearer token rejected", "error", err)
			return nil, auth.ErrInvalidToken
		}
		if at.Subject.Sub == "" {
			return nil, auth.ErrInvalidToken
		}
		return &auth.TokenInfo{
			UserID:     at.Subject.Sub,
			Expiration: at.ExpiresAt,
			Extra:      map[string]any{"email": at.Subject.Email},
		}, nil
	}
}

func authorizationServers(issuer string) []string {
	if issuer == "" {
		return nil
	}
	return []string{issuer}
}
