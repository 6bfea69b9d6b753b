package config

import (
	"net/url"
	"strings"
)

// MCPConfig configures the MCP tool server that fronts the todo API for AI clients.
type MCPConfig struct {
	// Addr is the address the MCP streamable HTTP endpoint listens on.
	Addr string `env:"MCP_ADDR" envDefault:":8000"`

	// TodoAPIBaseURL is where the MCP server reaches the todo API.
	TodoAPIBaseURL string `env:"TODO_APP_BASE_URL" envDefault:"http://localhost:3001"`

	// IssuerURL is the issuer of the bearer tokens MCP clients present.
	// Defaults to the orchestrator environment URL.
	IssuerURL string `env:"MCP_ISSUER_URL"`

	// Audience is the expected "aud" claim. Empty skips the audience check.
	Audience string `env:"MCP_AUDIENCE"`

	// ResourceURL is the public URL of the MCP endpoint. When set, protected
	// resource metadata is served under /.well-known/oauth-protected-resource.
	ResourceURL string `env:"MCP_RESOURCE_URL"`

	// AuthorizationServer is listed in the resource metadata. Defaults to IssuerURL.
	AuthorizationServer string `env:"MCP_AUTHORIZATION_SERVER"`

	// ResourceMetadataURL is advertised in WWW-Authenticate on 401 responses.
	// Defaults to the locally served metadata document when ResourceURL is set.
	ResourceMetadataURL string `env:"MCP_RESOURCE_METADATA_URL"`
}

// ResourceMetadataPath is where the MCP server publishes its protected resource metadata.
const ResourceMetadataPath = "/.well-known/oauth-protected-resource"

// Sanitize fills the issuer from the orchestrator URL when unset.
func (m *MCPConfig) Sanitize(orchestratorURL string) {
	m.TodoAPIBaseURL = strings.TrimRight(strings.TrimSpace(m.TodoAPIBaseURL), "/")
	m.IssuerURL = strings.TrimSpace(m.IssuerURL)
	if m.IssuerURL == "" {
		m.IssuerURL = orchestratorURL
	}
	if m.Addr == "" {
		m.Addr = ":8000"
	}
	m.ResourceURL = strings.TrimSpace(m.ResourceURL)
	m.AuthorizationServer = strings.TrimSpace(m.AuthorizationServer)
	if m.AuthorizationServer == "" {
		m.AuthorizationServer = m.IssuerURL
	}
	m.ResourceMetadataURL = strings.TrimSpace(m.ResourceMetadataURL)
	if m.ResourceMetadataURL == "" && m.ResourceURL != "" {
		if u, err := url.Parse(m.ResourceURL); err == nil && u.Host != "" {
			m.ResourceMetadataURL = u.Scheme + "://" + u.Host + ResourceMetadataPath + u.Path
		}
	}
}
