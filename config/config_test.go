package config

import (
	"reflect"
	"strings"
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
)

func TestParseServices(t *testing.T) {
	tests := []struct {
		name        string
		input       string
		expected    map[ServiceMode]bool
		expectError bool
	}{
		{
			name:     "single service - api",
			input:    "api",
			expected: map[ServiceMode]bool{ServiceModeAPI: true},
		},
		{
			name:     "single service - mcp",
			input:    "mcp",
			expected: map[ServiceMode]bool{ServiceModeMCP: true},
		},
		{
			name:     "both services with spaces",
			input:    " api , mcp ",
			expected: map[ServiceMode]bool{ServiceModeAPI: true, ServiceModeMCP: true},
		},
		{
			name:     "duplicate services",
			input:    "api,api",
			expected: map[ServiceMode]bool{ServiceModeAPI: true},
		},
		{
			name:     "all expands to every mode",
			input:    "ALL",
			expected: map[ServiceMode]bool{ServiceModeAPI: true, ServiceModeMCP: true},
		},
		{
			name:     "mixed case",
			input:    "Api",
			expected: map[ServiceMode]bool{ServiceModeAPI: true},
		},
		{name: "empty string", input: "", expectError: true},
		{name: "only commas", input: ",,", expectError: true},
		{name: "invalid service", input: "api,scheduler", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ParseServices(tt.input)
			if tt.expectError {
				if err == nil {
					t.Fatalf("expected error, got %v", result)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(result, tt.expected) {
				t.Errorf("ParseServices(%q) = %v, want %v", tt.input, result, tt.expected)
			}
		})
	}
}

func TestAppConfig_Defaults(t *testing.T) {
	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	if cfg.HTTP.Addr != ":3001" {
		t.Errorf("HTTP.Addr = %q, want :3001", cfg.HTTP.Addr)
	}
	if cfg.Auth.APIKey != DefaultAPIKey {
		t.Errorf("Auth.APIKey = %q", cfg.Auth.APIKey)
	}
	if cfg.Auth.SessionSecret != DefaultSessionSecret {
		t.Errorf("Auth.SessionSecret = %q", cfg.Auth.SessionSecret)
	}
	if cfg.Auth.DefaultUserID != "1" {
		t.Errorf("Auth.DefaultUserID = %q, want 1", cfg.Auth.DefaultUserID)
	}
	if cfg.Auth.SessionTTL != 24*time.Hour {
		t.Errorf("Auth.SessionTTL = %v, want 24h", cfg.Auth.SessionTTL)
	}
	if cfg.Storage.Data != BackendMemory || cfg.Storage.Sessions != BackendMemory {
		t.Errorf("Storage = %+v, want memory/memory", cfg.Storage)
	}
	if cfg.MCP.TodoAPIBaseURL != "http://localhost:3001" {
		t.Errorf("MCP.TodoAPIBaseURL = %q", cfg.MCP.TodoAPIBaseURL)
	}
	if !cfg.Auth.UsesDemoSecrets() {
		t.Errorf("expected demo secrets to be detected")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}
}

func TestAppConfig_ParseOrchestratorEnv(t *testing.T) {
	t.Setenv("SCALEKIT_ENVIRONMENT_URL", "https://acme.scalekit.dev/")
	t.Setenv("SCALEKIT_CLIENT_ID", "skc_123")
	t.Setenv("SCALEKIT_CLIENT_SECRET", "shh")
	t.Setenv("SCALEKIT_CONNECTION_ID", "conn_42")
	t.Setenv("SCALEKIT_HTTP_TIMEOUT", "5s")
	t.Setenv("TODO_APP_PORT", "4000")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	expected := OrchestratorConfig{
		EnvironmentURL: "https://acme.scalekit.dev",
		ClientID:       "skc_123",
		ClientSecret:   "shh",
		ConnectionID:   "conn_42",
		HTTPTimeout:    5 * time.Second,
	}
	if !reflect.DeepEqual(cfg.Orchestrator, expected) {
		t.Fatalf("unexpected orchestrator configuration:\nexpected: %#v\ngot:      %#v", expected, cfg.Orchestrator)
	}
	if !cfg.Orchestrator.Configured() {
		t.Errorf("expected orchestrator to be configured")
	}
	if cfg.MCP.IssuerURL != "https://acme.scalekit.dev" {
		t.Errorf("MCP.IssuerURL = %q, want orchestrator URL", cfg.MCP.IssuerURL)
	}
	if cfg.HTTP.Addr != ":4000" {
		t.Errorf("HTTP.Addr = %q, want :4000", cfg.HTTP.Addr)
	}
}

func TestOrchestratorConfig_Missing(t *testing.T) {
	o := OrchestratorConfig{EnvironmentURL: "https://x"}
	got := o.Missing()
	want := []string{"SCALEKIT_CLIENT_ID", "SCALEKIT_CLIENT_SECRET", "SCALEKIT_CONNECTION_ID"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Missing() = %v, want %v", got, want)
	}
}

func TestBackend_UnmarshalText(t *testing.T) {
	var b Backend
	if err := b.UnmarshalText([]byte(" Postgres ")); err != nil || b != BackendPostgres {
		t.Fatalf("UnmarshalText = %v, %q", err, b)
	}
	if err := b.UnmarshalText([]byte("sqlite")); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestAppConfig_ValidateRejectsMismatchedBackends(t *testing.T) {
	t.Setenv("SESSION_STORE", "postgres")

	var cfg AppConfig
	if err := env.Parse(&cfg); err != nil {
		t.Fatalf("parse config: %v", err)
	}
	cfg.Sanitize()

	err := cfg.Validate()
	if err == nil || !strings.Contains(err.Error(), "SESSION_STORE") {
		t.Fatalf("Validate() = %v, want SESSION_STORE error", err)
	}
}

func TestAppConfig_ValidateMCPNeedsIssuer(t *testing.T) {
	cfg := AppConfig{
		Services: "mcp",
		Storage:  StorageConfig{Data: BackendMemory, Sessions: BackendMemory},
	}
	cfg.Sanitize()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error when mcp has no issuer")
	}
}

func TestHTTPConfig_ValidateCookieDomain(t *testing.T) {
	tests := []struct {
		domain  string
		wantErr bool
	}{
		{"", false},
		{"localhost", false},
		{"todo.example.com", false},
		{".example.com", false},
		{"co.uk", true},
		{"com", true},
	}
	for _, tt := range tests {
		h := HTTPConfig{CookieDomain: tt.domain}
		h.Sanitize()
		err := h.ValidateCookieDomain()
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateCookieDomain(%q) = %v, wantErr %v", tt.domain, err, tt.wantErr)
		}
	}
}

func TestValidServiceModes(t *testing.T) {
	for _, mode := range ValidServiceModes() {
		if _, err := ParseServices(string(mode)); err != nil {
			t.Errorf("mode %q should parse: %v", mode, err)
		}
	}
}

func TestMCPConfig_SanitizeDerivesResourceMetadata(t *testing.T) {
	m := MCPConfig{ResourceURL: "https://mcp.example.com/mcp", IssuerURL: "https://acme.scalekit.dev"}
	m.Sanitize("")
	if m.ResourceMetadataURL != "https://mcp.example.com/.well-known/oauth-protected-resource/mcp" {
		t.Errorf("ResourceMetadataURL = %q", m.ResourceMetadataURL)
	}
	if m.AuthorizationServer != "https://acme.scalekit.dev" {
		t.Errorf("AuthorizationServer = %q, want issuer", m.AuthorizationServer)
	}

	explicit := MCPConfig{ResourceURL: "https://mcp.example.com/mcp", ResourceMetadataURL: "https://auth.example.com/meta"}
	explicit.Sanitize("https://acme.scalekit.dev")
	if explicit.ResourceMetadataURL != "https://auth.example.com/meta" {
		t.Errorf("explicit ResourceMetadataURL overwritten: %q", explicit.ResourceMetadataURL)
	}
}
