package config

import (
	"strings"
	"time"
)

// OrchestratorConfig describes the single orchestrator connection this deployment serves.
// Loaded with the SCALEKIT_ prefix.
type OrchestratorConfig struct {
	EnvironmentURL string        `env:"ENVIRONMENT_URL"`
	ClientID       string        `env:"CLIENT_ID"`
	ClientSecret   string        `env:"CLIENT_SECRET"`
	ConnectionID   string        `env:"CONNECTION_ID"`
	HTTPTimeout    time.Duration `env:"HTTP_TIMEOUT"    envDefault:"30s"`
}

// Sanitize trims values and drops a trailing slash from the base URL.
func (o *OrchestratorConfig) Sanitize() {
	o.EnvironmentURL = strings.TrimRight(strings.TrimSpace(o.EnvironmentURL), "/")
	o.ClientID = strings.TrimSpace(o.ClientID)
	o.ConnectionID = strings.TrimSpace(o.ConnectionID)
	if o.HTTPTimeout <= 0 {
		o.HTTPTimeout = 30 * time.Second
	}
}

// Configured reports whether every value needed to talk to the orchestrator is present.
func (o OrchestratorConfig) Configured() bool {
	return o.EnvironmentURL != "" && o.ClientID != "" && o.ClientSecret != "" && o.ConnectionID != ""
}

// Missing lists the names of unset orchestrator settings.
func (o OrchestratorConfig) Missing() []string {
	var out []string
	if o.EnvironmentURL == "" {
		out = append(out, "SCALEKIT_ENVIRONMENT_URL")
	}
	if o.ClientID == "" {
		out = append(out, "SCALEKIT_CLIENT_ID")
	}
	if o.ClientSecret == "" {
		out = append(out, "SCALEKIT_CLIENT_SECRET")
	}
	if o.ConnectionID == "" {
		out = append(out, "SCALEKIT_CONNECTION_ID")
	}
	return out
}
