package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - auth.go: Session and API key authentication
//   - orchestrator.go: BYOA orchestrator (Scalekit) connection
//   - database.go: Storage backends (Postgres, Redis)
//   - http.go: HTTP server configuration
//   - mcp.go: MCP tool server configuration
//   - services.go: Service mode selection
//   - observability.go: Metrics
type AppConfig struct {
	// IsDev controls development mode behavior (demo seeding, relaxed warnings).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Authentication configuration
	Auth AuthConfig

	// Orchestrator configuration
	Orchestrator OrchestratorConfig `envPrefix:"SCALEKIT_"`

	// Storage configuration
	Storage  StorageConfig
	Postgres DBConfig    `envPrefix:"DB_"`
	Redis    RedisConfig `envPrefix:"REDIS_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// MCP tool server configuration
	MCP MCPConfig

	// Service mode configuration
	Services string `env:"SERVICES" envDefault:"api"`

	// Observability configuration
	Observability ObservabilityConfig
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.HTTP.Sanitize()
	c.Auth.Sanitize()
	c.Orchestrator.Sanitize()
	c.MCP.Sanitize(c.Orchestrator.EnvironmentURL)
	c.Observability.Sanitize()

	c.detectDevMode()
}

// Validate reports configuration combinations that cannot work at all.
// Missing orchestrator settings are not an error here: BYOA fails at request time instead.
func (c *AppConfig) Validate() error {
	services, err := c.GetEnabledServices()
	if err != nil {
		return fmt.Errorf("invalid service configuration: %w", err)
	}

	var errs []error
	if err := c.Storage.Validate(); err != nil {
		errs = append(errs, err)
	}
	if services[ServiceModeAPI] && c.Auth.APIKey == "" {
		errs = append(errs, errors.New("TODO_APP_API_KEY cannot be empty"))
	}
	if services[ServiceModeAPI] && c.Auth.SessionSecret == "" {
		errs = append(errs, errors.New("SESSION_SECRET cannot be empty"))
	}
	if services[ServiceModeMCP] && c.MCP.IssuerURL == "" {
		errs = append(errs, errors.New("MCP_ISSUER_URL or SCALEKIT_ENVIRONMENT_URL is required for the mcp service"))
	}
	if err := c.HTTP.ValidateCookieDomain(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}

// GetEnabledServices returns the enabled services based on the Services field.
func (c *AppConfig) GetEnabledServices() (map[ServiceMode]bool, error) {
	return ParseServices(c.Services)
}

// IsAPIServerEnabled returns true if the todo API server is enabled.
func (c *AppConfig) IsAPIServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeAPI]
}

// IsMCPServerEnabled returns true if the MCP tool server is enabled.
func (c *AppConfig) IsMCPServerEnabled() bool {
	services, err := c.GetEnabledServices()
	if err != nil {
		return false
	}
	return services[ServiceModeMCP]
}
