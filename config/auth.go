package config

import (
	"strings"
	"time"
)

// Demo defaults. They match the seeded demo deployment and must be overridden in production.
const (
	DefaultAPIKey        = "demo-api-key-12345"
	DefaultSessionSecret = "keyboard-cat-secret"
)

// AuthConfig groups session and API key authentication settings.
type AuthConfig struct {
	// APIKey is the static key service callers present in the x-api-key header.
	APIKey string `env:"TODO_APP_API_KEY" envDefault:"demo-api-key-12345"`

	// DefaultUserID is the identity used when an API key caller omits x-user-id.
	DefaultUserID string `env:"TODO_APP_DEFAULT_USER_ID" envDefault:"1"`

	// SessionSecret signs the session cookie value.
	SessionSecret string `env:"SESSION_SECRET" envDefault:"keyboard-cat-secret"`

	// SessionTTL is the fixed lifetime of a browser session.
	SessionTTL time.Duration `env:"SESSION_TTL" envDefault:"24h"`
}

// Sanitize applies guardrails to auth configuration values.
func (a *AuthConfig) Sanitize() {
	a.APIKey = strings.TrimSpace(a.APIKey)
	a.DefaultUserID = strings.TrimSpace(a.DefaultUserID)
	if a.DefaultUserID == "" {
		a.DefaultUserID = "1"
	}
	if a.SessionTTL <= 0 {
		a.SessionTTL = 24 * time.Hour
	}
}

// UsesDemoSecrets reports whether the API key or session secret is still a demo default.
func (a AuthConfig) UsesDemoSecrets() bool {
	return a.APIKey == DefaultAPIKey || a.SessionSecret == DefaultSessionSecret
}
