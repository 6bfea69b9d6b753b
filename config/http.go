package config

import (
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"
)

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":3001"`

	// Port, when set, overrides the port of Addr (kept for TODO_APP_PORT compatibility).
	Port string `env:"TODO_APP_PORT"`

	// CookieDomain is the domain for session cookies.
	// Leave empty to use the request domain.
	CookieDomain string `env:"APP_COOKIE_DOMAIN" envDefault:""`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if p := strings.TrimSpace(h.Port); p != "" {
		h.Addr = ":" + strings.TrimPrefix(p, ":")
	}
	if h.Addr == "" {
		h.Addr = ":3001"
	}
	h.CookieDomain = strings.TrimPrefix(strings.ToLower(strings.TrimSpace(h.CookieDomain)), ".")
}

// ValidateCookieDomain rejects cookie domains that browsers would treat as a public suffix
// (for example "co.uk"), since a cookie scoped there would be dropped or shared across sites.
func (h *HTTPConfig) ValidateCookieDomain() error {
	if h.CookieDomain == "" || h.CookieDomain == "localhost" {
		return nil
	}
	suffix, icann := publicsuffix.PublicSuffix(h.CookieDomain)
	if icann && suffix == h.CookieDomain {
		return fmt.Errorf("APP_COOKIE_DOMAIN %q is a public suffix", h.CookieDomain)
	}
	return nil
}
