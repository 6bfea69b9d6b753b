// Package scalekit talks to the Scalekit environment that delegates its login screen to this app.
// Calls authenticate with OAuth2 client credentials against {environment}/oauth/token.
package scalekit

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/target/todo-byoa/config"
	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	"github.com/target/todo-byoa/internal/ports"
)

const maxErrorBody = 2048

// ClientOptions configures a Client.
type ClientOptions struct {
	Config config.OrchestratorConfig
	// HTTPClient is the transport used for both token and API calls. Defaults to one with Config.HTTPTimeout.
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client implements ports.Orchestrator over the Scalekit REST API.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *slog.Logger
}

var _ ports.Orchestrator = (*Client)(nil)

// NewClient builds a Client. It fails when any connection setting is missing.
func NewClient(opts ClientOptions) (*Client, error) {
	cfg := opts.Config
	if missing := cfg.Missing(); len(missing) > 0 {
		return nil, fmt.Errorf("scalekit not configured: missing %s", strings.Join(missing, ", "))
	}

	base := opts.HTTPClient
	if base == nil {
		base = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	cc := &clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.EnvironmentURL + "/oauth/token",
		AuthStyle:    oauth2.AuthStyleInParams,
	}
	// The oauth2 client caches the token and refreshes it on expiry.
	tokenCtx := context.WithValue(context.Background(), oauth2.HTTPClient, base)
	httpClient := cc.Client(tokenCtx)
	httpClient.Timeout = base.Timeout

	return &Client{
		baseURL: cfg.EnvironmentURL,
		http:    httpClient,
		logger:  logger.With("component", "scalekit"),
	}, nil
}

// AcceptSubject tells Scalekit which user authenticated for the pending login request.
func (c *Client) AcceptSubject(
	ctx context.Context,
	connectionID, loginRequestID string,
	subject domainauth.Subject,
) error {
	endpoint := fmt.Sprintf("%s/api/v1/connections/%s/auth-requests/%s/user",
		c.baseURL, url.PathEscape(connectionID), url.PathEscape(loginRequestID))

	body, err := json.Marshal(subject)
	if err != nil {
		return fmt.Errorf("marshal subject: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("update login user details: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.WarnContext(ctx, "scalekit rejected login user details",
			"status", resp.StatusCode,
			"connection_id", connectionID,
		)
		return &APIError{StatusCode: resp.StatusCode, Body: strings.TrimSpace(string(snippet))}
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

// CallbackURL is the partner callback the browser is sent to after AcceptSubject succeeds.
func (c *Client) CallbackURL(connectionID, state string) string {
	return CallbackURL(c.baseURL, connectionID, state)
}

// CallbackURL builds {base}/sso/v1/connections/{id}/partner:callback?state={state}.
func CallbackURL(baseURL, connectionID, state string) string {
	return fmt.Sprintf("%s/sso/v1/connections/%s/partner:callback?state=%s",
		strings.TrimRight(baseURL, "/"), url.PathEscape(connectionID), url.QueryEscape(state))
}

// APIError is a non-2xx answer from Scalekit.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("scalekit returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("scalekit returned status %d: %s", e.StatusCode, e.Body)
}

// Unconfigured stands in for Client when settings are missing so the app can still start.
// Every delegation attempt fails with the list of missing settings.
type Unconfigured struct {
	BaseURL string
	Missing []string
}

var _ ports.Orchestrator = Unconfigured{}

func (u Unconfigured) AcceptSubject(context.Context, string, string, domainauth.Subject) error {
	return fmt.Errorf("scalekit not configured: missing %s", strings.Join(u.Missing, ", "))
}

func (u Unconfigured) CallbackURL(connectionID, state string) string {
	return CallbackURL(u.BaseURL, connectionID, state)
}

// NewOrchestrator returns a Client when fully configured, otherwise an Unconfigured stand-in.
func NewOrchestrator(opts ClientOptions) ports.Orchestrator {
	c, err := NewClient(opts)
	if err != nil {
		return Unconfigured{BaseURL: opts.Config.EnvironmentURL, Missing: opts.Config.Missing()}
	}
	return c
}
