package service

import (
	"context"
	"fmt"
	"log/slog"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	apperrors "github.com/target/todo-byoa/internal/errors"
)

// AuthObserver receives authentication outcomes, typically for metrics. All methods must be
// safe for concurrent use.
type AuthObserver interface {
	GatewayDecision(mode, result string)
	LoginAttempt(result string)
	DelegationOutcome(outcome string)
}

type nopObserver struct{}

func (nopObserver) GatewayDecision(string, string) {}
func (nopObserver) LoginAttempt(string)            {}
func (nopObserver) DelegationOutcome(string)       {}

// Gateway decision results.
const (
	ResultAccepted = "accepted"
	ResultRejected = "rejected"
	ResultError    = "error"
)

// sessionResolver is the slice of SessionAuthService the gateway needs.
type sessionResolver interface {
	Resolve(ctx context.Context, sessionID string) (string, bool, error)
}

// Credentials are everything a request may carry to prove who it is.
type Credentials struct {
	Bearer    BearerCredentials
	SessionID string
}

// AuthGatewayOptions groups dependencies for AuthGateway.
type AuthGatewayOptions struct {
	Bearer   *BearerAuthenticator
	Sessions sessionResolver
	Observe  GatewayObservability
}

// GatewayObservability holds optional logging and metrics hooks.
type GatewayObservability struct {
	Logger   *slog.Logger
	Observer AuthObserver
}

// AuthGateway picks the authenticator for a request and yields the resolved identity.
type AuthGateway struct {
	bearer   *BearerAuthenticator
	sessions sessionResolver
	logger   *slog.Logger
	observer AuthObserver
}

// NewAuthGateway constructs an AuthGateway.
func NewAuthGateway(opts AuthGatewayOptions) *AuthGateway {
	if opts.Bearer == nil || opts.Sessions == nil {
		panic("service: AuthGateway requires Bearer and Sessions")
	}
	logger := opts.Observe.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := opts.Observe.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &AuthGateway{
		bearer:   opts.Bearer,
		sessions: opts.Sessions,
		logger:   logger.With("component", "auth_gateway"),
		observer: observer,
	}
}

// Authenticate applies the precedence rule: a presented API key decides the request on its own;
// otherwise a live session; otherwise Unauthenticated. A wrong key never falls back to the session.
func (g *AuthGateway) Authenticate(ctx context.Context, c Credentials) (domainauth.Identity, error) {
	userID, handled, err := g.bearer.Resolve(c.Bearer)
	if handled {
		if err != nil {
			g.reject(ctx, domainauth.ModeAPIKey, err)
			return domainauth.Identity{}, err
		}
		g.observer.GatewayDecision(string(domainauth.ModeAPIKey), ResultAccepted)
		return domainauth.Identity{UserID: userID, Mode: domainauth.ModeAPIKey}, nil
	}

	userID, ok, err := g.sessions.Resolve(ctx, c.SessionID)
	if err != nil {
		g.observer.GatewayDecision(string(domainauth.ModeSession), ResultError)
		g.logger.ErrorContext(ctx, "session lookup failed", "error", err)
		return domainauth.Identity{}, fmt.Errorf("resolve session: %w", err)
	}
	if ok {
		g.observer.GatewayDecision(string(domainauth.ModeSession), ResultAccepted)
		return domainauth.Identity{UserID: userID, Mode: domainauth.ModeSession}, nil
	}

	unauth := apperrors.Unauthenticated()
	g.reject(ctx, domainauth.ModeSession, unauth)
	return domainauth.Identity{}, unauth
}

func (g *AuthGateway) reject(ctx context.Context, mode domainauth.Mode, err error) {
	g.observer.GatewayDecision(string(mode), ResultRejected)
	g.logger.InfoContext(ctx, "request rejected", "mode", mode, "reason", apperrors.GetCode(err))
}
