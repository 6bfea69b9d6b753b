// Package oidc verifies bearer tokens issued by an OpenID Connect provider.
package oidc

import (
	"context"
	"crypto"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	gooidc "github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	"github.com/target/todo-byoa/internal/ports"
)

// ErrMissingSubject is returned for a valid token without a sub claim.
var ErrMissingSubject = errors.New("token has no subject")

// VerifierConfig holds settings for TokenVerifier.
type VerifierConfig struct {
	// IssuerURL is the issuer or its discovery document URL.
	IssuerURL string
	// Audience is the expected aud claim. Empty skips the audience check.
	Audience   string
	HTTPClient *http.Client
}

// TokenVerifier checks JWT access tokens against the issuer's published keys.
type TokenVerifier struct {
	verifier *gooidc.IDTokenVerifier
}

var _ ports.TokenVerifier = (*TokenVerifier)(nil)

// NewTokenVerifier runs discovery against the issuer and keeps its remote key set.
func NewTokenVerifier(ctx context.Context, cfg VerifierConfig) (*TokenVerifier, error) {
	if cfg.IssuerURL == "" {
		return nil, errors.New("issuer URL is required")
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 30 * time.Second}
	}

	// The key set refreshes in the background with this context, so it must outlive ctx cancellation.
	discoveryCtx := context.WithValue(context.WithoutCancel(ctx), oauth2.HTTPClient, httpClient)
	op, err := gooidc.NewProvider(discoveryCtx, issuerFromDiscoveryURL(cfg.IssuerURL))
	if err != nil {
		return nil, fmt.Errorf("oidc new provider: %w", err)
	}
	return &TokenVerifier{verifier: op.Verifier(verifierConfig(cfg.Audience))}, nil
}

// NewStaticTokenVerifier verifies tokens against fixed public keys without discovery.
func NewStaticTokenVerifier(issuer, audience string, keys ...crypto.PublicKey) *TokenVerifier {
	ks := &gooidc.StaticKeySet{PublicKeys: keys}
	return &TokenVerifier{verifier: gooidc.NewVerifier(issuer, ks, verifierConfig(audience))}
}

func verifierConfig(audience string) *gooidc.Config {
	return &gooidc.Config{ClientID: audience, SkipClientIDCheck: audience == ""}
}

type tokenClaims struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
	Mail  string `json:"mail"`
}

// Verify returns the subject and expiry of a valid token.
func (v *TokenVerifier) Verify(ctx context.Context, rawToken string) (domainauth.AccessToken, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return domainauth.AccessToken{}, errors.New("token is required")
	}
	tok, err := v.verifier.Verify(ctx, rawToken)
	if err != nil {
		return domainauth.AccessToken{}, fmt.Errorf("verify token: %w", err)
	}
	var c tokenClaims
	if claimsErr := tok.Claims(&c); claimsErr != nil {
		return domainauth.AccessToken{}, fmt.Errorf("parse token claims: %w", claimsErr)
	}
	sub := firstNonEmpty(c.Sub, tok.Subject)
	if sub == "" {
		return domainauth.AccessToken{}, ErrMissingSubject
	}
	return domainauth.AccessToken{
		Subject:   domainauth.Subject{Sub: sub, Email: firstNonEmpty(c.Email, c.Mail)},
		ExpiresAt: tok.Expiry,
	}, nil
}

func issuerFromDiscoveryURL(u string) string {
	issuer := strings.TrimSuffix(strings.TrimSpace(u), "/")
	issuer = strings.TrimSuffix(issuer, "/.well-known/openid-configuration")
	return issuer
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
