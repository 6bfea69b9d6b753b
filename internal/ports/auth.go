// Package ports defines interfaces (hexagonal ports) for auth and todo behavior.
// Implementations live in internal/adapters and internal/data; orchestration in internal/service.
package ports

import (
	"context"
	"errors"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
)

var (
	// ErrUserNotFound is returned by a CredentialStore when no user matches.
	ErrUserNotFound = errors.New("user not found")
	// ErrSessionNotFound is returned by a SessionStore for unknown or expired sessions.
	ErrSessionNotFound = errors.New("session not found")
)

// CredentialStore looks up users in the local credential table.
type CredentialStore interface {
	// FindByCredentials returns the user whose username and password both match exactly.
	FindByCredentials(ctx context.Context, username, password string) (domainauth.User, error)
	// FindByID returns the user with the given id.
	FindByID(ctx context.Context, id string) (domainauth.User, error)
}

// PasswordHasher produces and checks stored password hashes.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) bool
}

// SessionStore persists and retrieves browser sessions.
// Each call is atomic with respect to concurrent callers.
type SessionStore interface {
	Save(ctx context.Context, sess domainauth.Session) error
	Get(ctx context.Context, id string) (domainauth.Session, error)
	Delete(ctx context.Context, id string) error
}

// Orchestrator is the external OAuth orchestrator that delegates its login screen to us.
type Orchestrator interface {
	// AcceptSubject reports the authenticated subject for a pending login request.
	AcceptSubject(ctx context.Context, connectionID, loginRequestID string, subject domainauth.Subject) error
	// CallbackURL is where the browser returns to once the subject has been accepted.
	CallbackURL(connectionID, state string) string
}

// TokenVerifier validates bearer access tokens presented to the MCP endpoint.
type TokenVerifier interface {
	// Verify checks signature, issuer, audience and expiry.
	Verify(ctx context.Context, rawToken string) (domainauth.AccessToken, error)
}
