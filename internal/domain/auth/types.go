// Package auth contains domain-level types for users, sessions, and resolved identities.
// It is pure and free of framework/adapter concerns.
package auth

import "time"

// Mode records which channel authenticated a request.
type Mode string

const (
	ModeSession Mode = "session"
	ModeAPIKey  Mode = "api_key"
)

// User is a row of the local credential table.
// ID and Username are unique and never change after seeding.
type User struct {
	ID           string `json:"id"       db:"id"`
	Username     string `json:"username" db:"username"`
	PasswordHash string `json:"-"        db:"password_hash"`
	Email        string `json:"email"    db:"email"`
	DisplayName  string `json:"name"     db:"display_name"`
}

// Session is the server-side record we persist for a logged-in browser.
// ID is an opaque random identifier carried in the session cookie.
type Session struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is past its expiry at the given instant.
func (s Session) Expired(now time.Time) bool { return !now.Before(s.ExpiresAt) }

// Identity is the authenticated principal attached to a request.
// It lives only in the request context.
type Identity struct {
	UserID string
	Mode   Mode
}

// LoginRequest carries the orchestrator's opaque handshake values.
// Both values are passed through unchanged and never stored.
type LoginRequest struct {
	LoginRequestID string
	State          string
}

// Complete reports whether both handshake values are present.
func (lr LoginRequest) Complete() bool {
	return lr.LoginRequestID != "" && lr.State != ""
}

// Subject is what we assert to the orchestrator about an authenticated user.
type Subject struct {
	Sub   string `json:"sub"`
	Email string `json:"email"`
}

// AccessToken is a verified bearer token presented to the MCP endpoint.
type AccessToken struct {
	Subject   Subject
	ExpiresAt time.Time
}
