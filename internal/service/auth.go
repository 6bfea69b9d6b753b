package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	apperrors "github.com/target/todo-byoa/internal/errors"
	"github.com/target/todo-byoa/internal/ports"
)

// DefaultSessionTTL is used when SessionConfig.TTL is unset.
const DefaultSessionTTL = 24 * time.Hour

// SessionConfig tunes session lifetime.
type SessionConfig struct {
	TTL      time.Duration
	Now      func() time.Time // optional; defaults to time.Now
	Observer AuthObserver     // optional
}

// SessionAuthServiceOptions groups dependencies for SessionAuthService.
type SessionAuthServiceOptions struct {
	Users    ports.CredentialStore
	Sessions ports.SessionStore
	Config   SessionConfig
}

// SessionAuthService checks local credentials and manages browser sessions.
type SessionAuthService struct {
	users    ports.CredentialStore
	sessions ports.SessionStore
	ttl      time.Duration
	now      func() time.Time
	observer AuthObserver
}

// NewSessionAuthService constructs a SessionAuthService.
func NewSessionAuthService(opts SessionAuthServiceOptions) *SessionAuthService {
	if opts.Users == nil || opts.Sessions == nil {
		panic("service: SessionAuthService requires Users and Sessions")
	}
	ttl := opts.Config.TTL
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	now := opts.Config.Now
	if now == nil {
		now = time.Now
	}
	observer := opts.Config.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &SessionAuthService{
		users:    opts.Users,
		sessions: opts.Sessions,
		ttl:      ttl,
		now:      now,
		observer: observer,
	}
}

// LoginResult is a freshly created session and the user it belongs to.
type LoginResult struct {
	Session domainauth.Session
	User    domainauth.User
}

// Verify checks a username/password pair without creating a session.
// A mismatch on either field yields the same InvalidCredentials error.
func (s *SessionAuthService) Verify(ctx context.Context, username, password string) (domainauth.User, error) {
	if username == "" || password == "" {
		return domainauth.User{}, apperrors.InvalidCredentials()
	}
	u, err := s.users.FindByCredentials(ctx, username, password)
	if errors.Is(err, ports.ErrUserNotFound) {
		return domainauth.User{}, apperrors.InvalidCredentials()
	}
	if err != nil {
		return domainauth.User{}, fmt.Errorf("find by credentials: %w", err)
	}
	return u, nil
}

// Login verifies credentials and persists a new session bound to the user id.
func (s *SessionAuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	u, err := s.Verify(ctx, username, password)
	if err != nil {
		s.observer.LoginAttempt(loginResult(err))
		return nil, err
	}

	sess := domainauth.Session{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		ExpiresAt: s.now().Add(s.ttl),
	}
	if saveErr := s.sessions.Save(ctx, sess); saveErr != nil {
		s.observer.LoginAttempt(ResultError)
		return nil, fmt.Errorf("save session: %w", saveErr)
	}
	s.observer.LoginAttempt(ResultAccepted)
	return &LoginResult{Session: sess, User: u}, nil
}

// Resolve maps a session id to its user id. Unknown or expired sessions report ok=false.
func (s *SessionAuthService) Resolve(ctx context.Context, sessionID string) (string, bool, error) {
	if sessionID == "" {
		return "", false, nil
	}
	sess, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, ports.ErrSessionNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get session: %w", err)
	}
	if sess.Expired(s.now()) {
		if delErr := s.sessions.Delete(ctx, sessionID); delErr != nil {
			return "", false, fmt.Errorf("delete expired session: %w", delErr)
		}
		return "", false, nil
	}
	return sess.UserID, true, nil
}

// User returns the stored profile for a user id.
func (s *SessionAuthService) User(ctx context.Context, userID string) (domainauth.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if errors.Is(err, ports.ErrUserNotFound) {
		return domainauth.User{}, apperrors.NotFound("user not found")
	}
	if err != nil {
		return domainauth.User{}, fmt.Errorf("find user: %w", err)
	}
	return u, nil
}

// Logout destroys the session. Unknown ids and repeated calls succeed.
func (s *SessionAuthService) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := s.sessions.Delete(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

func loginResult(err error) string {
	if apperrors.IsInvalidCredentials(err) {
		return ResultRejected
	}
	return ResultError
}
