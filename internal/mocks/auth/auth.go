// Package auth contains simple hand-written test doubles for auth ports.
// These are lightweight and suitable for unit tests without codegen.
package auth

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sync"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	"github.com/target/todo-byoa/internal/ports"
)

// Ensure compile-time conformance to ports.
var (
	_ ports.CredentialStore = (*StaticCredentialStore)(nil)
	_ ports.SessionStore    = (*MemorySessionStore)(nil)
	_ ports.Orchestrator    = (*FakeOrchestrator)(nil)
)

// DemoUsers returns the two seed accounts with plaintext passwords in PasswordHash.
func DemoUsers() []domainauth.User {
	return []domainauth.User{
		{ID: "1", Username: "alice", PasswordHash: "password123", Email: "alice@example.com", DisplayName: "Alice Smith"},
		{ID: "2", Username: "bob", PasswordHash: "password456", Email: "bob@example.com", DisplayName: "Bob Jones"},
	}
}

// StaticCredentialStore compares passwords verbatim against PasswordHash.
type StaticCredentialStore struct {
	Users []domainauth.User
	// Err, when set, is returned from every lookup.
	Err error
}

// NewStaticCredentialStore creates a store seeded with DemoUsers.
func NewStaticCredentialStore() *StaticCredentialStore {
	return &StaticCredentialStore{Users: DemoUsers()}
}

func (s *StaticCredentialStore) FindByCredentials(_ context.Context, username, password string) (domainauth.User, error) {
	if s.Err != nil {
		return domainauth.User{}, s.Err
	}
	for _, u := range s.Users {
		if u.Username == username && u.PasswordHash == password {
			return u, nil
		}
	}
	return domainauth.User{}, ports.ErrUserNotFound
}

func (s *StaticCredentialStore) FindByID(_ context.Context, id string) (domainauth.User, error) {
	if s.Err != nil {
		return domainauth.User{}, s.Err
	}
	for _, u := range s.Users {
		if u.ID == id {
			return u, nil
		}
	}
	return domainauth.User{}, ports.ErrUserNotFound
}

// MemorySessionStore is an in-memory session store for unit tests.
// The Func fields override the default behaviour when set.
type MemorySessionStore struct {
	SaveFunc   func(ctx context.Context, sess domainauth.Session) error
	GetFunc    func(ctx context.Context, id string) (domainauth.Session, error)
	DeleteFunc func(ctx context.Context, id string) error

	mu       sync.Mutex
	sessions map[string]domainauth.Session
}

// NewMemorySessionStore creates a new in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: make(map[string]domainauth.Session)}
}

func (m *MemorySessionStore) Save(ctx context.Context, sess domainauth.Session) error {
	if m.SaveFunc != nil {
		return m.SaveFunc(ctx, sess)
	}
	if sess.ID == "" {
		return errors.New("session ID cannot be empty")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[sess.ID] = sess
	return nil
}

func (m *MemorySessionStore) Get(ctx context.Context, id string) (domainauth.Session, error) {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[id]
	if !ok {
		return domainauth.Session{}, ports.ErrSessionNotFound
	}
	return sess, nil
}

func (m *MemorySessionStore) Delete(ctx context.Context, id string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, id)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
	return nil
}

// Count returns how many sessions are stored.
func (m *MemorySessionStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// AcceptCall records one AcceptSubject invocation.
type AcceptCall struct {
	ConnectionID   string
	LoginRequestID string
	Subject        domainauth.Subject
}

// FakeOrchestrator records calls and builds callback URLs against BaseURL.
type FakeOrchestrator struct {
	BaseURL    string
	AcceptFunc func(ctx context.Context, connectionID, loginRequestID string, subject domainauth.Subject) error

	mu    sync.Mutex
	calls []AcceptCall
}

// NewFakeOrchestrator creates a FakeOrchestrator rooted at https://orchestrator.test.
func NewFakeOrchestrator() *FakeOrchestrator {
	return &FakeOrchestrator{BaseURL: "https://orchestrator.test"}
}

func (f *FakeOrchestrator) AcceptSubject(
	ctx context.Context,
	connectionID, loginRequestID string,
	subject domainauth.Subject,
) error {
	f.mu.Lock()
	f.calls = append(f.calls, AcceptCall{ConnectionID: connectionID, LoginRequestID: loginRequestID, Subject: subject})
	f.mu.Unlock()
	if f.AcceptFunc != nil {
		return f.AcceptFunc(ctx, connectionID, loginRequestID, subject)
	}
	return nil
}

func (f *FakeOrchestrator) CallbackURL(connectionID, state string) string {
	return fmt.Sprintf("%s/sso/v1/connections/%s/partner:callback?state=%s",
		f.BaseURL, url.PathEscape(connectionID), url.QueryEscape(state))
}

// Calls returns a copy of the recorded AcceptSubject calls.
func (f *FakeOrchestrator) Calls() []AcceptCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]AcceptCall(nil), f.calls...)
}
