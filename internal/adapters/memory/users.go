// Package memory provides in-process implementations of the storage ports.
// Data is lost on restart; every operation holds a mutex so a single call is atomic.
package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	apperrors "github.com/target/todo-byoa/internal/errors"
	"github.com/target/todo-byoa/internal/ports"
)

// UserStore is an in-memory credential table.
type UserStore struct {
	mu         sync.RWMutex
	hasher     ports.PasswordHasher
	byID       map[string]domainauth.User
	byUsername map[string]string
}

var _ ports.CredentialStore = (*UserStore)(nil)

// NewUserStore creates an empty store that checks passwords with hasher.
func NewUserStore(hasher ports.PasswordHasher) *UserStore {
	return &UserStore{
		hasher:     hasher,
		byID:       make(map[string]domainauth.User),
		byUsername: make(map[string]string),
	}
}

// Put inserts a user whose password is already hashed. An existing id or username is rejected.
func (s *UserStore) Put(u domainauth.User) error {
	if u.ID == "" || u.Username == "" {
		return errors.New("user id and username are required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.byID[u.ID]; ok {
		return apperrors.Conflict(fmt.Sprintf("user id %q already exists", u.ID))
	}
	if _, ok := s.byUsername[u.Username]; ok {
		return apperrors.Conflict(fmt.Sprintf("username %q already exists", u.Username))
	}
	s.byID[u.ID] = u
	s.byUsername[u.Username] = u.ID
	return nil
}

// FindByCredentials returns the user only when both username and password match exactly.
func (s *UserStore) FindByCredentials(_ context.Context, username, password string) (domainauth.User, error) {
	s.mu.RLock()
	id, ok := s.byUsername[username]
	u := s.byID[id]
	s.mu.RUnlock()

	if !ok || !s.hasher.Compare(u.PasswordHash, password) {
		return domainauth.User{}, ports.ErrUserNotFound
	}
	return u, nil
}

// FindByID returns the user with the given id.
func (s *UserStore) FindByID(_ context.Context, id string) (domainauth.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.byID[id]
	if !ok {
		return domainauth.User{}, ports.ErrUserNotFound
	}
	return u, nil
}
