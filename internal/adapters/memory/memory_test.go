package memory

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	"github.com/target/todo-byoa/internal/domain/model"
	apperrors "github.com/target/todo-byoa/internal/errors"
	"github.com/target/todo-byoa/internal/ports"
)

// plainHasher stores passwords verbatim so tests avoid bcrypt cost.
type plainHasher struct{}

func (plainHasher) Hash(p string) (string, error) { return "plain:" + p, nil }
func (plainHasher) Compare(h, p string) bool     { return h == "plain:"+p }

func newUsers(t *testing.T) *UserStore {
	t.Helper()
	s := NewUserStore(plainHasher{})
	require.NoError(t, s.Put(domainauth.User{
		ID: "1", Username: "alice", PasswordHash: "plain:password123",
		Email: "alice@example.com", DisplayName: "Alice Smith",
	}))
	require.NoError(t, s.Put(domainauth.User{
		ID: "2", Username: "bob", PasswordHash: "plain:password456",
		Email: "bob@example.com", DisplayName: "Bob Jones",
	}))
	return s
}

func TestUserStore_FindByCredentials(t *testing.T) {
	s := newUsers(t)
	ctx := context.Background()

	u, err := s.FindByCredentials(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "alice@example.com", u.Email)

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "password456"},
		{"unknown user", "carol", "password123"},
		{"username case differs", "Alice", "password123"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.FindByCredentials(ctx, tt.username, tt.password)
			assert.ErrorIs(t, err, ports.ErrUserNotFound)
		})
	}
}

func TestUserStore_PutRejectsDuplicates(t *testing.T) {
	s := newUsers(t)
	assert.True(t, apperrors.IsConflict(s.Put(domainauth.User{ID: "1", Username: "carol"})))
	assert.True(t, apperrors.IsConflict(s.Put(domainauth.User{ID: "3", Username: "bob"})))
	err := s.Put(domainauth.User{ID: "", Username: "dave"})
	require.Error(t, err)
	assert.False(t, apperrors.IsConflict(err))

	u, err := s.FindByID(context.Background(), "2")
	require.NoError(t, err)
	assert.Equal(t, "bob", u.Username)

	_, err = s.FindByID(context.Background(), "9")
	assert.ErrorIs(t, err, ports.ErrUserNotFound)
}

func TestSessionStore_Lifecycle(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	sess := domainauth.Session{ID: "s1", UserID: "1", ExpiresAt: now.Add(time.Hour)}
	require.NoError(t, s.Save(ctx, sess))

	got, err := s.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, sess, got)

	require.NoError(t, s.Delete(ctx, "s1"))
	_, err = s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)

	require.NoError(t, s.Delete(ctx, "missing"))
	require.Error(t, s.Save(ctx, domainauth.Session{}))
}

func TestSessionStore_ExpiredIsDropped(t *testing.T) {
	s := NewSessionStore()
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Save(ctx, domainauth.Session{ID: "s1", UserID: "1", ExpiresAt: now}))
	assert.Equal(t, 1, s.Len())

	_, err := s.Get(ctx, "s1")
	assert.ErrorIs(t, err, ports.ErrSessionNotFound)
	assert.Equal(t, 0, s.Len())
}

func seedTodos() []model.Todo {
	return []model.Todo{
		{ID: "todo-1", Title: "Review Q4 report", UserID: "1"},
		{ID: "todo-2", Title: "Update deployment docs", UserID: "1"},
		{ID: "todo-3", Title: "Fix login bug", Completed: true, UserID: "2"},
	}
}

func TestTodoStore_ListByOwner(t *testing.T) {
	s := NewTodoStore(seedTodos()...)
	ctx := context.Background()

	alice, err := s.ListByOwner(ctx, "1")
	require.NoError(t, err)
	require.Len(t, alice, 2)
	assert.Equal(t, "todo-1", alice[0].ID)
	assert.Equal(t, "todo-2", alice[1].ID)

	nobody, err := s.ListByOwner(ctx, "42")
	require.NoError(t, err)
	assert.NotNil(t, nobody)
	assert.Empty(t, nobody)
}

func TestTodoStore_CreateAppends(t *testing.T) {
	s := NewTodoStore(seedTodos()...)
	ctx := context.Background()

	created, err := s.Create(ctx, model.Todo{ID: "todo-4", Title: "Ship it", UserID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "todo-4", created.ID)

	list, err := s.ListByOwner(ctx, "1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, "todo-4", list[2].ID)

	_, err = s.Create(ctx, model.Todo{ID: "todo-4", Title: "dup", UserID: "1"})
	assert.True(t, apperrors.IsConflict(err))
}

func TestTodoStore_UpdateScopedToOwner(t *testing.T) {
	s := NewTodoStore(seedTodos()...)
	ctx := context.Background()
	done := true

	_, err := s.Update(ctx, "1", "todo-3", model.UpdateTodoRequest{Completed: &done})
	require.ErrorIs(t, err, ports.ErrTodoNotFound)

	title := "Review Q4 report (final)"
	got, err := s.Update(ctx, "1", "todo-1", model.UpdateTodoRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.False(t, got.Completed)

	got, err = s.Update(ctx, "1", "todo-1", model.UpdateTodoRequest{Completed: &done})
	require.NoError(t, err)
	assert.Equal(t, title, got.Title)
	assert.True(t, got.Completed)
}

func TestTodoStore_DeleteScopedToOwner(t *testing.T) {
	s := NewTodoStore(seedTodos()...)
	ctx := context.Background()

	_, err := s.Delete(ctx, "2", "todo-1")
	require.ErrorIs(t, err, ports.ErrTodoNotFound)

	deleted, err := s.Delete(ctx, "1", "todo-1")
	require.NoError(t, err)
	assert.Equal(t, "Review Q4 report", deleted.Title)

	_, err = s.Delete(ctx, "1", "todo-1")
	require.ErrorIs(t, err, ports.ErrTodoNotFound)
}

func TestTodoStore_ConcurrentCreates(t *testing.T) {
	s := NewTodoStore()
	ctx := context.Background()

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = s.Create(ctx, model.Todo{ID: model.NewTodoID(), Title: "t", UserID: "1"})
		}()
	}
	wg.Wait()

	list, err := s.ListByOwner(ctx, "1")
	require.NoError(t, err)
	assert.Len(t, list, 50)
}
