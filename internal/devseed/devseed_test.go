package devseed

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/todo-byoa/internal/adapters/memory"
	"github.com/target/todo-byoa/internal/adapters/passwords"
	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	"github.com/target/todo-byoa/internal/domain/model"
)

func fastHasher() *passwords.BcryptHasher {
	h := passwords.NewBcryptHasher()
	h.Cost = 4
	return h
}

func TestSeedMemory_DemoLoginsWork(t *testing.T) {
	ctx := context.Background()
	hasher := fastHasher()
	store := memory.NewUserStore(hasher)
	require.NoError(t, SeedMemory(ctx, store, hasher, nil))

	alice, err := store.FindByCredentials(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "1", alice.ID)
	assert.Equal(t, "Alice Smith", alice.DisplayName)
	assert.NotEqual(t, "password123", alice.PasswordHash)

	bob, err := store.FindByCredentials(ctx, "bob", "password456")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", bob.Email)

	_, err = store.FindByCredentials(ctx, "alice", "password456")
	assert.Error(t, err)

	require.NoError(t, SeedMemory(ctx, store, hasher, nil), "reseeding skips existing users")
	_, err = store.FindByCredentials(ctx, "bob", "password456")
	require.NoError(t, err)
}

type failingPutter struct{}

func (failingPutter) Put(domainauth.User) error { return errors.New("store closed") }

func TestSeedMemory_ReportsPutFailures(t *testing.T) {
	err := SeedMemory(context.Background(), failingPutter{}, fastHasher(), nil)
	require.ErrorContains(t, err, "2 seed errors")
}

func TestTodos_MatchDemoOwners(t *testing.T) {
	todos := Todos()
	require.Len(t, todos, 3)
	assert.Equal(t, []string{"todo-1", "todo-2", "todo-3"}, []string{todos[0].ID, todos[1].ID, todos[2].ID})
	assert.Equal(t, "Fix login bug", todos[2].Title)
	assert.True(t, todos[2].Completed)
	assert.Equal(t, "2", todos[2].UserID)
}

type recordingRepo struct {
	users []domainauth.User
	todos []model.Todo
	err   error
}

func (r *recordingRepo) Upsert(_ context.Context, users []domainauth.User) error {
	r.users = users
	return r.err
}

func (r *recordingRepo) InsertMissing(_ context.Context, todos []model.Todo) error {
	r.todos = todos
	return nil
}

func TestSeedPostgres(t *testing.T) {
	ctx := context.Background()
	repo := &recordingRepo{}
	hasher := fastHasher()

	require.NoError(t, SeedPostgres(ctx, repo, repo, hasher, nil))
	require.Len(t, repo.users, 2)
	assert.True(t, hasher.Compare(repo.users[1].PasswordHash, "password456"))
	assert.Equal(t, Todos(), repo.todos)

	failing := &recordingRepo{err: errors.New("db down")}
	err := SeedPostgres(ctx, failing, failing, hasher, nil)
	require.ErrorContains(t, err, "seed users")
	assert.Nil(t, failing.todos)
}
