package data

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	"github.com/target/todo-byoa/internal/ports"
	"github.com/target/todo-byoa/internal/testutil"
)

type prefixHasher struct{}

func (prefixHasher) Hash(p string) (string, error) { return "h:" + p, nil }
func (prefixHasher) Compare(h, p string) bool     { return h == "h:"+p }

func TestUserRepo_UpsertAndFind(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewUserRepo(db, prefixHasher{})
	ctx := context.Background()

	users := []domainauth.User{
		{ID: "1", Username: "alice", PasswordHash: "h:password123", Email: "alice@example.com", DisplayName: "Alice Smith"},
		{ID: "2", Username: "bob", PasswordHash: "h:password456", Email: "bob@example.com", DisplayName: "Bob Jones"},
	}
	require.NoError(t, repo.Upsert(ctx, users))
	require.NoError(t, repo.Upsert(ctx, users))

	u, err := repo.FindByCredentials(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, "1", u.ID)
	assert.Equal(t, "Alice Smith", u.DisplayName)

	_, err = repo.FindByCredentials(ctx, "alice", "password456")
	require.ErrorIs(t, err, ports.ErrUserNotFound)

	_, err = repo.FindByCredentials(ctx, "ALICE", "password123")
	require.ErrorIs(t, err, ports.ErrUserNotFound)

	u, err = repo.FindByID(ctx, "2")
	require.NoError(t, err)
	assert.Equal(t, "bob@example.com", u.Email)

	_, err = repo.FindByID(ctx, "99")
	require.ErrorIs(t, err, ports.ErrUserNotFound)
}

func TestUserRepo_UpsertRollsBackOnConflict(t *testing.T) {
	db := testutil.SetupTestDB(t)
	repo := NewUserRepo(db, prefixHasher{})
	ctx := context.Background()

	err := repo.Upsert(ctx, []domainauth.User{
		{ID: "1", Username: "alice", PasswordHash: "h:x", Email: "a@example.com", DisplayName: "A"},
		{ID: "2", Username: "alice", PasswordHash: "h:y", Email: "b@example.com", DisplayName: "B"},
	})
	require.Error(t, err)

	_, err = repo.FindByID(ctx, "1")
	require.ErrorIs(t, err, ports.ErrUserNotFound)
}
