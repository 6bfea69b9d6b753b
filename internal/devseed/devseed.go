// Package devseed loads the demo users and todos the login page hints at.
package devseed

import (
	"context"
	"fmt"
	"log/slog"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	"github.com/target/todo-byoa/internal/domain/model"
	apperrors "github.com/target/todo-byoa/internal/errors"
	"github.com/target/todo-byoa/internal/ports"
)

type demoAccount struct {
	user     domainauth.User
	password string
}

func demoAccounts() []demoAccount {
	return []demoAccount{
		{
			user:     domainauth.User{ID: "1", Username: "alice", Email: "alice@example.com", DisplayName: "Alice Smith"},
			password: "password123",
		},
		{
			user:     domainauth.User{ID: "2", Username: "bob", Email: "bob@example.com", DisplayName: "Bob Jones"},
			password: "password456",
		},
	}
}

// Users returns the demo users with hashed passwords.
func Users(hasher ports.PasswordHasher) ([]domainauth.User, error) {
	accounts := demoAccounts()
	users := make([]domainauth.User, 0, len(accounts))
	for _, a := range accounts {
		hash, err := hasher.Hash(a.password)
		if err != nil {
			return nil, fmt.Errorf("hash password for %s: %w", a.user.Username, err)
		}
		u := a.user
		u.PasswordHash = hash
		users = append(users, u)
	}
	return users, nil
}

// Todos returns the demo todos in display order.
func Todos() []model.Todo {
	return []model.Todo{
		{ID: "todo-1", Title: "Review Q4 report", Completed: false, UserID: "1"},
		{ID: "todo-2", Title: "Update deployment docs", Completed: false, UserID: "1"},
		{ID: "todo-3", Title: "Fix login bug", Completed: true, UserID: "2"},
	}
}

// UserPutter accepts pre-hashed users one at a time, like memory.UserStore.
type UserPutter interface {
	Put(u domainauth.User) error
}

// UserUpserter writes users in bulk, like data.UserRepo.
type UserUpserter interface {
	Upsert(ctx context.Context, users []domainauth.User) error
}

// TodoInserter writes todos while leaving existing ids untouched, like data.TodoRepo.
type TodoInserter interface {
	InsertMissing(ctx context.Context, todos []model.Todo) error
}

// SeedMemory puts the demo users into an in-memory store, skipping ids that already exist.
// Todos are passed to memory.NewTodoStore by the caller.
func SeedMemory(ctx context.Context, users UserPutter, hasher ports.PasswordHasher, logger *slog.Logger) error {
	demo, err := Users(hasher)
	if err != nil {
		return err
	}
	failures := 0
	for _, u := range demo {
		if putErr := users.Put(u); putErr != nil {
			if apperrors.IsConflict(putErr) {
				if logger != nil {
					logger.DebugContext(ctx, "seed user already present", "username", u.Username)
				}
				continue
			}
			if logger != nil {
				logger.ErrorContext(ctx, "failed to seed user", "username", u.Username, "error", putErr)
			}
			failures++
			continue
		}
		if logger != nil {
			logger.InfoContext(ctx, "seeded user", "username", u.Username, "user_id", u.ID)
		}
	}
	if failures > 0 {
		return fmt.Errorf("%d seed errors; check logs", failures)
	}
	return nil
}

// SeedPostgres upserts the demo users and inserts any missing demo todos.
// Running it again restores demo credentials but keeps todo edits.
func SeedPostgres(
	ctx context.Context,
	users UserUpserter,
	todos TodoInserter,
	hasher ports.PasswordHasher,
	logger *slog.Logger,
) error {
	demo, err := Users(hasher)
	if err != nil {
		return err
	}
	if err := users.Upsert(ctx, demo); err != nil {
		return fmt.Errorf("seed users: %w", err)
	}
	if err := todos.InsertMissing(ctx, Todos()); err != nil {
		return fmt.Errorf("seed todos: %w", err)
	}
	if logger != nil {
		logger.InfoContext(ctx, "seeded demo data", "users", len(demo), "todos", len(Todos()))
	}
	return nil
}
