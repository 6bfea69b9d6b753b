package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/todo-byoa/config"
	"github.com/target/todo-byoa/internal/adapters/memory"
	"github.com/target/todo-byoa/internal/adapters/passwords"
	redisadapter "github.com/target/todo-byoa/internal/adapters/redis"
	"github.com/target/todo-byoa/internal/data"
	"github.com/target/todo-byoa/internal/devseed"
	"github.com/target/todo-byoa/internal/domain/model"
	"github.com/target/todo-byoa/internal/ports"
)

// Stores groups the storage ports the services run on.
type Stores struct {
	Users    ports.CredentialStore
	Sessions ports.SessionStore
	Todos    ports.TodoRepository
}

// StoreDeps carries what BuildStores needs. DB and Redis are only read when
// the matching backend is selected.
type StoreDeps struct {
	Storage config.StorageConfig
	Redis   config.RedisConfig
	DB      *sql.DB
	Client  redis.UniversalClient
	Hasher  ports.PasswordHasher
	Logger  *slog.Logger
}

// BuildStores wires the configured backends and seeds demo data when enabled.
func BuildStores(ctx context.Context, deps StoreDeps) (Stores, error) {
	hasher := deps.Hasher
	if hasher == nil {
		hasher = passwords.NewBcryptHasher()
	}

	var stores Stores
	switch deps.Storage.Data {
	case config.BackendPostgres:
		if deps.DB == nil {
			return Stores{}, errors.New("postgres storage selected without a database connection")
		}
		users := data.NewUserRepo(deps.DB, hasher)
		todos := data.NewTodoRepo(deps.DB)
		if deps.Storage.SeedDemoData {
			if err := devseed.SeedPostgres(ctx, users, todos, hasher, deps.Logger); err != nil {
				return Stores{}, fmt.Errorf("seed postgres: %w", err)
			}
		}
		stores.Users, stores.Todos = users, todos
	default:
		users := memory.NewUserStore(hasher)
		var seed []model.Todo
		if deps.Storage.SeedDemoData {
			if err := devseed.SeedMemory(ctx, users, hasher, deps.Logger); err != nil {
				return Stores{}, fmt.Errorf("seed memory: %w", err)
			}
			seed = devseed.Todos()
		}
		stores.Users, stores.Todos = users, memory.NewTodoStore(seed...)
	}

	switch deps.Storage.Sessions {
	case config.BackendRedis:
		if deps.Client == nil {
			return Stores{}, errors.New("redis session store selected without a redis client")
		}
		stores.Sessions = redisadapter.NewSessionStoreWithPrefix(deps.Client, deps.Redis.KeyPrefix)
	default:
		stores.Sessions = memory.NewSessionStore()
	}

	if deps.Logger != nil {
		deps.Logger.InfoContext(ctx, "storage ready",
			"data", deps.Storage.Data,
			"sessions", deps.Storage.Sessions,
			"seeded", deps.Storage.SeedDemoData,
		)
	}
	return stores, nil
}
