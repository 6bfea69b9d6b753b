package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/target/todo-byoa/config"
)

// Infrastructure holds the external connections the selected backends need.
// Either field is nil when its backend is not in use.
type Infrastructure struct {
	DB    *sql.DB
	Redis redis.UniversalClient
}

// InitInfrastructure connects to Postgres and Redis only when configured to use them.
// Migrations run on connect when enabled.
func InitInfrastructure(ctx context.Context, cfg *config.AppConfig, logger *slog.Logger) (Infrastructure, error) {
	var infra Infrastructure

	if cfg.Storage.Data == config.BackendPostgres {
		db, err := ConnectDB(ctx, cfg.Postgres, logger)
		if err != nil {
			return Infrastructure{}, fmt.Errorf("connect db: %w", err)
		}
		infra.DB = db

		if cfg.Postgres.RunMigrationsOnStart {
			if err := RunMigrations(ctx, db, logger); err != nil {
				return Infrastructure{}, errors.Join(err, infra.Close())
			}
		} else {
			logger.InfoContext(ctx, "skipping database migrations on startup", "reason", "disabled via config")
		}
	}

	if cfg.Storage.Sessions == config.BackendRedis {
		client, err := ConnectRedis(ctx, cfg.Redis, logger)
		if err != nil {
			return Infrastructure{}, errors.Join(fmt.Errorf("connect redis: %w", err), infra.Close())
		}
		infra.Redis = client
	}

	return infra, nil
}

// Close releases every open connection.
func (i Infrastructure) Close() error {
	var errs []error
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close redis: %w", err))
		}
	}
	if i.DB != nil {
		if err := i.DB.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close database: %w", err))
		}
	}
	return errors.Join(errs...)
}
