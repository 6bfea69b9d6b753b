package data

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/target/todo-byoa/internal/migrate"
)

// RunMigrations brings the users and todos schema up to date.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	if err := migrate.Run(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}
