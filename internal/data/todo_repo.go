package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/target/todo-byoa/internal/data/pgxutil"
	"github.com/target/todo-byoa/internal/domain/model"
	apperrors "github.com/target/todo-byoa/internal/errors"
	"github.com/target/todo-byoa/internal/ports"
)

const todoColumns = "id, title, completed, user_id, created_at"

// TodoRepo stores todos in Postgres. Listing follows insertion order via the seq identity column.
type TodoRepo struct {
	DB    *sql.DB
	clock Clock
}

var _ ports.TodoRepository = (*TodoRepo)(nil)

// NewTodoRepo creates a TodoRepo using the system clock.
func NewTodoRepo(db *sql.DB) *TodoRepo {
	return &TodoRepo{DB: db, clock: systemClock{}}
}

// NewTodoRepoWithClock creates a TodoRepo that stamps created_at from clock.
func NewTodoRepoWithClock(db *sql.DB, clock Clock) *TodoRepo {
	return &TodoRepo{DB: db, clock: clock}
}

func (r *TodoRepo) ListByOwner(ctx context.Context, userID string) ([]model.Todo, error) {
	var out []model.Todo
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx,
			`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 ORDER BY seq`, userID)
		if err != nil {
			return err
		}
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[model.Todo])
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", apperrors.MapDBError(err))
	}
	if out == nil {
		out = []model.Todo{}
	}
	return out, nil
}

func (r *TodoRepo) Create(ctx context.Context, todo model.Todo) (model.Todo, error) {
	if todo.CreatedAt.IsZero() {
		todo.CreatedAt = r.clock.Now()
	}
	var out model.Todo
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, `
			INSERT INTO todos (id, title, completed, user_id, created_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+todoColumns,
			todo.ID, todo.Title, todo.Completed, todo.UserID, todo.CreatedAt,
		)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Todo])
		return err
	})
	if err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", apperrors.MapDBError(err))
	}
	return out, nil
}

func (r *TodoRepo) Update(
	ctx context.Context,
	userID, id string,
	req model.UpdateTodoRequest,
) (model.Todo, error) {
	setClause, args := buildTodoUpdateClause(req)
	args = append(args, id, userID)
	idParam, userParam := strconv.Itoa(len(args)-1), strconv.Itoa(len(args))

	var query string
	if setClause == "" {
		query = `SELECT ` + todoColumns + ` FROM todos WHERE id = $` + idParam + ` AND user_id = $` + userParam
	} else {
		query = `UPDATE todos SET ` + setClause +
			` WHERE id = $` + idParam + ` AND user_id = $` + userParam +
			` RETURNING ` + todoColumns
	}
	return r.oneRow(ctx, "update todo", query, args...)
}

func (r *TodoRepo) Delete(ctx context.Context, userID, id string) (model.Todo, error) {
	return r.oneRow(ctx, "delete todo",
		`DELETE FROM todos WHERE id = $1 AND user_id = $2 RETURNING `+todoColumns, id, userID)
}

// InsertMissing inserts the given todos in one transaction, skipping ids that already exist.
func (r *TodoRepo) InsertMissing(ctx context.Context, todos []model.Todo) error {
	if len(todos) == 0 {
		return nil
	}
	now := r.clock.Now()
	return pgxutil.InTx(ctx, r.DB, func(tx pgx.Tx) error {
		batch := &pgx.Batch{}
		for _, t := range todos {
			created := t.CreatedAt
			if created.IsZero() {
				created = now
			}
			batch.Queue(`
				INSERT INTO todos (id, title, completed, user_id, created_at)
				VALUES ($1, $2, $3, $4, $5)
				ON CONFLICT (id) DO NOTHING`,
				t.ID, t.Title, t.Completed, t.UserID, created)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return fmt.Errorf("insert seed todos: %w", apperrors.MapDBError(err))
		}
		return nil
	})
}

func (r *TodoRepo) oneRow(ctx context.Context, op, query string, args ...any) (model.Todo, error) {
	var out model.Todo
	err := pgxutil.WithConn(ctx, r.DB, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Todo])
		return err
	})
	if errors.Is(err, pgx.ErrNoRows) {
		return model.Todo{}, ports.ErrTodoNotFound
	}
	if err != nil {
		return model.Todo{}, fmt.Errorf("%s: %w", op, apperrors.MapDBError(err))
	}
	return out, nil
}

func buildTodoUpdateClause(req model.UpdateTodoRequest) (string, []any) {
	var (
		sets []string
		args []any
	)
	if req.Title != nil {
		args = append(args, *req.Title)
		sets = append(sets, "title = $"+strconv.Itoa(len(args)))
	}
	if req.Completed != nil {
		args = append(args, *req.Completed)
		sets = append(sets, "completed = $"+strconv.Itoa(len(args)))
	}
	return strings.Join(sets, ", "), args
}
