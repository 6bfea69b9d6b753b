package ports

import (
	"context"
	"errors"

	"github.com/target/todo-byoa/internal/domain/model"
)

// ErrTodoNotFound is returned when a todo does not exist or belongs to another user.
var ErrTodoNotFound = errors.New("todo not found")

// TodoRepository stores todos. Every method is scoped to an owner; a todo owned by
// someone else is reported as ErrTodoNotFound.
type TodoRepository interface {
	ListByOwner(ctx context.Context, userID string) ([]model.Todo, error)
	Create(ctx context.Context, todo model.Todo) (model.Todo, error)
	Update(ctx context.Context, userID, id string, req model.UpdateTodoRequest) (model.Todo, error)
	Delete(ctx context.Context, userID, id string) (model.Todo, error)
}
