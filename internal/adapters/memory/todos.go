package memory

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/target/todo-byoa/internal/domain/model"
	apperrors "github.com/target/todo-byoa/internal/errors"
	"github.com/target/todo-byoa/internal/ports"
)

// TodoStore keeps todos in insertion order.
type TodoStore struct {
	mu    sync.Mutex
	todos []model.Todo
}

var _ ports.TodoRepository = (*TodoStore)(nil)

// NewTodoStore creates a store preloaded with the given todos.
func NewTodoStore(initial ...model.Todo) *TodoStore {
	return &TodoStore{todos: slices.Clone(initial)}
}

func (s *TodoStore) ListByOwner(_ context.Context, userID string) ([]model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]model.Todo, 0, len(s.todos))
	for _, t := range s.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (s *TodoStore) Create(_ context.Context, todo model.Todo) (model.Todo, error) {
	if todo.ID == "" {
		return model.Todo{}, errors.New("todo ID cannot be empty")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.indexOf(todo.ID) >= 0 {
		return model.Todo{}, apperrors.Conflict("todo ID already exists")
	}
	s.todos = append(s.todos, todo)
	return todo, nil
}

func (s *TodoStore) Update(
	_ context.Context,
	userID, id string,
	req model.UpdateTodoRequest,
) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 || s.todos[i].UserID != userID {
		return model.Todo{}, ports.ErrTodoNotFound
	}
	req.Apply(&s.todos[i])
	return s.todos[i], nil
}

func (s *TodoStore) Delete(_ context.Context, userID, id string) (model.Todo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	i := s.indexOf(id)
	if i < 0 || s.todos[i].UserID != userID {
		return model.Todo{}, ports.ErrTodoNotFound
	}
	deleted := s.todos[i]
	s.todos = slices.Delete(s.todos, i, i+1)
	return deleted, nil
}

func (s *TodoStore) indexOf(id string) int {
	return slices.IndexFunc(s.todos, func(t model.Todo) bool { return t.ID == id })
}
