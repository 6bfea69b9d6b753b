package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/target/todo-byoa/internal/domain/model"
	apperrors "github.com/target/todo-byoa/internal/errors"
	"github.com/target/todo-byoa/internal/ports"
)

// TodoServiceOptions groups dependencies for TodoService.
type TodoServiceOptions struct {
	Repo   ports.TodoRepository
	Logger *slog.Logger // optional
	NewID  func() string
}

// TodoService applies validation and owner scoping on top of a TodoRepository.
type TodoService struct {
	repo   ports.TodoRepository
	logger *slog.Logger
	newID  func() string
}

// NewTodoService constructs a TodoService.
func NewTodoService(opts TodoServiceOptions) *TodoService {
	if opts.Repo == nil {
		panic("service: TodoService requires Repo")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	newID := opts.NewID
	if newID == nil {
		newID = model.NewTodoID
	}
	return &TodoService{repo: opts.Repo, logger: logger.With("component", "todos"), newID: newID}
}

// List returns the caller's todos in creation order.
func (s *TodoService) List(ctx context.Context, userID string) ([]model.Todo, error) {
	todos, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// Create adds an incomplete todo owned by userID.
func (s *TodoService) Create(ctx context.Context, userID string, req model.CreateTodoRequest) (model.Todo, error) {
	if err := req.Validate(); err != nil {
		return model.Todo{}, apperrors.ValidationField("title", err.Error())
	}
	todo, err := s.repo.Create(ctx, model.Todo{
		ID:     s.newID(),
		Title:  req.Title,
		UserID: userID,
	})
	if err != nil {
		return model.Todo{}, fmt.Errorf("create todo: %w", err)
	}
	s.logger.DebugContext(ctx, "todo created", "todo_id", todo.ID, "user_id", userID)
	return todo, nil
}

// Update applies the provided fields. A todo owned by someone else is NotFound.
func (s *TodoService) Update(
	ctx context.Context,
	userID, id string,
	req model.UpdateTodoRequest,
) (model.Todo, error) {
	if err := req.Validate(); err != nil {
		return model.Todo{}, apperrors.ValidationField("title", err.Error())
	}
	todo, err := s.repo.Update(ctx, userID, id, req)
	if err != nil {
		return model.Todo{}, mapTodoErr("update todo", err)
	}
	return todo, nil
}

// Delete removes the todo and returns it. A todo owned by someone else is NotFound.
func (s *TodoService) Delete(ctx context.Context, userID, id string) (model.Todo, error) {
	todo, err := s.repo.Delete(ctx, userID, id)
	if err != nil {
		return model.Todo{}, mapTodoErr("delete todo", err)
	}
	return todo, nil
}

func mapTodoErr(op string, err error) error {
	if errors.Is(err, ports.ErrTodoNotFound) {
		return apperrors.Wrap(err, apperrors.ErrCodeNotFound, "todo not found")
	}
	return fmt.Errorf("%s: %w", op, err)
}
