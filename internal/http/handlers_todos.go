package httpx

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/target/todo-byoa/internal/domain/model"
	apperrors "github.com/target/todo-byoa/internal/errors"
)

// TodoService is the owner-scoped todo API (service.TodoService).
type TodoService interface {
	List(ctx context.Context, userID string) ([]model.Todo, error)
	Create(ctx context.Context, userID string, req model.CreateTodoRequest) (model.Todo, error)
	Update(ctx context.Context, userID, id string, req model.UpdateTodoRequest) (model.Todo, error)
	Delete(ctx context.Context, userID, id string) (model.Todo, error)
}

// TodoHandlers serves /api/todos. Every route sits behind RequireIdentity.
type TodoHandlers struct {
	Svc    TodoService
	Logger *slog.Logger
}

type todoListResponse struct {
	Todos []model.Todo `json:"todos"`
}

type todoResponse struct {
	Todo model.Todo `json:"todo"`
}

type todoDeletedResponse struct {
	Deleted model.Todo `json:"deleted"`
}

// List handles GET /api/todos.
func (h *TodoHandlers) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	todos, err := h.Svc.List(r.Context(), userID)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, todoListResponse{Todos: todos})
}

// Create handles POST /api/todos.
func (h *TodoHandlers) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req model.CreateTodoRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	todo, err := h.Svc.Create(r.Context(), userID, req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusCreated, todoResponse{Todo: todo})
}

// Update handles PUT /api/todos/{id}.
func (h *TodoHandlers) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	var req model.UpdateTodoRequest
	if !DecodeJSON(w, r, &req) {
		return
	}
	todo, err := h.Svc.Update(r.Context(), userID, r.PathValue("id"), req)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, todoResponse{Todo: todo})
}

// Delete handles DELETE /api/todos/{id}.
func (h *TodoHandlers) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := h.userID(w, r)
	if !ok {
		return
	}
	todo, err := h.Svc.Delete(r.Context(), userID, r.PathValue("id"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	WriteJSON(w, http.StatusOK, todoDeletedResponse{Deleted: todo})
}

func (h *TodoHandlers) userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		WriteAppError(w, apperrors.Unauthenticated())
		return "", false
	}
	return id.UserID, true
}

func (h *TodoHandlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	if StatusForError(err) == http.StatusInternalServerError {
		logger := h.Logger
		if logger == nil {
			logger = slog.Default()
		}
		logger.ErrorContext(r.Context(), "todo request failed", "error", err, "path", r.URL.Path)
	}
	WriteAppError(w, err)
}
