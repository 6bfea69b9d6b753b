package mcpserver

import (
	"context"
	"errors"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/target/todo-byoa/internal/domain/model"
)

// TodoAPI is the subset of the todo API the tools call.
type TodoAPI interface {
	List(ctx context.Context, userID string) ([]model.Todo, error)
	Create(ctx context.Context, userID, title string) (model.Todo, error)
	Update(ctx context.Context, userID, id string, req model.UpdateTodoRequest) (model.Todo, error)
	Delete(ctx context.Context, userID, id string) (model.Todo, error)
}

var errNoAccessToken = errors.New("no access token, authentication required")

// ListTodosInput takes no arguments.
type ListTodosInput struct{}

// ListTodosResult mirrors GET /api/todos.
type ListTodosResult struct {
	Todos []model.Todo `json:"todos" jsonschema:"todos owned by the authenticated user"`
}

// CreateTodoInput is the create_todo argument set.
type CreateTodoInput struct {
	Title string `json:"title" jsonschema:"the title of the todo item"`
}

// TodoResult wraps a single todo.
type TodoResult struct {
	Todo model.Todo `json:"todo" jsonschema:"the created or updated todo"`
}

// UpdateTodoInput is the update_todo argument set. Omitted fields stay unchanged.
type UpdateTodoInput struct {
	TodoID    string  `json:"todo_id" jsonschema:"the ID of the todo to update"`
	Title     *string `json:"title,omitempty" jsonschema:"new title"`
	Completed *bool   `json:"completed,omitempty" jsonschema:"new completion status"`
}

// DeleteTodoInput is the delete_todo argument set.
type DeleteTodoInput struct {
	TodoID string `json:"todo_id" jsonschema:"the ID of the todo to delete"`
}

// DeleteTodoResult mirrors DELETE /api/todos/{id}.
type DeleteTodoResult struct {
	Deleted model.Todo `json:"deleted" jsonschema:"the removed todo"`
}

// ListTodosTool defines the list_todos schema.
func ListTodosTool() *mcp.Tool {
	return &mcp.Tool{Name: "list_todos", Description: "List all todos for the authenticated user."}
}

// CreateTodoTool defines the create_todo schema.
func CreateTodoTool() *mcp.Tool {
	return &mcp.Tool{Name: "create_todo", Description: "Create a new todo item."}
}

// UpdateTodoTool defines the update_todo schema.
func UpdateTodoTool() *mcp.Tool {
	return &mcp.Tool{Name: "update_todo", Description: "Update an existing todo item's title or completion status."}
}

// DeleteTodoTool defines the delete_todo schema.
func DeleteTodoTool() *mcp.Tool {
	return &mcp.Tool{Name: "delete_todo", Description: "Delete a todo item."}
}

// ListTodosHandler lists the caller's todos.
func ListTodosHandler(api TodoAPI) mcp.ToolHandlerFor[ListTodosInput, ListTodosResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, _ ListTodosInput) (*mcp.CallToolResult, ListTodosResult, error) {
		userID, err := callerID(req)
		if err != nil {
			return nil, ListTodosResult{}, err
		}
		todos, err := api.List(ctx, userID)
		if err != nil {
			return nil, ListTodosResult{}, fmt.Errorf("list todos: %w", err)
		}
		return nil, ListTodosResult{Todos: todos}, nil
	}
}

// CreateTodoHandler creates a todo for the caller.
func CreateTodoHandler(api TodoAPI) mcp.ToolHandlerFor[CreateTodoInput, TodoResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in CreateTodoInput) (*mcp.CallToolResult, TodoResult, error) {
		userID, err := callerID(req)
		if err != nil {
			return nil, TodoResult{}, err
		}
		todo, err := api.Create(ctx, userID, in.Title)
		if err != nil {
			return nil, TodoResult{}, fmt.Errorf("create todo: %w", err)
		}
		return nil, TodoResult{Todo: todo}, nil
	}
}

// UpdateTodoHandler forwards only the provided fields.
func UpdateTodoHandler(api TodoAPI) mcp.ToolHandlerFor[UpdateTodoInput, TodoResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in UpdateTodoInput) (*mcp.CallToolResult, TodoResult, error) {
		userID, err := callerID(req)
		if err != nil {
			return nil, TodoResult{}, err
		}
		if in.TodoID == "" {
			return nil, TodoResult{}, errors.New("todo_id is required")
		}
		todo, err := api.Update(ctx, userID, in.TodoID, model.UpdateTodoRequest{
			Title:     in.Title,
			Completed: in.Completed,
		})
		if err != nil {
			return nil, TodoResult{}, fmt.Errorf("update todo: %w", err)
		}
		return nil, TodoResult{Todo: todo}, nil
	}
}

// DeleteTodoHandler deletes one of the caller's todos.
func DeleteTodoHandler(api TodoAPI) mcp.ToolHandlerFor[DeleteTodoInput, DeleteTodoResult] {
	return func(ctx context.Context, req *mcp.CallToolRequest, in DeleteTodoInput) (*mcp.CallToolResult, DeleteTodoResult, error) {
		userID, err := callerID(req)
		if err != nil {
			return nil, DeleteTodoResult{}, err
		}
		if in.TodoID == "" {
			return nil, DeleteTodoResult{}, errors.New("todo_id is required")
		}
		todo, err := api.Delete(ctx, userID, in.TodoID)
		if err != nil {
			return nil, DeleteTodoResult{}, fmt.Errorf("delete todo: %w", err)
		}
		return nil, DeleteTodoResult{Deleted: todo}, nil
	}
}

// callerID is the access token subject, which the todo API treats as the user id.
func callerID(req *mcp.CallToolRequest) (string, error) {
	if req == nil || req.Extra == nil || req.Extra.TokenInfo == nil || req.Extra.TokenInfo.UserID == "" {
		return "", errNoAccessToken
	}
	return req.Extra.TokenInfo.UserID, nil
}

func registerTools(server *mcp.Server, api TodoAPI) {
	mcp.AddTool(server, ListTodosTool(), ListTodosHandler(api))
	mcp.AddTool(server, CreateTodoTool(), CreateTodoHandler(api))
	mcp.AddTool(server, UpdateTodoTool(), UpdateTodoHandler(api))
	mcp.AddTool(server, DeleteTodoTool(), DeleteTodoHandler(api))
}
