package mcpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/target/todo-byoa/internal/domain/model"
)

const (
	apiKeyHeader   = "x-api-key"
	userIDHeader   = "x-user-id"
	maxErrorBody   = 2048
	defaultTimeout = 15 * time.Second
)

// TodoAPIClient calls the todo API in bearer mode on behalf of a user.
type TodoAPIClient struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

// NewTodoAPIClient builds a client for baseURL. A nil httpClient gets a default timeout.
func NewTodoAPIClient(baseURL, apiKey string, httpClient *http.Client) *TodoAPIClient {
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	return &TodoAPIClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    httpClient,
	}
}

// APIError is a non-2xx answer from the todo API.
type APIError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *APIError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("todo api returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("todo api returned status %d: %s", e.StatusCode, e.Message)
}

type todoList struct {
	Todos []model.Todo `json:"todos"`
}

type todoEnvelope struct {
	Todo model.Todo `json:"todo"`
}

type deletedEnvelope struct {
	Deleted model.Todo `json:"deleted"`
}

// List returns the user's todos.
func (c *TodoAPIClient) List(ctx context.Context, userID string) ([]model.Todo, error) {
	var out todoList
	if err := c.do(ctx, http.MethodGet, "/api/todos", userID, nil, &out); err != nil {
		return nil, err
	}
	if out.Todos == nil {
		out.Todos = []model.Todo{}
	}
	return out.Todos, nil
}

// Create adds a todo for the user.
func (c *TodoAPIClient) Create(ctx context.Context, userID, title string) (model.Todo, error) {
	var out todoEnvelope
	err := c.do(ctx, http.MethodPost, "/api/todos", userID, model.CreateTodoRequest{Title: title}, &out)
	return out.Todo, err
}

// Update sends only the fields set in req.
func (c *TodoAPIClient) Update(ctx context.Context, userID, id string, req model.UpdateTodoRequest) (model.Todo, error) {
	var out todoEnvelope
	err := c.do(ctx, http.MethodPut, "/api/todos/"+url.PathEscape(id), userID, req, &out)
	return out.Todo, err
}

// Delete removes a todo and returns it.
func (c *TodoAPIClient) Delete(ctx context.Context, userID, id string) (model.Todo, error) {
	var out deletedEnvelope
	err := c.do(ctx, http.MethodDelete, "/api/todos/"+url.PathEscape(id), userID, nil, &out)
	return out.Deleted, err
}

func (c *TodoAPIClient) do(ctx context.Context, method, path, userID string, body, out any) error {
	var rdr io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		rdr = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, rdr)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set(apiKeyHeader, c.apiKey)
	req.Header.Set(userIDHeader, userID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &APIError{StatusCode: resp.StatusCode}
	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil && (payload.Error != "" || payload.Message != "") {
		apiErr.Code = payload.Error
		apiErr.Message = payload.Message
	} else {
		apiErr.Message = strings.TrimSpace(string(raw))
	}
	return apiErr
}
