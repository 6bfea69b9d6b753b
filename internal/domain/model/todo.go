//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

const (
	maxTodoTitleLen = 500
	todoIDPrefix    = "todo-"
	todoIDRandLen   = 8
)

// Todo is a single task owned by exactly one user.
type Todo struct {
	ID        string    `json:"id"        db:"id"`
	Title     string    `json:"title"     db:"title"`
	Completed bool      `json:"completed" db:"completed"`
	UserID    string    `json:"userId"    db:"user_id"`
	CreatedAt time.Time `json:"-"         db:"created_at"`
}

// NewTodoID returns "todo-" followed by the first eight characters of a random UUID.
func NewTodoID() string {
	return todoIDPrefix + uuid.NewString()[:todoIDRandLen]
}

// CreateTodoRequest is the payload for creating a todo.
type CreateTodoRequest struct {
	Title string `json:"title"`
}

// UpdateTodoRequest carries a partial update; nil fields are left untouched.
type UpdateTodoRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// Validate validates CreateTodoRequest and normalizes the title.
func (r *CreateTodoRequest) Validate() error {
	title := strings.TrimSpace(r.Title)
	if title == "" {
		return errors.New("title is required and cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTodoTitleLen {
		return errors.New("title cannot exceed 500 characters")
	}
	r.Title = title
	return nil
}

// HasUpdates reports whether any field is set in UpdateTodoRequest.
func (r *UpdateTodoRequest) HasUpdates() bool {
	return r.Title != nil || r.Completed != nil
}

// Validate checks the provided fields. An empty update is valid and changes nothing.
func (r *UpdateTodoRequest) Validate() error {
	if r.Title == nil {
		return nil
	}
	title := strings.TrimSpace(*r.Title)
	if title == "" {
		return errors.New("title cannot be empty")
	}
	if utf8.RuneCountInString(title) > maxTodoTitleLen {
		return errors.New("title cannot exceed 500 characters")
	}
	*r.Title = title
	return nil
}

// Apply copies the set fields of the update onto t.
func (r UpdateTodoRequest) Apply(t *Todo) {
	if r.Title != nil {
		t.Title = *r.Title
	}
	if r.Completed != nil {
		t.Completed = *r.Completed
	}
}
