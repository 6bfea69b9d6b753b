package httpx

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	apperrors "github.com/target/todo-byoa/internal/errors"
)

func TestStatusForError(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{apperrors.BadRequest("x"), http.StatusBadRequest},
		{apperrors.ValidationField("title", "x"), http.StatusBadRequest},
		{apperrors.InvalidCredentials(), http.StatusUnauthorized},
		{apperrors.InvalidAPIKey(), http.StatusUnauthorized},
		{apperrors.Unauthenticated(), http.StatusUnauthorized},
		{fmt.Errorf("update todo: %w", apperrors.NotFound("todo not found")), http.StatusNotFound},
		{apperrors.DelegationFailed(errors.New("x")), http.StatusInternalServerError},
		{errors.New("plain"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, StatusForError(tt.err), tt.err.Error())
	}
}

func TestWriteAppError_HidesInternalCause(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteAppError(rec, fmt.Errorf("resolve session: %w", errors.New("redis: connection pool timeout")))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"internal","message":"internal server error"}`, rec.Body.String())
}
