package httpx

import (
	"net/http"

	apperrors "github.com/target/todo-byoa/internal/errors"
)

// StatusForError maps an application error code to its HTTP status. Anything that is not an
// AppError is a 500.
func StatusForError(err error) int {
	switch apperrors.GetCode(err) {
	case apperrors.ErrCodeBadRequest, apperrors.ErrCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrCodeInvalidCredentials, apperrors.ErrCodeInvalidAPIKey, apperrors.ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case apperrors.ErrCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrCodeConflict:
		return http.StatusConflict
	case apperrors.ErrCodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// WriteAppError writes err as {"error": code, "message": text}. Internal errors never leak
// their cause.
func WriteAppError(w http.ResponseWriter, err error) {
	status := StatusForError(err)
	if status == http.StatusInternalServerError {
		WriteError(w, status, string(apperrors.ErrCodeInternal), "internal server error")
		return
	}
	WriteError(w, status, string(apperrors.GetCode(err)), apperrors.PublicMessage(err, http.StatusText(status)))
}
