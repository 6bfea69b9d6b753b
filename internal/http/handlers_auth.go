package httpx

import (
	"context"
	"log/slog"
	"mime"
	"net/http"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	"github.com/target/todo-byoa/internal/service"
)

// SessionAuth is the slice of service.SessionAuthService the auth handlers use.
type SessionAuth interface {
	Login(ctx context.Context, username, password string) (*service.LoginResult, error)
	Resolve(ctx context.Context, sessionID string) (string, bool, error)
	User(ctx context.Context, userID string) (domainauth.User, error)
	Logout(ctx context.Context, sessionID string) error
}

// AuthHandlers provides HTTP handlers for session login, logout and status.
type AuthHandlers struct {
	Svc     SessionAuth
	Cookies SessionCookies
	Logger  *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type userSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type loginResponse struct {
	Message string      `json:"message"`
	User    userSummary `json:"user"`
}

type messageResponse struct {
	Message string `json:"message"`
}

type statusResponse struct {
	Authenticated bool        `json:"authenticated"`
	User          *statusUser `json:"user,omitempty"`
}

type statusUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Login checks a username/password pair and starts a session.
// POST /auth/login with a JSON or urlencoded body.
func (h *AuthHandlers) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if isJSONRequest(r) {
		if !DecodeJSON(w, r, &req) {
			return
		}
	} else {
		req.Username = r.PostFormValue("username")
		req.Password = r.PostFormValue("password")
	}

	res, err := h.Svc.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if StatusForError(err) == http.StatusInternalServerError {
			h.logger().ErrorContext(r.Context(), "login failed", "error", err)
		}
		WriteAppError(w, err)
		return
	}

	h.Cookies.Set(w, r, res.Session.ID, res.Session.ExpiresAt)
	WriteJSON(w, http.StatusOK, loginResponse{
		Message: "Logged in",
		User:    userSummary{ID: res.User.ID, Name: res.User.DisplayName},
	})
}

// Logout destroys the server-side session, if any, and clears the cookie.
// POST /auth/logout.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	if sid := h.Cookies.SessionID(r); sid != "" {
		if err := h.Svc.Logout(r.Context(), sid); err != nil {
			h.logger().WarnContext(r.Context(), "logout failed", "error", err)
		}
	}
	h.Cookies.Clear(w, r)
	WriteJSON(w, http.StatusOK, messageResponse{Message: "Logged out"})
}

// Status reports whether the browser holds a live session.
// GET /auth/status.
func (h *AuthHandlers) Status(w http.ResponseWriter, r *http.Request) {
	sid := h.Cookies.SessionID(r)
	userID, ok, err := h.Svc.Resolve(r.Context(), sid)
	if err != nil {
		h.logger().ErrorContext(r.Context(), "session lookup failed", "error", err)
		WriteAppError(w, err)
		return
	}
	if !ok {
		if _, cookieErr := r.Cookie(SessionCookieName); cookieErr == nil {
			h.Cookies.Clear(w, r)
		}
		WriteJSON(w, http.StatusOK, statusResponse{Authenticated: false})
		return
	}

	u, err := h.Svc.User(r.Context(), userID)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, statusResponse{
		Authenticated: true,
		User:          &statusUser{ID: u.ID, Name: u.DisplayName, Email: u.Email},
	})
}

func isJSONRequest(r *http.Request) bool {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mt == "application/json"
}
