package httpx

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	apperrors "github.com/target/todo-byoa/internal/errors"
	"github.com/target/todo-byoa/internal/service"
)

// DemoLoginHint is shown under the delegated login form when demo users are seeded.
const DemoLoginHint = "Demo users: alice / password123, bob / password456"

const (
	msgMissingParams         = "Missing login_request_id or state parameter."
	msgMissingCallbackParams = "Missing login_request_id or state."
	msgInvalidCredentials    = "Invalid username or password."
	msgDelegationFailed      = "Failed to complete authentication with Scalekit."
)

// Delegation is the delegated-login state machine (service.DelegationFlow).
type Delegation interface {
	Begin(lr domainauth.LoginRequest) service.Step
	Complete(ctx context.Context, in service.CallbackInput) service.Step
}

// BYOAHandlers serves the login page the orchestrator redirects users to, and its form callback.
type BYOAHandlers struct {
	Flow   Delegation
	Pages  *PageRenderer
	Hint   string // optional text under the form
	Logger *slog.Logger
}

type loginPageData struct {
	LoginRequestID string
	State          string
	Hint           string
}

type loginFailedData struct {
	Message  string
	RetryURL string
}

// LoginPage renders the sign-in form.
// GET /auth/mcp-login?login_request_id=...&state=...
func (h *BYOAHandlers) LoginPage(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	step := h.Flow.Begin(domainauth.LoginRequest{
		LoginRequestID: q.Get("login_request_id"),
		State:          q.Get("state"),
	})
	h.render(w, r, step, msgMissingParams)
}

// Callback checks the submitted credentials, notifies the orchestrator and sends the browser back.
// POST /auth/mcp-login-callback.
func (h *BYOAHandlers) Callback(w http.ResponseWriter, r *http.Request) {
	step := h.Flow.Complete(r.Context(), service.CallbackInput{
		LoginRequest: domainauth.LoginRequest{
			LoginRequestID: r.PostFormValue("login_request_id"),
			State:          r.PostFormValue("state"),
		},
		Username: r.PostFormValue("username"),
		Password: r.PostFormValue("password"),
	})
	h.render(w, r, step, msgMissingCallbackParams)
}

func (h *BYOAHandlers) render(w http.ResponseWriter, r *http.Request, step service.Step, missingMsg string) {
	switch step.State {
	case service.StateAwaitingCredentials:
		if step.Err != nil {
			h.Pages.Render(w, http.StatusOK, PageMCPLoginFailed, loginFailedData{
				Message:  msgInvalidCredentials,
				RetryURL: RetryURL(step.LoginRequest),
			})
			return
		}
		h.Pages.Render(w, http.StatusOK, PageMCPLogin, loginPageData{
			LoginRequestID: step.LoginRequest.LoginRequestID,
			State:          step.LoginRequest.State,
			Hint:           h.Hint,
		})
	case service.StateCompleted:
		http.Redirect(w, r, step.RedirectURL, http.StatusFound)
	case service.StateFailed:
		switch {
		case apperrors.IsBadRequest(step.Err):
			http.Error(w, missingMsg, http.StatusBadRequest)
		case apperrors.IsDelegationFailed(step.Err):
			http.Error(w, msgDelegationFailed, http.StatusInternalServerError)
		default:
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	default:
		h.logger().ErrorContext(r.Context(), "unexpected delegation state", "state", step.State)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
	}
}

func (h *BYOAHandlers) logger() *slog.Logger {
	if h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// RetryURL links back to the login form with the same handshake values, URL-encoded.
func RetryURL(lr domainauth.LoginRequest) string {
	q := url.Values{}
	q.Set("login_request_id", lr.LoginRequestID)
	q.Set("state", lr.State)
	return "/auth/mcp-login?" + q.Encode()
}
