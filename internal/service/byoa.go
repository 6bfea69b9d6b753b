package service

import (
	"context"
	"log/slog"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	apperrors "github.com/target/todo-byoa/internal/errors"
	"github.com/target/todo-byoa/internal/ports"
)

// DelegationState is a position in the bring-your-own-auth handshake.
type DelegationState string

const (
	StateStart               DelegationState = "start"
	StateAwaitingCredentials DelegationState = "awaiting_credentials"
	StateAuthenticating      DelegationState = "authenticating"
	StateNotifying           DelegationState = "notifying"
	StateCompleted           DelegationState = "completed"
	StateFailed              DelegationState = "failed"
)

// Terminal reports whether no further transition is possible.
func (s DelegationState) Terminal() bool {
	return s == StateCompleted || s == StateFailed
}

// Delegation outcomes reported to the AuthObserver.
const (
	OutcomeBadRequest         = "bad_request"
	OutcomeInvalidCredentials = "invalid_credentials"
	OutcomeDelegationFailed   = "delegation_failed"
	OutcomeCompleted          = "completed"
	OutcomeInternalError      = "internal_error"
)

// Step is the result of one transition. Handlers render it: AwaitingCredentials shows the form
// (with Err set after a failed attempt), Completed redirects to RedirectURL, Failed shows Err.
type Step struct {
	State        DelegationState
	LoginRequest domainauth.LoginRequest
	RedirectURL  string
	Err          error

	subject domainauth.Subject
}

// CallbackInput is the submitted login form.
type CallbackInput struct {
	LoginRequest domainauth.LoginRequest
	Username     string
	Password     string
}

type credentialVerifier interface {
	Verify(ctx context.Context, username, password string) (domainauth.User, error)
}

// DelegationConfig holds per-deployment settings for DelegationFlow.
type DelegationConfig struct {
	ConnectionID string
	Logger       *slog.Logger
	Observer     AuthObserver
}

// DelegationFlowOptions groups dependencies for DelegationFlow.
type DelegationFlowOptions struct {
	Verifier     credentialVerifier
	Orchestrator ports.Orchestrator
	Config       DelegationConfig
}

// DelegationFlow runs the orchestrator's delegated login. It keeps no state between requests:
// login_request_id and state travel through the browser and are forwarded unchanged.
type DelegationFlow struct {
	verifier     credentialVerifier
	orchestrator ports.Orchestrator
	connectionID string
	logger       *slog.Logger
	observer     AuthObserver
}

// NewDelegationFlow constructs a DelegationFlow.
func NewDelegationFlow(opts DelegationFlowOptions) *DelegationFlow {
	if opts.Verifier == nil || opts.Orchestrator == nil {
		panic("service: DelegationFlow requires Verifier and Orchestrator")
	}
	logger := opts.Config.Logger
	if logger == nil {
		logger = slog.Default()
	}
	observer := opts.Config.Observer
	if observer == nil {
		observer = nopObserver{}
	}
	return &DelegationFlow{
		verifier:     opts.Verifier,
		orchestrator: opts.Orchestrator,
		connectionID: opts.Config.ConnectionID,
		logger:       logger.With("component", "byoa"),
		observer:     observer,
	}
}

// Begin handles the orchestrator's redirect to the login page.
func (f *DelegationFlow) Begin(lr domainauth.LoginRequest) Step {
	if !lr.Complete() {
		f.observer.DelegationOutcome(OutcomeBadRequest)
		return failed(lr, apperrors.BadRequest("missing login_request_id or state parameter"))
	}
	return Step{State: StateAwaitingCredentials, LoginRequest: lr}
}

// Complete handles the login form submission: check credentials, tell the orchestrator who
// signed in, then hand the browser back to it.
func (f *DelegationFlow) Complete(ctx context.Context, in CallbackInput) Step {
	lr := in.LoginRequest
	if !lr.Complete() {
		f.observer.DelegationOutcome(OutcomeBadRequest)
		return failed(lr, apperrors.BadRequest("missing login_request_id or state parameter"))
	}

	step := f.authenticate(ctx, in)
	if step.State != StateNotifying {
		return step
	}
	return f.notify(ctx, step)
}

func (f *DelegationFlow) authenticate(ctx context.Context, in CallbackInput) Step {
	user, err := f.verifier.Verify(ctx, in.Username, in.Password)
	switch {
	case apperrors.IsInvalidCredentials(err):
		f.observer.DelegationOutcome(OutcomeInvalidCredentials)
		return Step{State: StateAwaitingCredentials, LoginRequest: in.LoginRequest, Err: err}
	case err != nil:
		f.observer.DelegationOutcome(OutcomeInternalError)
		f.logger.ErrorContext(ctx, "credential check failed", "error", err)
		return failed(in.LoginRequest, apperrors.Wrap(err, apperrors.ErrCodeInternal, "credential check failed"))
	}
	return Step{
		State:        StateNotifying,
		LoginRequest: in.LoginRequest,
		subject:      domainauth.Subject{Sub: user.ID, Email: user.Email},
	}
}

func (f *DelegationFlow) notify(ctx context.Context, step Step) Step {
	lr := step.LoginRequest
	if err := f.orchestrator.AcceptSubject(ctx, f.connectionID, lr.LoginRequestID, step.subject); err != nil {
		f.observer.DelegationOutcome(OutcomeDelegationFailed)
		f.logger.ErrorContext(ctx, "failed to update login user details",
			"error", err,
			"connection_id", f.connectionID,
			"login_request_id", lr.LoginRequestID,
		)
		return failed(lr, apperrors.DelegationFailed(err))
	}

	f.observer.DelegationOutcome(OutcomeCompleted)
	f.logger.InfoContext(ctx, "delegated login completed",
		"connection_id", f.connectionID,
		"login_request_id", lr.LoginRequestID,
		"sub", step.subject.Sub,
	)
	return Step{
		State:        StateCompleted,
		LoginRequest: lr,
		RedirectURL:  f.orchestrator.CallbackURL(f.connectionID, lr.State),
	}
}

func failed(lr domainauth.LoginRequest, err error) Step {
	return Step{State: StateFailed, LoginRequest: lr, Err: err}
}
