// Package mocks holds gomock doubles for the ports interfaces.
//
// Regenerate after interface changes:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	orch := mocks.NewMockOrchestrator(ctrl)
//	orch.EXPECT().AcceptSubject(gomock.Any(), "conn_1", "lr_1", gomock.Any()).Return(nil)
package mocks

// Orchestrator: AcceptSubject, CallbackURL
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=orchestrator_mock.go github.com/target/todo-byoa/internal/ports Orchestrator

// TodoRepository: ListByOwner, Create, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=todo_repository_mock.go github.com/target/todo-byoa/internal/ports TodoRepository

// TokenVerifier: Verify
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=token_verifier_mock.go github.com/target/todo-byoa/internal/ports TokenVerifier
