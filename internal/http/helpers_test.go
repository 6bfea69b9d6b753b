package httpx

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"

	todobyoa "github.com/target/todo-byoa"
	"github.com/target/todo-byoa/internal/adapters/memory"
	"github.com/target/todo-byoa/internal/domain/model"
	authmocks "github.com/target/todo-byoa/internal/mocks/auth"
	"github.com/target/todo-byoa/internal/service"
)

const (
	testAPIKey       = "demo-api-key-12345"
	testConnectionID = "conn_test"
)

type testEnv struct {
	handler  http.Handler
	orch     *authmocks.FakeOrchestrator
	sessions *authmocks.MemorySessionStore
	cookies  SessionCookies
}

func newTestPages(t *testing.T) *PageRenderer {
	t.Helper()
	sub, err := fs.Sub(todobyoa.TemplateFS, "frontend/templates")
	require.NoError(t, err)
	pages, err := NewPageRenderer(sub, nil)
	require.NoError(t, err)
	return pages
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	sessions := authmocks.NewMemorySessionStore()
	auth := service.NewSessionAuthService(service.SessionAuthServiceOptions{
		Users:    authmocks.NewStaticCredentialStore(),
		Sessions: sessions,
	})
	orch := authmocks.NewFakeOrchestrator()
	cookies := SessionCookies{Secret: []byte("test-secret")}

	h := NewRouter(RouterServices{
		Auth: auth,
		Gateway: service.NewAuthGateway(service.AuthGatewayOptions{
			Bearer:   service.NewBearerAuthenticator(testAPIKey, "1"),
			Sessions: auth,
		}),
		Delegation: service.NewDelegationFlow(service.DelegationFlowOptions{
			Verifier:     auth,
			Orchestrator: orch,
			Config:       service.DelegationConfig{ConnectionID: testConnectionID},
		}),
		Todos: service.NewTodoService(service.TodoServiceOptions{
			Repo: memory.NewTodoStore(
				model.Todo{ID: "todo-1", Title: "Review Q4 report", UserID: "1"},
				model.Todo{ID: "todo-2", Title: "Update deployment docs", UserID: "1"},
				model.Todo{ID: "todo-3", Title: "Fix login bug", Completed: true, UserID: "2"},
			),
		}),
		Pages:     newTestPages(t),
		Cookies:   cookies,
		LoginHint: DemoLoginHint,
	})
	return &testEnv{handler: h, orch: orch, sessions: sessions, cookies: cookies}
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.handler.ServeHTTP(rec, req)
	return rec
}

// loginCookie logs in through the API and returns the session cookie.
func (e *testEnv) loginCookie(t *testing.T, username, password string) *http.Cookie {
	t.Helper()
	body := `{"username":"` + username + `","password":"` + password + `"}`
	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := e.do(req)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	for _, c := range rec.Result().Cookies() {
		if c.Name == SessionCookieName {
			return c
		}
	}
	t.Fatal("no session cookie set")
	return nil
}

// findElement returns the first element for which match returns true.
func findElement(n *html.Node, match func(*html.Node) bool) *html.Node {
	if n.Type == html.ElementNode && match(n) {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findElement(c, match); found != nil {
			return found
		}
	}
	return nil
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func parseHTML(t *testing.T, body string) *html.Node {
	t.Helper()
	doc, err := html.Parse(strings.NewReader(body))
	require.NoError(t, err)
	return doc
}

func hiddenInput(doc *html.Node, name string) (string, bool) {
	n := findElement(doc, func(n *html.Node) bool {
		return n.Data == "input" && attr(n, "type") == "hidden" && attr(n, "name") == name
	})
	if n == nil {
		return "", false
	}
	return attr(n, "value"), true
}
