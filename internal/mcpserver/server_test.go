package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/target/todo-byoa/config"
	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	"github.com/target/todo-byoa/internal/mocks"
)

const metadataURL = "https://mcp.example.com/.well-known/oauth-protected-resource/mcp"

type bearerTransport struct {
	token string
	base  http.RoundTripper
}

func (b bearerTransport) RoundTrip(r *http.Request) (*http.Response, error) {
	r = r.Clone(r.Context())
	r.Header.Set("Authorization", "Bearer "+b.token)
	return b.base.RoundTrip(r)
}

func newMCPServer(t *testing.T, verifier *mocks.MockTokenVerifier) (*fakeTodoAPI, *httptest.Server) {
	t.Helper()
	api, apiSrv := newFakeAPI(t)
	h := Handler(Options{
		API:      NewTodoAPIClient(apiSrv.URL, testAPIKey, nil),
		Verifier: verifier,
		Config: config.MCPConfig{
			ResourceURL:         "https://mcp.example.com/mcp",
			AuthorizationServer: "https://acme.scalekit.dev",
			ResourceMetadataURL: metadataURL,
		},
	})
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	return api, srv
}

func TestHandler_RejectsMissingOrInvalidToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockTokenVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), "bad-token").Return(domainauth.AccessToken{}, errors.New("signature mismatch"))
	_, srv := newMCPServer(t, verifier)

	for _, header := range []string{"", "Basic abc", "Bearer bad-token"} {
		req, err := http.NewRequest(http.MethodPost, srv.URL+EndpointPath, nil)
		require.NoError(t, err)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()

		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, header)
		assert.Contains(t, resp.Header.Get("WWW-Authenticate"), "resource_metadata="+metadataURL)
	}
}

func TestHandler_ServesResourceMetadata(t *testing.T) {
	_, srv := newMCPServer(t, mocks.NewMockTokenVerifier(gomock.NewController(t)))

	for _, path := range []string{config.ResourceMetadataPath, config.ResourceMetadataPath + EndpointPath} {
		resp, err := http.Get(srv.URL + path)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		assert.Equal(t, "https://mcp.example.com/mcp", body["resource"])
		assert.Equal(t, []any{"https://acme.scalekit.dev"}, body["authorization_servers"])
	}
}

func TestHandler_ToolsOverStreamableHTTP(t *testing.T) {
	ctrl := gomock.NewController(t)
	verifier := mocks.NewMockTokenVerifier(ctrl)
	verifier.EXPECT().Verify(gomock.Any(), "good-token").Return(domainauth.AccessToken{
		Subject:   domainauth.Subject{Sub: "2", Email: "bob@example.com"},
		ExpiresAt: time.Now().Add(time.Hour),
	}, nil).AnyTimes()
	api, srv := newMCPServer(t, verifier)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	client := mcp.NewClient(&mcp.Implementation{Name: "client", Version: "v0.0.1"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint:   srv.URL + EndpointPath,
		HTTPClient: &http.Client{Transport: bearerTransport{token: "good-token", base: http.DefaultTransport}},
		MaxRetries: -1,
	}, nil)
	require.NoError(t, err)
	defer session.Close()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	assert.Equal(t, []string{"create_todo", "delete_todo", "list_todos", "update_todo"}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{Name: "list_todos"})
	require.NoError(t, err)
	require.False(t, res.IsError)

	raw, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	var out ListTodosResult
	require.NoError(t, json.Unmarshal(raw, &out))
	require.Len(t, out.Todos, 1)
	assert.Equal(t, "2", out.Todos[0].UserID)
	assert.Equal(t, "2", api.last().UserID)
	assert.Equal(t, testAPIKey, api.last().APIKey)

	res, err = session.CallTool(ctx, &mcp.CallToolParams{Name: "delete_todo", Arguments: map[string]any{"todo_id": "todo-9"}})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func TestHandler_RequiresDeps(t *testing.T) {
	assert.Panics(t, func() { Handler(Options{}) })
}
