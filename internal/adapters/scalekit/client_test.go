package scalekit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/target/todo-byoa/config"
	domainauth "github.com/target/todo-byoa/internal/domain/auth"
)

type fakeScalekit struct {
	tokenCalls atomic.Int32
	gotPath    string
	gotAuth    string
	gotBody    domainauth.Subject
	status     int
}

func (f *fakeScalekit) handler(t *testing.T) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		f.tokenCalls.Add(1)
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "skc_client", r.PostForm.Get("client_id"))
		assert.Equal(t, "secret", r.PostForm.Get("client_secret"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"access_token":"tok-123","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("POST /api/v1/connections/{conn}/auth-requests/{req}/user", func(w http.ResponseWriter, r *http.Request) {
		f.gotPath = r.URL.EscapedPath()
		f.gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&f.gotBody))
		if f.status != 0 {
			w.WriteHeader(f.status)
			_, _ = w.Write([]byte(`{"message":"login request expired"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{}`))
	})
	return mux
}

func testConfig(baseURL string) config.OrchestratorConfig {
	return config.OrchestratorConfig{
		EnvironmentURL: baseURL,
		ClientID:       "skc_client",
		ClientSecret:   "secret",
		ConnectionID:   "conn_1",
		HTTPTimeout:    5 * time.Second,
	}
}

func TestClient_AcceptSubject(t *testing.T) {
	fake := &fakeScalekit{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c, err := NewClient(ClientOptions{Config: testConfig(srv.URL)})
	require.NoError(t, err)

	sub := domainauth.Subject{Sub: "1", Email: "alice@example.com"}
	require.NoError(t, c.AcceptSubject(context.Background(), "conn_1", "lr_abc", sub))

	assert.Equal(t, "/api/v1/connections/conn_1/auth-requests/lr_abc/user", fake.gotPath)
	assert.Equal(t, "Bearer tok-123", fake.gotAuth)
	assert.Equal(t, sub, fake.gotBody)

	require.NoError(t, c.AcceptSubject(context.Background(), "conn_1", "lr_def", sub))
	assert.Equal(t, int32(1), fake.tokenCalls.Load(), "token should be cached between calls")
}

func TestClient_AcceptSubjectEscapesPath(t *testing.T) {
	fake := &fakeScalekit{}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c, err := NewClient(ClientOptions{Config: testConfig(srv.URL)})
	require.NoError(t, err)

	require.NoError(t, c.AcceptSubject(context.Background(), "conn_1", "lr a", domainauth.Subject{Sub: "2"}))
	assert.Equal(t, "/api/v1/connections/conn_1/auth-requests/lr%20a/user", fake.gotPath)
}

func TestClient_AcceptSubjectNon2xx(t *testing.T) {
	fake := &fakeScalekit{status: http.StatusBadRequest}
	srv := httptest.NewServer(fake.handler(t))
	defer srv.Close()

	c, err := NewClient(ClientOptions{Config: testConfig(srv.URL)})
	require.NoError(t, err)

	err = c.AcceptSubject(context.Background(), "conn_1", "lr_abc", domainauth.Subject{Sub: "1"})
	require.Error(t, err)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.StatusCode)
	assert.Contains(t, apiErr.Error(), "login request expired")
}

func TestClient_TokenFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, `{"error":"invalid_client"}`, http.StatusUnauthorized)
	}))
	defer srv.Close()

	c, err := NewClient(ClientOptions{Config: testConfig(srv.URL)})
	require.NoError(t, err)

	err = c.AcceptSubject(context.Background(), "conn_1", "lr_abc", domainauth.Subject{Sub: "1"})
	require.Error(t, err)
}

func TestCallbackURL(t *testing.T) {
	got := CallbackURL("https://acme.scalekit.dev/", "conn_1", "s t&a=te")
	assert.Equal(t, "https://acme.scalekit.dev/sso/v1/connections/conn_1/partner:callback?state=s+t%26a%3Dte", got)

	u, err := url.Parse(got)
	require.NoError(t, err)
	assert.Equal(t, "s t&a=te", u.Query().Get("state"))
}

func TestNewOrchestrator_Unconfigured(t *testing.T) {
	cfg := config.OrchestratorConfig{EnvironmentURL: "https://acme.scalekit.dev"}

	_, err := NewClient(ClientOptions{Config: cfg})
	require.Error(t, err)

	o := NewOrchestrator(ClientOptions{Config: cfg})
	u, ok := o.(Unconfigured)
	require.True(t, ok)

	err = u.AcceptSubject(context.Background(), "c", "l", domainauth.Subject{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SCALEKIT_CLIENT_ID")
	assert.Contains(t, err.Error(), "SCALEKIT_CONNECTION_ID")
	assert.Equal(t, "https://acme.scalekit.dev/sso/v1/connections/c/partner:callback?state=x", u.CallbackURL("c", "x"))
}
