package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/target/todo-byoa/internal/domain/auth"
	apperrors "github.com/target/todo-byoa/internal/errors"
	mocks "github.com/target/todo-byoa/internal/mocks/auth"
)

const testAPIKey = "demo-api-key-12345"

type recordingObserver struct {
	mu        sync.Mutex
	decisions []string
	logins    []string
	outcomes  []string
}

func (r *recordingObserver) GatewayDecision(mode, result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.decisions = append(r.decisions, mode+":"+result)
}

func (r *recordingObserver) LoginAttempt(result string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logins = append(r.logins, result)
}

func (r *recordingObserver) DelegationOutcome(outcome string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, outcome)
}

func TestBearerAuthenticator_Resolve(t *testing.T) {
	b := NewBearerAuthenticator(testAPIKey, "1")

	tests := []struct {
		name        string
		creds       BearerCredentials
		wantUser    string
		wantHandled bool
		wantErr     bool
	}{
		{name: "no header declines", creds: BearerCredentials{}, wantHandled: false},
		{name: "default identity", creds: BearerCredentials{APIKey: testAPIKey}, wantUser: "1", wantHandled: true},
		{name: "asserted identity", creds: BearerCredentials{APIKey: testAPIKey, AssertedUserID: "2"}, wantUser: "2", wantHandled: true},
		{name: "unknown asserted identity is trusted", creds: BearerCredentials{APIKey: testAPIKey, AssertedUserID: "999"}, wantUser: "999", wantHandled: true},
		{name: "blank asserted identity", creds: BearerCredentials{APIKey: testAPIKey, AssertedUserID: "  "}, wantUser: "1", wantHandled: true},
		{name: "wrong key", creds: BearerCredentials{APIKey: "nope"}, wantHandled: true, wantErr: true},
		{name: "empty key declines", creds: BearerCredentials{APIKey: ""}, wantHandled: false},
		{name: "key prefix", creds: BearerCredentials{APIKey: testAPIKey[:5]}, wantHandled: true, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, handled, err := b.Resolve(tt.creds)
			assert.Equal(t, tt.wantHandled, handled)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, apperrors.IsInvalidAPIKey(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantUser, user)
		})
	}
}

func TestBearerAuthenticator_EmptyConfiguredKeyRejectsAll(t *testing.T) {
	b := NewBearerAuthenticator("", "")
	_, handled, err := b.Resolve(BearerCredentials{APIKey: "anything"})
	assert.True(t, handled)
	assert.True(t, apperrors.IsInvalidAPIKey(err))
}

func newGateway(t *testing.T) (*AuthGateway, *SessionAuthService, *recordingObserver) {
	t.Helper()
	svc := NewSessionAuthService(SessionAuthServiceOptions{
		Users:    mocks.NewStaticCredentialStore(),
		Sessions: mocks.NewMemorySessionStore(),
		Config:   SessionConfig{TTL: time.Hour},
	})
	obs := &recordingObserver{}
	gw := NewAuthGateway(AuthGatewayOptions{
		Bearer:   NewBearerAuthenticator(testAPIKey, "1"),
		Sessions: svc,
		Observe:  GatewayObservability{Observer: obs},
	})
	return gw, svc, obs
}

func TestAuthGateway_Precedence(t *testing.T) {
	gw, svc, obs := newGateway(t)
	ctx := context.Background()

	login, err := svc.Login(ctx, "bob", "password456")
	require.NoError(t, err)
	sid := login.Session.ID

	t.Run("api key wins over session", func(t *testing.T) {
		id, err := gw.Authenticate(ctx, Credentials{
			Bearer:    BearerCredentials{APIKey: testAPIKey},
			SessionID: sid,
		})
		require.NoError(t, err)
		assert.Equal(t, domainauth.Identity{UserID: "1", Mode: domainauth.ModeAPIKey}, id)
	})

	t.Run("wrong key never falls back to a valid session", func(t *testing.T) {
		_, err := gw.Authenticate(ctx, Credentials{
			Bearer:    BearerCredentials{APIKey: "wrong"},
			SessionID: sid,
		})
		require.Error(t, err)
		assert.True(t, apperrors.IsInvalidAPIKey(err))
	})

	t.Run("empty key falls through to session", func(t *testing.T) {
		id, err := gw.Authenticate(ctx, Credentials{
			Bearer:    BearerCredentials{APIKey: ""},
			SessionID: sid,
		})
		require.NoError(t, err)
		assert.Equal(t, domainauth.Identity{UserID: "2", Mode: domainauth.ModeSession}, id)
	})

	t.Run("session when no key", func(t *testing.T) {
		id, err := gw.Authenticate(ctx, Credentials{SessionID: sid})
		require.NoError(t, err)
		assert.Equal(t, domainauth.Identity{UserID: "2", Mode: domainauth.ModeSession}, id)
	})

	t.Run("nothing presented", func(t *testing.T) {
		_, err := gw.Authenticate(ctx, Credentials{})
		require.Error(t, err)
		assert.True(t, apperrors.IsUnauthenticated(err))
	})

	t.Run("stale session", func(t *testing.T) {
		_, err := gw.Authenticate(ctx, Credentials{SessionID: "gone"})
		assert.True(t, apperrors.IsUnauthenticated(err))
	})

	assert.Equal(t, []string{
		"api_key:accepted",
		"api_key:rejected",
		"session:accepted",
		"session:rejected",
		"session:rejected",
	}, obs.decisions)
}

func TestAuthGateway_SessionStoreFailureIsNotUnauthenticated(t *testing.T) {
	sessions := mocks.NewMemorySessionStore()
	sessions.GetFunc = func(context.Context, string) (domainauth.Session, error) {
		return domainauth.Session{}, errors.New("redis down")
	}
	svc := NewSessionAuthService(SessionAuthServiceOptions{Users: mocks.NewStaticCredentialStore(), Sessions: sessions})
	gw := NewAuthGateway(AuthGatewayOptions{Bearer: NewBearerAuthenticator(testAPIKey, "1"), Sessions: svc})

	_, err := gw.Authenticate(context.Background(), Credentials{SessionID: "sid"})
	require.Error(t, err)
	assert.False(t, apperrors.IsUnauthenticated(err))
}
