package service

import (
	"crypto/subtle"
	"strings"

	apperrors "github.com/target/todo-byoa/internal/errors"
)

// BearerCredentials are the x-api-key / x-user-id pair from a request.
type BearerCredentials struct {
	APIKey         string
	AssertedUserID string
}

// BearerAuthenticator validates the static service key.
//
// This is a trusted-caller mode for service-to-service traffic: once the key matches, the
// caller may act as any user id it names in x-user-id. Nothing checks that the asserted id is
// legitimate or even exists. Only hand the key to callers you trust with every account.
type BearerAuthenticator struct {
	apiKey        []byte
	defaultUserID string
}

// NewBearerAuthenticator creates an authenticator for apiKey. defaultUserID is used when the
// caller asserts no identity.
func NewBearerAuthenticator(apiKey, defaultUserID string) *BearerAuthenticator {
	if defaultUserID == "" {
		defaultUserID = "1"
	}
	return &BearerAuthenticator{apiKey: []byte(apiKey), defaultUserID: defaultUserID}
}

// Resolve returns handled=false when no key was presented; an empty header counts as absent.
// A presented key that does not match exactly fails with InvalidAPIKey.
func (b *BearerAuthenticator) Resolve(c BearerCredentials) (string, bool, error) {
	if c.APIKey == "" {
		return "", false, nil
	}
	if len(b.apiKey) == 0 || subtle.ConstantTimeCompare([]byte(c.APIKey), b.apiKey) != 1 {
		return "", true, apperrors.InvalidAPIKey()
	}
	if asserted := strings.TrimSpace(c.AssertedUserID); asserted != "" {
		return asserted, true, nil
	}
	return b.defaultUserID, true, nil
}
