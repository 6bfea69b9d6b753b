package httpx

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"net/http"
	"strings"
	"time"
)

// SessionCookieName is the cookie that carries the signed session id.
const SessionCookieName = "session_id"

// SessionCookies writes and reads the session cookie. The value is "<id>.<sig>" where sig is an
// HMAC-SHA256 of the id under Secret, so a forged or truncated cookie never reaches the store.
type SessionCookies struct {
	Secret []byte
	Domain string
	Now    func() time.Time // optional
}

func (c SessionCookies) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c SessionCookies) sign(id string) string {
	mac := hmac.New(sha256.New, c.Secret)
	mac.Write([]byte(id))
	return base64.RawURLEncoding.EncodeToString(mac.Sum(nil))
}

// Encode returns the signed cookie value for a session id.
func (c SessionCookies) Encode(id string) string {
	return id + "." + c.sign(id)
}

// Decode verifies a cookie value and returns the session id. ok is false for unsigned or
// tampered values.
func (c SessionCookies) Decode(value string) (string, bool) {
	i := strings.LastIndexByte(value, '.')
	if i <= 0 || i == len(value)-1 {
		return "", false
	}
	id, sig := value[:i], value[i+1:]
	if !hmac.Equal([]byte(sig), []byte(c.sign(id))) {
		return "", false
	}
	return id, true
}

// SessionID returns the verified session id from the request, or "".
func (c SessionCookies) SessionID(r *http.Request) string {
	ck, err := r.Cookie(SessionCookieName)
	if err != nil {
		return ""
	}
	id, ok := c.Decode(ck.Value)
	if !ok {
		return ""
	}
	return id
}

// Set writes the session cookie with a lifetime ending at expiresAt.
func (c SessionCookies) Set(w http.ResponseWriter, r *http.Request, id string, expiresAt time.Time) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    c.Encode(id),
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(expiresAt.Sub(c.now()).Seconds()),
	})
}

// Clear expires the session cookie on the client. Attributes mirror Set so browsers match it.
func (c SessionCookies) Clear(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   c.Domain,
		HttpOnly: true,
		Secure:   isSecureRequest(r),
		MaxAge:   -1,
		Expires:  time.Unix(0, 0).UTC(),
		SameSite: http.SameSiteLaxMode,
	})
}

func isSecureRequest(r *http.Request) bool {
	return r.TLS != nil || strings.EqualFold(r.Header.Get("X-Forwarded-Proto"), "https")
}
