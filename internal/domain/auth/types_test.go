package auth

import (
	"testing"
	"time"
)

func TestSession_Expired(t *testing.T) {
	now := time.Now()
	s := Session{ID: "s", UserID: "1", ExpiresAt: now.Add(time.Minute)}
	if s.Expired(now) {
		t.Fatalf("did not expect expired")
	}
	if !s.Expired(now.Add(time.Minute)) {
		t.Fatalf("expected expired at the boundary")
	}
}

func TestLoginRequest_Complete(t *testing.T) {
	cases := []struct {
		in   LoginRequest
		want bool
	}{
		{LoginRequest{LoginRequestID: "lr", State: "st"}, true},
		{LoginRequest{LoginRequestID: "lr"}, false},
		{LoginRequest{State: "st"}, false},
		{LoginRequest{}, false},
	}
	for _, c := range cases {
		if got := c.in.Complete(); got != c.want {
			t.Fatalf("Complete(%+v) = %v, want %v", c.in, got, c.want)
		}
	}
}
