package ratelimit

import (
	"errors"
	"net/http/httptest"
	"testing"
	"time"
)

func TestLimiter_Window(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	l := New(2, time.Minute).WithClock(func() time.Time { return now })

	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("first two hits should be allowed")
	}
	if l.Allow("a") {
		t.Fatal("third hit should be refused")
	}
	if !l.Allow("b") {
		t.Fatal("other keys are counted separately")
	}

	now = now.Add(time.Minute)
	if !l.Allow("a") {
		t.Fatal("hit after the window should be allowed")
	}

	l.Reset("a")
	if !l.Allow("a") || !l.Allow("a") {
		t.Fatal("reset should restore the full allowance")
	}
}

func TestClientIP(t *testing.T) {
	tests := []struct {
		name   string
		header map[string]string
		remote string
		want   string
	}{
		{"remote addr", nil, "10.0.0.5:4321", "10.0.0.5"},
		{"remote without port", nil, "10.0.0.5", "10.0.0.5"},
		{"forwarded", map[string]string{"X-Forwarded-For": "1.2.3.4, 10.0.0.1"}, "10.0.0.1:80", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": " 5.6.7.8 "}, "10.0.0.1:80", "5.6.7.8"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest("POST", "/login", nil)
			r.RemoteAddr = tt.remote
			for k, v := range tt.header {
				r.Header.Set(k, v)
			}
			if got := ClientIP(r); got != tt.want {
				t.Errorf("ClientIP = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoginLimiter(t *testing.T) {
	ll := NewLoginLimiter(100, 2, time.Minute)
	r := httptest.NewRequest("POST", "/login", nil)

	for i := 0; i < 2; i++ {
		if err := ll.Check(r, "pat@example.org"); err != nil {
			t.Fatalf("attempt %d: %v", i+1, err)
		}
	}
	if err := ll.Check(r, "pat@example.org"); !errors.Is(err, ErrLimited) {
		t.Fatalf("third attempt err = %v, want ErrLimited", err)
	}
	if err := ll.Check(r, "sam@example.org"); err != nil {
		t.Fatalf("different account should not be limited: %v", err)
	}

	ll.Succeeded("pat@example.org")
	if err := ll.Check(r, "pat@example.org"); err != nil {
		t.Fatalf("after success: %v", err)
	}

	off := NewLoginLimiter(0, 0, time.Minute)
	for i := 0; i < 10; i++ {
		if err := off.Check(r, "pat@example.org"); err != nil {
			t.Fatalf("zero limits should disable throttling: %v", err)
		}
	}

	var none *LoginLimiter
	if err := none.Check(r, "x@example.org"); err != nil {
		t.Fatalf("nil limiter should allow: %v", err)
	}
}
