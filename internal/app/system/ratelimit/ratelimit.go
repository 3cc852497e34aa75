// internal/app/system/ratelimit/ratelimit.go
package ratelimit

import (
	"errors"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// ErrLimited is returned by LoginLimiter.Check when an attempt is refused.
var ErrLimited = errors.New("too many login attempts")

// Limiter counts hits per key in fixed windows. Safe for concurrent use.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]window
	limit    int
	duration time.Duration
	sweepAt  time.Time

	now func() time.Time
}

type window struct {
	count     int
	expiresAt time.Time
}

// New returns a limiter allowing limit hits per key in each duration.
func New(limit int, duration time.Duration) *Limiter {
	return &Limiter{
		windows:  make(map[string]window),
		limit:    limit,
		duration: duration,
		now:      time.Now,
	}
}

// WithClock replaces the time source. Used by tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.now = now
	return l
}

// Allow records a hit for key and reports whether it is within the limit.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	l.sweep(now)

	w, ok := l.windows[key]
	if !ok || !now.Before(w.expiresAt) {
		l.windows[key] = window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	l.windows[key] = w
	return true
}

// Reset forgets key.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	delete(l.windows, key)
	l.mu.Unlock()
}

// sweep drops expired windows at most once per duration. Caller holds mu.
func (l *Limiter) sweep(now time.Time) {
	if now.Before(l.sweepAt) {
		return
	}
	for k, w := range l.windows {
		if !now.Before(w.expiresAt) {
			delete(l.windows, k)
		}
	}
	l.sweepAt = now.Add(l.duration)
}

// ClientIP returns the first X-Forwarded-For hop, then X-Real-IP, then the
// host part of RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}
	if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
		return xri
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles sign-in attempts per client address and per email.
type LoginLimiter struct {
	byIP    *Limiter
	byEmail *Limiter
}

// NewLoginLimiter allows ipLimit attempts per address and emailLimit attempts
// per account within window. A limit of zero or less turns that bucket off.
func NewLoginLimiter(ipLimit, emailLimit int, window time.Duration) *LoginLimiter {
	ll := &LoginLimiter{}
	if ipLimit > 0 {
		ll.byIP = New(ipLimit, window)
	}
	if emailLimit > 0 {
		ll.byEmail = New(emailLimit, window)
	}
	return ll
}

// Check counts an attempt for r and email (already normalized) and returns
// ErrLimited if either bucket is exhausted. A nil LoginLimiter allows everything.
func (ll *LoginLimiter) Check(r *http.Request, email string) error {
	if ll == nil {
		return nil
	}
	if ll.byIP != nil && !ll.byIP.Allow(ClientIP(r)) {
		return ErrLimited
	}
	if ll.byEmail != nil && email != "" && !ll.byEmail.Allow(email) {
		return ErrLimited
	}
	return nil
}

// Succeeded clears the per-account counter after a good sign-in.
func (ll *LoginLimiter) Succeeded(email string) {
	if ll == nil || ll.byEmail == nil || email == "" {
		return
	}
	ll.byEmail.Reset(email)
}
