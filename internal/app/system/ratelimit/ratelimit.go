// internal/app/system/ratelimit/ratelimit.go

// Package ratelimit provides a fixed-window request limiter used to
// protect the register and login endpoints. It is safe for concurrent use.
package ratelimit

import (
	"net"
	"net/http"
	"strings"
	"sync"
	"time"
)

// Limiter counts requests per key within a rolling window.
type Limiter struct {
	mu       sync.Mutex
	windows  map[string]*window
	limit    int
	duration time.Duration
}

type window struct {
	count     int
	expiresAt time.Time
}

// New creates a limiter allowing limit requests per key per duration.
// A background goroutine evicts expired windows.
func New(limit int, duration time.Duration) *Limiter {
	l := &Limiter{
		windows:  make(map[string]*window),
		limit:    limit,
		duration: duration,
	}
	go l.cleanupLoop(duration * 2)
	return l
}

// Allow reports whether a request from key should proceed.
func (l *Limiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	w, ok := l.windows[key]
	if !ok || now.After(w.expiresAt) {
		l.windows[key] = &window{count: 1, expiresAt: now.Add(l.duration)}
		return true
	}
	if w.count >= l.limit {
		return false
	}
	w.count++
	return true
}

// Reset clears the window for key, e.g. after a successful login.
func (l *Limiter) Reset(key string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	delete(l.windows, key)
}

func (l *Limiter) cleanupLoop(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()

	for range ticker.C {
		l.mu.Lock()
		now := time.Now()
		for key, w := range l.windows {
			if now.After(w.expiresAt) {
				delete(l.windows, key)
			}
		}
		l.mu.Unlock()
	}
}

// ClientIP extracts the originating client IP, honoring X-Forwarded-For
// and X-Real-IP for proxied requests before falling back to RemoteAddr.
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		if ip := strings.TrimSpace(strings.Split(xff, ",")[0]); ip != "" {
			return ip
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// LoginLimiter throttles login attempts per IP and per email so that
// neither a single source nor a single targeted account can be hammered.
type LoginLimiter struct {
	ip    *Limiter
	email *Limiter
}

// NewLoginLimiter creates a login limiter with the given per-IP and
// per-email budgets.
func NewLoginLimiter(ipLimit int, ipWindow time.Duration, emailLimit int, emailWindow time.Duration) *LoginLimiter {
	return &LoginLimiter{
		ip:    New(ipLimit, ipWindow),
		email: New(emailLimit, emailWindow),
	}
}

// Check reports whether a login attempt should be allowed, with a
// caller-safe reason when it is not.
func (ll *LoginLimiter) Check(r *http.Request, email string) (bool, string) {
	if !ll.ip.Allow(ClientIP(r)) {
		return false, "Too many attempts. Please wait a minute before trying again."
	}
	if email != "" && !ll.email.Allow(strings.ToLower(strings.TrimSpace(email))) {
		return false, "Too many attempts for this account. Please wait a few minutes."
	}
	return true, ""
}

// ResetEmail clears the per-email window after a successful login.
func (ll *LoginLimiter) ResetEmail(email string) {
	if email != "" {
		ll.email.Reset(strings.ToLower(strings.TrimSpace(email)))
	}
}
