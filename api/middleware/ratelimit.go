// ABOUTME: Rate limiting middleware for API endpoints
// ABOUTME: Per-client token buckets from golang.org/x/time/rate, switchable by feature flag

package middleware

import (
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"ai-search-api/pkg/featureflags"
)

// RateLimiter holds one token bucket per client key
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*client
	limit   int
	window  time.Duration
	every   rate.Limit

	// trustedProxies is the number of reverse proxies in front of the server
	// whose X-Forwarded-For entries are believed
	trustedProxies int

	stop     chan struct{}
	stopOnce sync.Once
}

type client struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Option configures a RateLimiter
type Option func(*RateLimiter)

// WithTrustedProxies trusts forwarding headers set by n proxies. With zero,
// the default, clients are keyed by the connection address only.
func WithTrustedProxies(n int) Option {
	return func(rl *RateLimiter) {
		if n > 0 {
			rl.trustedProxies = n
		}
	}
}

// NewRateLimiter allows limit requests per window per client, refilled smoothly
func NewRateLimiter(limit int, window time.Duration, opts ...Option) *RateLimiter {
	rl := &RateLimiter{
		clients: make(map[string]*client),
		limit:   limit,
		window:  window,
		every:   rate.Limit(float64(limit) / window.Seconds()),
		stop:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(rl)
	}

	// Start cleanup goroutine
	go rl.cleanup()

	return rl
}

// cleanup drops buckets idle for longer than a window; they would be full again anyway
func (rl *RateLimiter) cleanup() {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.mu.Lock()
			now := time.Now()
			for key, c := range rl.clients {
				if now.Sub(c.lastSeen) > rl.window {
					delete(rl.clients, key)
				}
			}
			rl.mu.Unlock()
		case <-rl.stop:
			return
		}
	}
}

// Close stops the cleanup goroutine
func (rl *RateLimiter) Close() error {
	rl.stopOnce.Do(func() { close(rl.stop) })
	return nil
}

// Allow checks if a request from the given key is allowed
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	c, exists := rl.clients[key]
	if !exists {
		c = &client{limiter: rate.NewLimiter(rl.every, rl.limit)}
		rl.clients[key] = c
	}
	c.lastSeen = time.Now()
	rl.mu.Unlock()

	return c.limiter.Allow()
}

// extractIP gets the client IP from the request. Forwarding headers are
// read only behind trustedProxies proxies; each one appends the address it
// saw, so the client is the entry trustedProxies places from the right.
func extractIP(r *http.Request, trustedProxies int) string {
	if trustedProxies > 0 {
		if ip := forwardedFor(r.Header.Values("X-Forwarded-For"), trustedProxies); ip != "" {
			return ip
		}
		if xri := strings.TrimSpace(r.Header.Get("X-Real-IP")); xri != "" {
			return xri
		}
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

// forwardedFor picks the client entry from every X-Forwarded-For header.
// A chain shorter than the proxy count yields its leftmost entry.
func forwardedFor(headers []string, trustedProxies int) string {
	var entries []string
	for _, h := range headers {
		for _, part := range strings.Split(h, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				entries = append(entries, ip)
			}
		}
	}
	if len(entries) == 0 {
		return ""
	}

	i := len(entries) - trustedProxies
	if i < 0 {
		i = 0
	}
	return entries[i]
}

// RateLimitMiddleware enforces limiter per client IP while the rate limit flag is on.
// A nil flags manager leaves the limiter always on.
func RateLimitMiddleware(limiter *RateLimiter, flags featureflags.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if flags != nil && !flags.IsEnabled(r.Context(), featureflags.RateLimitEnabled) {
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.limit))
			w.Header().Set("X-RateLimit-Window", limiter.window.String())

			if !limiter.Allow(extractIP(r, limiter.trustedProxies)) {
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", strconv.Itoa(retryAfterSeconds(limiter)))
				w.WriteHeader(http.StatusTooManyRequests)
				_, _ = w.Write([]byte(`{"error":"Too many requests","message":"Rate limit exceeded. Please try again later."}`))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// retryAfterSeconds is the time to earn one token, rounded up
func retryAfterSeconds(limiter *RateLimiter) int {
	if limiter.every <= 0 {
		return int(limiter.window.Seconds())
	}
	secs := int(1/float64(limiter.every) + 0.999)
	if secs < 1 {
		secs = 1
	}
	return secs
}
