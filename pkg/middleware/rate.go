package middleware

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/roadassist/roadassist/pkg/apperr"
)

type rateBucket struct {
	count        int
	windowStart  time.Time
	blockedUntil time.Time
}

// RateLimiter tracks request counts per client IP over a fixed window.
// A client exceeding points within the window is blocked for the block
// duration and answered with 429 plus a Retry-After header.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*rateBucket

	points int
	window time.Duration
	block  time.Duration
}

// NewRateLimiter builds a limiter allowing points requests per window.
func NewRateLimiter(points int, window, block time.Duration) *RateLimiter {
	rl := &RateLimiter{
		buckets: make(map[string]*rateBucket),
		points:  points,
		window:  window,
		block:   block,
	}
	go rl.evict()
	return rl
}

// Middleware enforces the limit for every request passing through it.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if retryAfter, limited := rl.take(clientIP(r)); limited {
			w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
			apperr.Respond(w, r, UserIDFromCtx(r.Context()), apperr.ErrRateLimited)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// take records a hit for key and reports whether the request must be
// rejected, together with the remaining block time.
func (rl *RateLimiter) take(key string) (time.Duration, bool) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.buckets[key]
	if !ok {
		b = &rateBucket{windowStart: now}
		rl.buckets[key] = b
	}

	if now.Before(b.blockedUntil) {
		return b.blockedUntil.Sub(now), true
	}

	if now.Sub(b.windowStart) >= rl.window {
		b.windowStart = now
		b.count = 0
	}

	b.count++
	if b.count > rl.points {
		b.blockedUntil = now.Add(rl.block)
		return rl.block, true
	}
	return 0, false
}

// evict drops buckets whose window and block have both expired.
func (rl *RateLimiter) evict() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		rl.mu.Lock()
		for key, b := range rl.buckets {
			if now.Sub(b.windowStart) >= rl.window && now.After(b.blockedUntil) {
				delete(rl.buckets, key)
			}
		}
		rl.mu.Unlock()
	}
}

func clientIP(r *http.Request) string {
	if fwd := r.Header.Get("X-Forwarded-For"); fwd != "" {
		if idx := len(fwd); idx > 0 {
			for i := 0; i < len(fwd); i++ {
				if fwd[i] == ',' {
					return fwd[:i]
				}
			}
			return fwd
		}
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
