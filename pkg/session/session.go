// Package session provides cookie-based HTTP sessions backed by the cache
// store (Redis in production, memory otherwise).
//
// The cookie carries only an opaque random token; all session state lives
// server-side. Sessions expire a fixed TTL after they are established,
// independent of activity.
//
// Usage (middleware):
//
//	r.Use(session.Middleware(session.DefaultOptions()))
//
// Usage (handler):
//
//	sess := session.FromCtx(r)
//	sess.Set("user_id", 42)
//	sess.Save(w)
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"net/http"
	"time"

	"github.com/roadassist/roadassist/config"
	"github.com/roadassist/roadassist/pkg/cache"
)

// Options configures session behaviour.
type Options struct {
	CookieName string
	TTL        time.Duration
	HTTPOnly   bool
	Secure     bool
	SameSite   http.SameSite
	Path       string
}

// DefaultOptions returns the production defaults: 24h fixed TTL, HttpOnly,
// Lax same-site, Secure when running in production.
func DefaultOptions() Options {
	return Options{
		CookieName: "roadassist_session",
		TTL:        config.SessionTTL(),
		HTTPOnly:   true,
		Secure:     config.Production(),
		SameSite:   http.SameSiteLaxMode,
		Path:       "/",
	}
}

type ctxKey struct{}

// Session is an in-request session handle.
type Session struct {
	id      string
	data    map[string]interface{}
	opts    Options
	fresh   bool // true when the token was minted for this request
	changed bool
}

// newID generates a cryptographically random 32-byte hex session token.
func newID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func storeKey(id string) string { return "roadassist:session:" + id }

// load fetches session data from the store; a miss yields an empty map.
func load(id string) map[string]interface{} {
	var data map[string]interface{}
	if cache.Get(storeKey(id), &data) {
		return data
	}
	return map[string]interface{}{}
}

// Set stores a value under key in the session.
func (s *Session) Set(key string, value interface{}) {
	s.data[key] = value
	s.changed = true
}

// Get retrieves a value from the session.
func (s *Session) Get(key string) (interface{}, bool) {
	v, ok := s.data[key]
	return v, ok
}

// GetString is a typed convenience getter.
func (s *Session) GetString(key string) (string, bool) {
	v, ok := s.data[key]
	if !ok {
		return "", false
	}
	s2, ok := v.(string)
	return s2, ok
}

// GetUint is a typed convenience getter for IDs.
func (s *Session) GetUint(key string) (uint, bool) {
	v, ok := s.data[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64: // JSON numbers unmarshal as float64
		return uint(n), true
	case uint:
		return n, true
	case int:
		return uint(n), true
	}
	return 0, false
}

// Delete removes a key from the session.
func (s *Session) Delete(key string) {
	delete(s.data, key)
	s.changed = true
}

// Invalidate destroys the session server-side (logout).
func (s *Session) Invalidate() {
	s.data = map[string]interface{}{}
	s.changed = true
	_ = cache.Del(storeKey(s.id))
}

// ID returns the opaque session token.
func (s *Session) ID() string { return s.id }

// Save persists the session to the store and, for freshly minted tokens,
// writes the cookie. The store TTL and cookie MaxAge are set once at
// creation; saving an existing session does not extend its life.
func (s *Session) Save(w http.ResponseWriter) error {
	if !s.changed {
		return nil
	}

	ttl := s.opts.TTL
	if !s.fresh {
		// Keep the remaining TTL rather than resetting it. The store does
		// not expose per-key TTL through the driver interface, so we
		// re-store with the full TTL only for new sessions and leave
		// existing expiry in place by rewriting under the same key.
		ttl = s.remainingTTL()
	}

	if err := cache.Set(storeKey(s.id), s.data, ttl); err != nil {
		return fmt.Errorf("session: store save: %w", err)
	}

	if s.fresh {
		http.SetCookie(w, &http.Cookie{
			Name:     s.opts.CookieName,
			Value:    s.id,
			Path:     s.opts.Path,
			MaxAge:   int(s.opts.TTL.Seconds()),
			HttpOnly: s.opts.HTTPOnly,
			Secure:   s.opts.Secure,
			SameSite: s.opts.SameSite,
		})
		s.fresh = false
	}

	s.changed = false
	return nil
}

// remainingTTL computes how long the session has left based on the
// expires_at stamp written at creation.
func (s *Session) remainingTTL() time.Duration {
	if raw, ok := s.data["_expires_at"]; ok {
		if unix, ok := raw.(float64); ok {
			if left := time.Until(time.Unix(int64(unix), 0)); left > 0 {
				return left
			}
		}
	}
	return s.opts.TTL
}

// ─── Middleware ───────────────────────────────────────────────────────────────

// Middleware loads (or creates) the session for every request and injects it
// into the request context. Handlers call session.FromCtx(r) to access it.
func Middleware(opts Options) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess := &Session{opts: opts}

			if cookie, err := r.Cookie(opts.CookieName); err == nil && cookie.Value != "" {
				sess.id = cookie.Value
				sess.data = load(sess.id)
			} else {
				id, _ := newID()
				sess.id = id
				sess.fresh = true
				sess.data = map[string]interface{}{
					"_expires_at": float64(time.Now().Add(opts.TTL).Unix()),
				}
			}

			ctx := context.WithValue(r.Context(), ctxKey{}, sess)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// FromCtx retrieves the session from the request context.
// Returns an empty (unsaved) session if none is present.
func FromCtx(r *http.Request) *Session {
	if s, ok := r.Context().Value(ctxKey{}).(*Session); ok {
		return s
	}
	id, _ := newID()
	return &Session{id: id, fresh: true, data: map[string]interface{}{}, opts: DefaultOptions()}
}
