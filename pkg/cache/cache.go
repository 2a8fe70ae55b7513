// Package cache provides the process-wide key/value store used for sessions
// and response caching.
//
// Two drivers are available:
//   - "redis"  — shared across instances, used when REDIS_ADDR is reachable
//   - "memory" — in-process fallback, also used by tests
//
// The memory driver is constructed explicitly and injected via UseStore, so
// there is no ambient global map hiding behind the API.
package cache

import "time"

// Store is the driver interface. Values are JSON-serialised by the driver.
type Store interface {
	// Get unmarshals the value at key into dest.
	// Returns true on a hit, false on miss or error.
	Get(key string, dest interface{}) bool

	// Set stores value under key for the given TTL.
	Set(key string, value interface{}, ttl time.Duration) error

	// Del removes the given keys.
	Del(keys ...string) error

	// DelPattern removes every key matching a glob-style pattern
	// (trailing '*' wildcard, e.g. "cache:/api/service-requests*").
	DelPattern(pattern string) error
}

var store Store = NewMemoryStore()

// Connect tries to initialise the Redis driver. On failure the current store
// (memory by default) stays active; callers may log the returned error and
// continue — caching degrades, it never aborts the process.
func Connect() error {
	rs, err := newRedisStore()
	if err != nil {
		return err
	}
	store = rs
	return nil
}

// UseStore swaps the active driver. Used at boot and by tests.
func UseStore(s Store) {
	if s != nil {
		store = s
	}
}

// Get retrieves a cached value by key and unmarshals into dest.
func Get(key string, dest interface{}) bool {
	return store.Get(key, dest)
}

// Set stores value under key for the given TTL.
func Set(key string, value interface{}, ttl time.Duration) error {
	return store.Set(key, value, ttl)
}

// Del removes one or more keys.
func Del(keys ...string) error {
	return store.Del(keys...)
}

// DelPattern removes every key matching pattern.
func DelPattern(pattern string) error {
	return store.DelPattern(pattern)
}

// Forget is an alias for Del.
func Forget(key string) error {
	return Del(key)
}
