package cache

import (
	"encoding/json"
	"strings"
	"sync"
	"time"
)

// memoryStore is the in-process driver. Entries hold JSON bytes so Get/Set
// behave identically to the Redis driver (a value round-trips through
// marshalling either way).
type memoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
}

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// NewMemoryStore returns an empty in-process store. A janitor goroutine
// evicts expired entries once a minute so long-running processes do not
// accumulate dead keys.
func NewMemoryStore() Store {
	s := &memoryStore{entries: make(map[string]memoryEntry)}
	go s.janitor()
	return s
}

func (s *memoryStore) janitor() {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()
	for range ticker.C {
		now := time.Now()
		s.mu.Lock()
		for k, e := range s.entries {
			if !e.expiresAt.IsZero() && now.After(e.expiresAt) {
				delete(s.entries, k)
			}
		}
		s.mu.Unlock()
	}
}

func (s *memoryStore) Get(key string, dest interface{}) bool {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok {
		return false
	}
	if !e.expiresAt.IsZero() && time.Now().After(e.expiresAt) {
		s.mu.Lock()
		delete(s.entries, key)
		s.mu.Unlock()
		return false
	}

	return json.Unmarshal(e.data, dest) == nil
}

func (s *memoryStore) Set(key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}

	var expires time.Time
	if ttl > 0 {
		expires = time.Now().Add(ttl)
	}

	s.mu.Lock()
	s.entries[key] = memoryEntry{data: data, expiresAt: expires}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) Del(keys ...string) error {
	s.mu.Lock()
	for _, k := range keys {
		delete(s.entries, k)
	}
	s.mu.Unlock()
	return nil
}

func (s *memoryStore) DelPattern(pattern string) error {
	prefix, wildcard := strings.CutSuffix(pattern, "*")

	s.mu.Lock()
	for k := range s.entries {
		if wildcard {
			if strings.HasPrefix(k, prefix) {
				delete(s.entries, k)
			}
		} else if k == pattern {
			delete(s.entries, k)
		}
	}
	s.mu.Unlock()
	return nil
}
