package cache

import (
	"testing"
	"time"
)

func TestMemoryStoreSetGet(t *testing.T) {
	s := NewMemoryStore()

	if err := s.Set("k", map[string]int{"a": 1}, time.Minute); err != nil {
		t.Fatalf("Set: %v", err)
	}

	var out map[string]int
	if !s.Get("k", &out) {
		t.Fatal("expected hit")
	}
	if out["a"] != 1 {
		t.Errorf("got %v", out)
	}

	var miss string
	if s.Get("absent", &miss) {
		t.Error("expected miss for absent key")
	}
}

func TestMemoryStoreExpiry(t *testing.T) {
	s := NewMemoryStore()
	if err := s.Set("short", "v", 10*time.Millisecond); err != nil {
		t.Fatal(err)
	}
	time.Sleep(30 * time.Millisecond)

	var out string
	if s.Get("short", &out) {
		t.Error("expected expired entry to miss")
	}
}

func TestMemoryStoreDelPattern(t *testing.T) {
	s := NewMemoryStore()
	keys := []string{
		"cache:/api/service-requests?page=1",
		"cache:/api/service-requests/9",
		"cache:/api/mechanics/available",
	}
	for _, k := range keys {
		if err := s.Set(k, "v", time.Minute); err != nil {
			t.Fatal(err)
		}
	}

	if err := s.DelPattern("cache:/api/service-requests*"); err != nil {
		t.Fatalf("DelPattern: %v", err)
	}

	var out string
	if s.Get(keys[0], &out) || s.Get(keys[1], &out) {
		t.Error("service-requests entries should be gone")
	}
	if !s.Get(keys[2], &out) {
		t.Error("mechanics entry should survive")
	}
}

func TestMemoryStoreDel(t *testing.T) {
	s := NewMemoryStore()
	_ = s.Set("a", 1, time.Minute)
	_ = s.Set("b", 2, time.Minute)

	if err := s.Del("a", "b"); err != nil {
		t.Fatal(err)
	}
	var out int
	if s.Get("a", &out) || s.Get("b", &out) {
		t.Error("deleted keys should miss")
	}
}
