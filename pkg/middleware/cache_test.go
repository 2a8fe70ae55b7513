package middleware

import (
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/roadassist/roadassist/pkg/cache"
)

func identified(r *http.Request, userID uint) *http.Request {
	return r.WithContext(WithIdentity(r.Context(), Identity{UserID: userID, Role: "client"}))
}

func TestCacheKeyIsScopedPerUser(t *testing.T) {
	a := identified(httptest.NewRequest(http.MethodGet, "/api/service-requests?page=1", nil), 1)
	b := identified(httptest.NewRequest(http.MethodGet, "/api/service-requests?page=1", nil), 2)

	if cacheKey(a) == cacheKey(b) {
		t.Error("two users hitting the same URL must not share a cache key")
	}

	anon := httptest.NewRequest(http.MethodGet, "/api/service-requests?page=1", nil)
	if cacheKey(anon) == cacheKey(a) {
		t.Error("anonymous and identified requests must not share a cache key")
	}
}

func TestCachedResponsesNotSharedAcrossUsers(t *testing.T) {
	cache.UseStore(cache.NewMemoryStore())

	handler := CacheResponses(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Echo the caller so a leaked entry is visible in the body.
		w.Write([]byte("user:" + strconv.FormatUint(uint64(UserIDFromCtx(r.Context())), 10)))
	}))

	serve := func(userID uint) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, identified(httptest.NewRequest(http.MethodGet, "/api/service-requests", nil), userID))
		return rec
	}

	if got := serve(1).Body.String(); got != "user:1" {
		t.Fatalf("first response = %q", got)
	}
	if rec := serve(2); rec.Body.String() != "user:2" {
		t.Errorf("second user received %q, want their own response", rec.Body.String())
	}
	if rec := serve(1); rec.Header().Get("X-Cache") != "HIT" || rec.Body.String() != "user:1" {
		t.Errorf("repeat request should hit the caller's own entry, got %q (%s)",
			rec.Body.String(), rec.Header().Get("X-Cache"))
	}
}

func TestInvalidateCacheClearsEveryUser(t *testing.T) {
	cache.UseStore(cache.NewMemoryStore())

	hits := 0
	handler := CacheResponses(time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.Write([]byte("ok"))
	}))

	for _, id := range []uint{1, 2} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, identified(httptest.NewRequest(http.MethodGet, "/api/service-requests", nil), id))
	}
	if hits != 2 {
		t.Fatalf("expected 2 origin hits, got %d", hits)
	}

	InvalidateCache("/api/service-requests*")

	for _, id := range []uint{1, 2} {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, identified(httptest.NewRequest(http.MethodGet, "/api/service-requests", nil), id))
	}
	if hits != 4 {
		t.Errorf("invalidation should evict both users' entries, origin hits = %d", hits)
	}
}
