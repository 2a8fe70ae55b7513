package middleware

import (
	"bytes"
	"net/http"
	"strconv"
	"time"

	"github.com/roadassist/roadassist/pkg/cache"
	"github.com/roadassist/roadassist/pkg/metrics"
)

const cachePrefix = "cache:"

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

type captureWriter struct {
	http.ResponseWriter
	status int
	buf    bytes.Buffer
}

func (cw *captureWriter) WriteHeader(status int) {
	cw.status = status
	cw.ResponseWriter.WriteHeader(status)
}

func (cw *captureWriter) Write(p []byte) (int, error) {
	cw.buf.Write(p)
	return cw.ResponseWriter.Write(p)
}

// CacheResponses memoizes successful GET responses for ttl, keyed by the
// full request URI (path plus query string) plus the caller's identity.
// Responses behind authentication are role- and owner-filtered, so entries
// are never shared across users. Mutating requests pass through; writes
// invalidate via InvalidateCache.
func CacheResponses(ttl time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodGet {
				next.ServeHTTP(w, r)
				return
			}

			key := cacheKey(r)

			var hit cachedResponse
			if cache.Get(key, &hit) {
				metrics.CacheHit()
				w.Header().Set("Content-Type", hit.ContentType)
				w.Header().Set("X-Cache", "HIT")
				w.WriteHeader(hit.Status)
				w.Write(hit.Body)
				return
			}
			metrics.CacheMiss()

			cw := &captureWriter{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(cw, r)

			if cw.status == http.StatusOK {
				_ = cache.Set(key, cachedResponse{
					Status:      cw.status,
					ContentType: cw.Header().Get("Content-Type"),
					Body:        cw.buf.Bytes(),
				}, ttl)
			}
		})
	}
}

// cacheKey derives the store key: URI first so InvalidateCache patterns
// keep matching, then the authenticated user id.
func cacheKey(r *http.Request) string {
	key := cachePrefix + r.URL.RequestURI()
	if id := UserIDFromCtx(r.Context()); id != 0 {
		key += ":u" + strconv.FormatUint(uint64(id), 10)
	}
	return key
}

// InvalidateCache removes every cached response whose URI matches the
// given pattern, e.g. "/api/service-requests*". Patterns cover every
// user's entry for the URI.
func InvalidateCache(pattern string) {
	_ = cache.DelPattern(cachePrefix + pattern)
}
