package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
)

// The wrapper must stay upgradable: websocket handshakes hijack the
// connection through it.
var (
	_ http.Hijacker = (*statusWriter)(nil)
	_ http.Flusher  = (*statusWriter)(nil)
)

func TestStatusWriterUnwrap(t *testing.T) {
	rec := httptest.NewRecorder()
	sw := &statusWriter{ResponseWriter: rec, status: http.StatusOK}
	if sw.Unwrap() != rec {
		t.Error("Unwrap should return the wrapped writer")
	}
}

func TestStatusWriterHijackWithoutSupport(t *testing.T) {
	// httptest.ResponseRecorder cannot be hijacked; the wrapper must
	// surface that as an error, not panic.
	sw := &statusWriter{ResponseWriter: httptest.NewRecorder(), status: http.StatusOK}
	if _, _, err := sw.Hijack(); err == nil {
		t.Error("expected an error when the underlying writer cannot hijack")
	}
}

func TestRoutePattern(t *testing.T) {
	rctx := chi.NewRouteContext()
	rctx.RoutePatterns = append(rctx.RoutePatterns, "/api/service-requests/{id}")

	r := httptest.NewRequest(http.MethodGet, "/api/service-requests/42", nil)
	r = r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))

	if got := routePattern(r); got != "/api/service-requests/{id}" {
		t.Errorf("routePattern = %q, want the matched pattern", got)
	}

	bare := httptest.NewRequest(http.MethodGet, "/api/service-requests/42", nil)
	if got := routePattern(bare); got != "/api/service-requests/42" {
		t.Errorf("routePattern without a route context = %q, want the raw path", got)
	}
}
