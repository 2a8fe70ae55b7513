package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/logger"
)

// Recover converts panics into 500 responses instead of dropping the
// connection.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				logger.WithCtx(r.Context()).Error("panic recovered",
					"error", fmt.Sprint(rec),
					"stack", string(debug.Stack()),
				)
				apperr.Respond(w, r, UserIDFromCtx(r.Context()), apperr.Internal(fmt.Errorf("%v", rec)))
			}
		}()
		next.ServeHTTP(w, r)
	})
}
