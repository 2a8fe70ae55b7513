// Package rbac provides role-based access middleware.
package rbac

import (
	"net/http"

	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/middleware"
)

// HasRole allows the request through only when the authenticated caller
// holds one of the given roles. Must run after middleware.Authenticate.
func HasRole(roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := middleware.RoleFromCtx(r.Context())
			for _, allowed := range roles {
				if role == allowed {
					next.ServeHTTP(w, r)
					return
				}
			}
			apperr.Respond(w, r, middleware.UserIDFromCtx(r.Context()), apperr.ErrForbidden)
		})
	}
}
