package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/roadassist/roadassist/pkg/apperr"
	"github.com/roadassist/roadassist/pkg/auth"
	"github.com/roadassist/roadassist/pkg/session"
)

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID uint
	Role   string
}

type identityKey struct{}

// Authenticate resolves the caller from the session cookie or, for
// non-browser clients, from a Bearer token. Requests without a valid
// identity are rejected with 401.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := resolveIdentity(r); ok {
			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
			return
		}
		apperr.Respond(w, r, 0, apperr.ErrUnauthenticated)
	})
}

func resolveIdentity(r *http.Request) (Identity, bool) {
	if sess := session.FromCtx(r); sess != nil {
		if userID, ok := sess.GetUint("user_id"); ok && userID != 0 {
			role, _ := sess.GetString("role")
			return Identity{UserID: userID, Role: role}, true
		}
	}

	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") {
		token := strings.TrimPrefix(header, "Bearer ")
		if claims, err := auth.ValidateToken(token); err == nil {
			return Identity{UserID: claims.UserID, Role: claims.Role}, true
		}
	}

	return Identity{}, false
}

// WithIdentity returns a context carrying the given identity.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromCtx returns the authenticated identity, if any.
func IdentityFromCtx(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}

// UserIDFromCtx returns the authenticated user's ID, or 0.
func UserIDFromCtx(ctx context.Context) uint {
	id, _ := IdentityFromCtx(ctx)
	return id.UserID
}

// RoleFromCtx returns the authenticated user's role, or "".
func RoleFromCtx(ctx context.Context) string {
	id, _ := IdentityFromCtx(ctx)
	return id.Role
}
