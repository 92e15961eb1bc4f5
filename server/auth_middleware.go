package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/storegate/auth-server/auth"
	"github.com/storegate/auth-server/scopes"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

// ContextKeyCurrentUser stores the request's authorized session context
const ContextKeyCurrentUser ContextKey = "current_user"

// WithCurrentUser returns a context carrying the request's session.
func WithCurrentUser(ctx context.Context, current *auth.CurrentUser) context.Context {
	return context.WithValue(ctx, ContextKeyCurrentUser, current)
}

// CurrentUserFrom reads the session context attached by RequireAuth.
// ok is false for anonymous callers on optionally-gated routes.
func CurrentUserFrom(ctx context.Context) (*auth.CurrentUser, bool) {
	current, ok := ctx.Value(ContextKeyCurrentUser).(*auth.CurrentUser)
	return current, ok && current != nil
}

// RequireAuth gates a route with the given configuration and its declared
// scope set. On success the current session (if any) is attached to the
// request context; downstream handlers read it via CurrentUserFrom and an
// absent session means an anonymous caller passed an optional gate.
func (s *Server) RequireAuth(gate *auth.Gate, required ...scopes.Scope) func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			current, err := gate.Authorize(r.Context(), bearerToken(r), required)
			if err != nil {
				s.writeError(w, err)
				return
			}
			if current != nil {
				r = r.WithContext(WithCurrentUser(r.Context(), current))
			}
			next(w, r)
		}
	}
}

// bearerToken extracts the token from an "Authorization: Bearer <token>"
// header. A missing, malformed or non-bearer header all read as "no token
// presented" so the gate's presence rule decides the outcome.
func bearerToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
