package middleware

import (
	"context"
	"net/http"

	"github.com/crucial707/feedback-board/internal/session"
)

type key string

const usernameKey key = "username"

// SessionContext parses the session cookie once per request and stores the
// authenticated username in the request context. Anonymous requests pass
// through with no value set; protected routes check with SessionUser.
func SessionContext(m *session.Manager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if username, ok := m.Username(r); ok {
				r = r.WithContext(WithUser(r.Context(), username))
			}
			next.ServeHTTP(w, r)
		})
	}
}

// WithUser returns a context carrying the authenticated username.
func WithUser(ctx context.Context, username string) context.Context {
	return context.WithValue(ctx, usernameKey, username)
}

// SessionUser returns the authenticated username from the request context.
// ok is false for anonymous requests.
func SessionUser(ctx context.Context) (string, bool) {
	username, ok := ctx.Value(usernameKey).(string)
	return username, ok && username != ""
}
