package middleware

import (
	"context"
	"net/http"
	"strings"

	"hospital-workflow-api/internal/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// Identity returns the authenticated actor stored by Auth, if any.
func Identity(ctx context.Context) (auth.Identity, bool) {
	id, ok := ctx.Value(identityKey).(auth.Identity)
	return id, ok
}

// WithIdentity is used by tests to fabricate an authenticated context.
func WithIdentity(ctx context.Context, id auth.Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

// Auth verifies the Bearer token and stores the actor identity on the
// request context. Requests without a valid token get 401.
func Auth(secret string, unauthorized http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			// token from Authorization: Bearer <jwt>
			raw := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
			if raw == "" || raw == r.Header.Get("Authorization") {
				unauthorized(w, r)
				return
			}

			id, err := auth.Authenticate(raw, secret)
			if err != nil {
				unauthorized(w, r)
				return
			}

			next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), id)))
		})
	}
}
