package middleware

import (
	"context"
	"net/http"
	"strings"
)

type contextKey string

const ownerKey contextKey = "owner"

// DefaultOwner is used when no X-Owner-ID header is supplied, so
// single-user deployments work without any client-side setup.
const DefaultOwner = "default"

// WithOwner resolves the photo owner from the X-Owner-ID header and puts
// it on the request context. Every photo operation is scoped to it.
func WithOwner(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		owner := strings.TrimSpace(r.Header.Get("X-Owner-ID"))
		if owner == "" {
			owner = DefaultOwner
		}
		ctx := context.WithValue(r.Context(), ownerKey, owner)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// OwnerFromContext returns the owner set by WithOwner, or DefaultOwner
// when the middleware did not run.
func OwnerFromContext(ctx context.Context) string {
	if owner, ok := ctx.Value(ownerKey).(string); ok && owner != "" {
		return owner
	}
	return DefaultOwner
}
