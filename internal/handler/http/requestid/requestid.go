// Package requestid assigns a unique ID to every HTTP request so that log
// lines from one request can be correlated.
package requestid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// contextKey avoids collisions with other packages' context values.
type contextKey struct{}

// Header is the HTTP header carrying the request ID.
const Header = "X-Request-ID"

var ctxKey contextKey

// FromContext returns the request ID stored in ctx, or "" when absent.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey).(string)
	return id
}

// NewContext returns a copy of ctx carrying the given request ID.
func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey, id)
}

// Middleware propagates an incoming X-Request-ID header, or generates a
// UUID v4 when the client did not send one. The ID is echoed on the
// response and stored in the request context.
func Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(Header)
		if id == "" {
			id = uuid.New().String()
		}

		// クライアント側でも追跡できるようレスポンスにも載せる
		w.Header().Set(Header, id)

		next.ServeHTTP(w, r.WithContext(NewContext(r.Context(), id)))
	})
}
