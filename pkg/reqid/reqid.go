// Package reqid tags each request with an id that the access log, handler
// failures and the X-Request-ID response header all share.
package reqid

import (
	"context"
	"net/http"

	"github.com/google/uuid"
)

// Header carries the id in both directions.
const Header = "X-Request-ID"

const maxInboundLen = 128

type ctxKey struct{}

// FromCtx returns the id stored by Middleware, or "".
func FromCtx(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

// Middleware reuses a well-formed inbound X-Request-ID and otherwise mints a
// UUID. The id is echoed on the response before the handler runs.
func Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(Header)
			if !acceptable(id) {
				id = uuid.NewString()
			}
			w.Header().Set(Header, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
		})
	}
}

// acceptable admits ids made of letters, digits, '.', '_', ':' and '-' so an
// upstream value can't smuggle spaces or control characters into log lines.
func acceptable(id string) bool {
	if id == "" || len(id) > maxInboundLen {
		return false
	}
	for _, c := range id {
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '.', c == '_', c == ':', c == '-':
		default:
			return false
		}
	}
	return true
}
