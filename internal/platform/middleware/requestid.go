// Package middleware carries the HTTP middleware chain: request identity,
// request time, access logging, panic recovery, timeouts and the admin guard.
package middleware

import (
	"net/http"

	"github.com/google/uuid"

	"sevsizer/pkg/requestcontext"
)

// RequestIDHeader is honored on ingress and always set on egress.
const RequestIDHeader = "X-Request-ID"

// RequestID tags every request with a correlation ID. Inbound IDs are
// trusted as-is; anything longer than 128 bytes is replaced.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}

		ctx := requestcontext.WithRequestID(r.Context(), id)
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
