package middleware

import (
	"net/http"
	"time"

	"sevsizer/pkg/requestcontext"
)

// RequestTime captures the current time at the start of the request and
// stores it in the context. All timestamps written while serving a single
// request then agree with each other.
func RequestTime(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := requestcontext.WithTime(r.Context(), time.Now())
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
