package middleware

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	dErrors "sevsizer/pkg/domain-errors"
	"sevsizer/pkg/platform/httputil"
	"sevsizer/pkg/requestcontext"
)

// Recovery converts panics into 500 responses. The stack goes to the log;
// the client gets the standard envelope.
func Recovery(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					ctx := r.Context()
					logger.ErrorContext(ctx, "panic recovered",
						"request_id", requestcontext.RequestID(ctx),
						"panic", rec,
						"stack", string(debug.Stack()),
					)
					httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "internal error"))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
