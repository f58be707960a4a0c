// Package httptransport assembles the HTTP surface: the public measurement
// and recommendation endpoints, the token-guarded admin API, health and
// metrics.
package httptransport

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	charthandler "sevsizer/internal/chart/handler"
	measurementhandler "sevsizer/internal/measurement/handler"
	"sevsizer/internal/platform/metrics"
	"sevsizer/internal/platform/middleware"
	sizinghandler "sevsizer/internal/sizing/handler"
	"sevsizer/pkg/platform/httputil"
)

// HealthCheck reports one dependency's liveness under a name.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps carries everything the router mounts. Optional dependencies may be
// nil; the corresponding routes are skipped.
type Deps struct {
	Logger  *slog.Logger
	Metrics *metrics.HTTP

	Measurements *measurementhandler.Handler
	Sizing       *sizinghandler.Handler
	Charts       *charthandler.Handler

	// AdminToken guards /admin. Empty means the admin surface is not
	// mounted at all.
	AdminToken string

	RequestTimeout time.Duration
	HealthChecks   []HealthCheck
}

// New assembles the router with the standard middleware chain.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTime)
	r.Use(middleware.Logger(deps.Logger, deps.Metrics))
	r.Use(middleware.Recovery(deps.Logger))
	if deps.RequestTimeout > 0 {
		r.Use(middleware.Timeout(deps.RequestTimeout))
	}

	r.Get("/health", handleHealth(deps.HealthChecks))
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	deps.Measurements.Register(r)
	deps.Sizing.Register(r)

	if deps.AdminToken != "" {
		r.Route("/admin", func(admin chi.Router) {
			admin.Use(middleware.RequireAdminToken(deps.AdminToken, deps.Logger))
			deps.Charts.Register(admin)
		})
	}

	return r
}

// handleHealth reports overall status plus one entry per dependency check.
// Any failing dependency degrades the response to 503.
func handleHealth(checks []HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		body := map[string]string{"status": "ok"}
		status := http.StatusOK
		for _, hc := range checks {
			if err := hc.Check(ctx); err != nil {
				body[hc.Name] = err.Error()
				body["status"] = "degraded"
				status = http.StatusServiceUnavailable
				continue
			}
			body[hc.Name] = "ok"
		}

		httputil.WriteJSON(w, status, body)
	}
}
