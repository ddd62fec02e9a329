package jobs

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/courtvision/courtvision/internal/platform/httpx"
)

// MetricsRouter serves the worker's /metrics and /healthz so job counters can
// be scraped separately from the web process.
func MetricsRouter(metrics http.Handler) http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		httpx.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics", metrics)
	}
	return r
}

// NewMetricsServer wraps MetricsRouter in an http.Server bound to addr.
func NewMetricsServer(addr string, metrics http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           MetricsRouter(metrics),
		ReadHeaderTimeout: 5 * time.Second,
	}
}
