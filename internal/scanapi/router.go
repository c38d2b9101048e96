package scanapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Bahjat/a11y-scan/internal/platform/metrics"
	"github.com/Bahjat/a11y-scan/internal/platform/middleware"
)

// RouterOptions tunes the HTTP surface around the transport.
type RouterOptions struct {
	// ScanRateLimit is the sustained /scan rate per second; 0 disables it.
	ScanRateLimit float64
	ScanRateBurst int
}

// NewRouter mounts the transport and the operational endpoints behind the
// request-id, logging and CORS middleware.
func NewRouter(t *Transport, logger *slog.Logger, opts RouterOptions) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Logging(logger))
	router.Use(middleware.CORS)

	router.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	router.Method(http.MethodGet, "/metrics", metrics.Handler())

	router.Group(func(r chi.Router) {
		r.Use(middleware.RateLimit(opts.ScanRateLimit, opts.ScanRateBurst))
		t.RegisterRoutes(r)
	})

	return router
}
