// Package metrics exposes the Prometheus collectors shared by the scan
// pipeline and the HTTP layer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "a11yscan"

var (
	scansTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "scans_total",
		Help:      "Completed scan requests by outcome.",
	}, []string{"outcome"})
	scanDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "scan_duration_seconds",
		Help:      "Wall-clock time of the scan pipeline, browser launch to release.",
		Buckets:   []float64{0.5, 1, 2, 5, 10, 15, 20, 30, 60},
	})
	violationsReported = promauto.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "violations_reported_total",
		Help:      "Ruleset violations returned across all successful scans.",
	})
	sessionsActive = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "browser_sessions_active",
		Help:      "Headless browser instances currently open.",
	})
	launchesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "browser_launches_total",
		Help:      "Headless browser launch attempts by result.",
	}, []string{"result"})
	httpRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "HTTP requests by route pattern and status code.",
	}, []string{"route", "status"})
)

// Handler serves the default registry in the Prometheus exposition format.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveScan records one finished scan. outcome is "ok" or an error kind label.
func ObserveScan(outcome string, elapsed time.Duration, violations int) {
	scansTotal.WithLabelValues(outcome).Inc()
	scanDuration.Observe(elapsed.Seconds())
	if violations > 0 {
		violationsReported.Add(float64(violations))
	}
}

// SessionOpened records a successful browser launch.
func SessionOpened() {
	launchesTotal.WithLabelValues("ok").Inc()
	sessionsActive.Inc()
}

// SessionClosed records the release of a previously opened browser.
func SessionClosed() {
	sessionsActive.Dec()
}

// LaunchFailed records a browser launch that never produced a session.
func LaunchFailed() {
	launchesTotal.WithLabelValues("error").Inc()
}

// ObserveHTTP records one served HTTP request.
func ObserveHTTP(route string, status int) {
	httpRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
}
