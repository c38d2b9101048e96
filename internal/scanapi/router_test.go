package scanapi

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Bahjat/a11y-scan/internal/model"
)

func TestRouter_Healthz(t *testing.T) {
	router := newTestRouter(&mockProvider{})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}

func TestRouter_Metrics(t *testing.T) {
	router := newTestRouter(&mockProvider{result: &model.ScanReport{URL: "https://example.com"}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scan?url=https://example.com", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "a11yscan_scans_total")
}

func TestRouter_CORS(t *testing.T) {
	router := newTestRouter(&mockProvider{result: &model.ScanReport{}})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scan?url=", nil))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/scan", nil))
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestRouter_RequestIDEchoed(t *testing.T) {
	router := newTestRouter(&mockProvider{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestRouter_ScanRateLimit(t *testing.T) {
	logger := slog.New(slog.DiscardHandler)
	transport := NewTransport(NewService(&mockProvider{result: &model.ScanReport{}}, logger), logger)
	router := NewRouter(transport, logger, RouterOptions{ScanRateLimit: 0.001, ScanRateBurst: 1})

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scan?url=https://example.com", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/scan?url=https://example.com", nil))
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.True(t, strings.HasPrefix(rec.Body.String(), "❌"))

	// Operational endpoints are not limited.
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}
