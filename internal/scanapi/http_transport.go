package scanapi

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Bahjat/a11y-scan/internal/a11y"
	"github.com/Bahjat/a11y-scan/internal/platform/errs"
	"github.com/Bahjat/a11y-scan/internal/report"
)

const (
	invalidURLBody  = "❌ " + a11y.InvalidURLMessage
	scanErrorPrefix = "❌ Scan failed: "
)

// Transport handles HTTP requests for page scans.
type Transport struct {
	service *Service
	logger  *slog.Logger
}

// NewTransport creates an HTTP transport backed by the given service.
func NewTransport(service *Service, logger *slog.Logger) *Transport {
	return &Transport{service: service, logger: logger}
}

// RegisterRoutes attaches the transport's handlers to the given router.
func (t *Transport) RegisterRoutes(r chi.Router) {
	r.Get("/scan", t.handleScan)
}

func (t *Transport) handleScan(w http.ResponseWriter, r *http.Request) {
	targetURL := r.URL.Query().Get("url")
	if err := a11y.ValidateURL(targetURL); err != nil {
		t.renderText(w, http.StatusBadRequest, invalidURLBody)
		return
	}

	result, err := t.service.Scan(r.Context(), targetURL)
	if err != nil {
		t.handleServiceError(w, err)
		return
	}

	t.renderText(w, http.StatusOK, report.TextOf(result))
}

func (t *Transport) handleServiceError(w http.ResponseWriter, err error) {
	var appErr *errs.AppError
	if errors.As(err, &appErr) && appErr.Kind == errs.InvalidInput {
		t.renderText(w, http.StatusBadRequest, invalidURLBody)
		return
	}

	t.renderText(w, http.StatusInternalServerError, scanErrorPrefix+err.Error())
}

func (t *Transport) renderText(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	if _, err := w.Write([]byte(body)); err != nil {
		t.logger.Error("failed to write response", "error", err)
	}
}
