package scanapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Bahjat/a11y-scan/internal/model"
	"github.com/Bahjat/a11y-scan/internal/platform/errs"
)

// mockProvider implements ScanProvider for testing.
type mockProvider struct {
	result *model.ScanReport
	err    error
	calls  int
}

func (m *mockProvider) Scan(_ context.Context, _ string) (*model.ScanReport, error) {
	m.calls++
	return m.result, m.err
}

func newTestRouter(provider ScanProvider) http.Handler {
	logger := slog.New(slog.DiscardHandler)
	svc := NewService(provider, logger)
	transport := NewTransport(svc, logger)
	return NewRouter(transport, logger, RouterOptions{})
}

func TestHandleScan_Success(t *testing.T) {
	provider := &mockProvider{
		result: &model.ScanReport{
			URL: "https://example.com",
			Heuristics: model.HeuristicResult{
				HasSkipLink:   true,
				TabbableCount: 7,
				HeadingsCount: 3,
				HasARIA:       true,
			},
			Violations: []model.AuditViolation{{
				ID:    "image-alt",
				Help:  "Images must have alternate text",
				Nodes: []model.AuditNode{{HTML: `<img src="a.png">`}},
			}},
			Duration: time.Second,
		},
	}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/scan?url=https://example.com", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type = %q, want text/plain", ct)
	}

	body := rec.Body.String()
	for _, want := range []string{
		"🔍 Result for https://example.com",
		"✅ Skip link found",
		"✅ Heading structure present (3)",
		"✅ Focusable elements: 7",
		"✅ ARIA roles present",
		"🧪 WCAG analysis (axe-core):",
		"❌ image-alt: Images must have alternate text",
		`  → <img src="a.png">`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("body missing %q\n%s", want, body)
		}
	}
}

func TestHandleScan_InvalidURL(t *testing.T) {
	tests := []struct {
		name  string
		query string
	}{
		{"missing param", "/scan"},
		{"empty", "/scan?url="},
		{"ftp scheme", "/scan?url=ftp://example.com"},
		{"bare host", "/scan?url=example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			provider := &mockProvider{}
			router := newTestRouter(provider)

			req := httptest.NewRequest(http.MethodGet, tt.query, nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if got := rec.Body.String(); got != "❌ Invalid URL" {
				t.Errorf("body = %q, want %q", got, "❌ Invalid URL")
			}
			if provider.calls != 0 {
				t.Errorf("provider called %d times, want 0", provider.calls)
			}
		})
	}
}

func TestHandleScan_ProviderInvalidInput(t *testing.T) {
	provider := &mockProvider{
		err: &errs.AppError{Kind: errs.InvalidInput, Message: "Invalid URL"},
	}
	router := newTestRouter(provider)

	req := httptest.NewRequest(http.MethodGet, "/scan?url=https://example.com", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestHandleScan_Failure(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{
			name: "navigation",
			err: &errs.AppError{
				Kind:    errs.NavigationFailed,
				Message: "navigation failed",
				Cause:   errors.New("net::ERR_NAME_NOT_RESOLVED"),
			},
		},
		{
			name: "timeout",
			err: &errs.AppError{
				Kind:    errs.Timeout,
				Message: "navigation timed out",
				Cause:   context.DeadlineExceeded,
			},
		},
		{
			name: "unclassified",
			err:  errors.New("boom"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newTestRouter(&mockProvider{err: tt.err})

			req := httptest.NewRequest(http.MethodGet, "/scan?url=https://down.example.com", nil)
			rec := httptest.NewRecorder()
			router.ServeHTTP(rec, req)

			if rec.Code != http.StatusInternalServerError {
				t.Errorf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
			}
			want := "❌ Scan failed: " + tt.err.Error()
			if got := rec.Body.String(); got != want {
				t.Errorf("body = %q, want %q", got, want)
			}
		})
	}
}

func TestHandleScan_WrongMethod(t *testing.T) {
	router := newTestRouter(&mockProvider{})

	req := httptest.NewRequest(http.MethodPost, "/scan?url=https://example.com", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusMethodNotAllowed)
	}
}
