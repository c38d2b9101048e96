package scanapi

import (
	"context"
	"log/slog"
	"time"

	"github.com/Bahjat/a11y-scan/internal/model"
	"github.com/Bahjat/a11y-scan/internal/platform/errs"
	"github.com/Bahjat/a11y-scan/internal/platform/metrics"
	"github.com/Bahjat/a11y-scan/internal/platform/requestid"
)

// Service orchestrates a ScanProvider, logs results and records metrics.
type Service struct {
	provider ScanProvider
	logger   *slog.Logger
}

// NewService creates a Service backed by the given provider.
func NewService(provider ScanProvider, logger *slog.Logger) *Service {
	return &Service{provider: provider, logger: logger}
}

// Scan delegates to the provider and logs the outcome.
func (s *Service) Scan(ctx context.Context, targetURL string) (*model.ScanReport, error) {
	logger := s.logger.With("url", targetURL, "request_id", requestid.FromContext(ctx))
	start := time.Now()

	result, err := s.provider.Scan(ctx, targetURL)
	if err != nil {
		kind := errs.KindOf(err)
		if kind != errs.InvalidInput {
			metrics.ObserveScan(kind.String(), time.Since(start), 0)
		}
		logger.Error("scan failed", "error", err, "kind", kind.String())
		return nil, err
	}

	metrics.ObserveScan("ok", time.Since(start), len(result.Violations))
	logger.Info("scan complete",
		"has_skip_link", result.Heuristics.HasSkipLink,
		"tabbable_count", result.Heuristics.TabbableCount,
		"headings_count", result.Heuristics.HeadingsCount,
		"has_aria", result.Heuristics.HasARIA,
		"violations", len(result.Violations),
		"duration", result.Duration.String(),
	)
	return result, nil
}
