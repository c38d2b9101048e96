package a11y

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Bahjat/a11y-scan/internal/browser"
	"github.com/Bahjat/a11y-scan/internal/model"
	"github.com/Bahjat/a11y-scan/internal/platform/errs"
	"github.com/Bahjat/a11y-scan/internal/platform/requestid"
	"github.com/Bahjat/a11y-scan/internal/platform/tracing"
)

// DefaultNavTimeout bounds page navigation.
const DefaultNavTimeout = 15 * time.Second

// State names a stage of the scan pipeline.
type State string

// Pipeline stages in execution order.
const (
	StateValidating        State = "validating"
	StateLaunching         State = "launching"
	StateNavigating        State = "navigating"
	StateInjecting         State = "injecting"
	StateAuditing          State = "auditing"
	StateHeuristicChecking State = "heuristic_checking"
	StateClosing           State = "closing"
	StateDone              State = "done"
)

// Engine runs scans. It holds no per-scan state and is safe for concurrent
// use; every Scan gets its own browser session.
type Engine struct {
	launcher   browser.Launcher
	scripts    ScriptSource
	navTimeout time.Duration
	logger     *slog.Logger
}

// NewEngine returns an Engine that opens sessions with launcher and injects
// the ruleset provided by scripts. A non-positive navTimeout selects
// DefaultNavTimeout.
func NewEngine(launcher browser.Launcher, scripts ScriptSource, navTimeout time.Duration, logger *slog.Logger) *Engine {
	if navTimeout <= 0 {
		navTimeout = DefaultNavTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		launcher:   launcher,
		scripts:    scripts,
		navTimeout: navTimeout,
		logger:     logger,
	}
}

// Scan validates targetURL, loads it in a fresh browser, and returns the
// heuristic and ruleset findings. The browser is closed before Scan returns,
// whatever the outcome.
func (e *Engine) Scan(ctx context.Context, targetURL string) (*model.ScanReport, error) {
	logger := e.logger.With("url", targetURL, "request_id", requestid.FromContext(ctx))

	ctx, span := tracing.StartSpan(ctx, "a11y.Scan",
		tracing.AttrTargetURL.String(targetURL),
		tracing.AttrRequestID.String(requestid.FromContext(ctx)),
	)
	var err error
	defer func() { tracing.End(span, err) }()

	logger.Debug("scan state", "state", StateValidating)
	if err = ValidateURL(targetURL); err != nil {
		return nil, err
	}

	start := time.Now()
	report := &model.ScanReport{URL: targetURL, ScannedAt: start}

	logger.Debug("scan state", "state", StateLaunching)
	err = browser.WithSession(ctx, e.launcher, func(ctx context.Context, sess browser.Session) error {
		defer logger.Debug("scan state", "state", StateClosing)

		if err := e.step(ctx, logger, StateNavigating, func(ctx context.Context) error {
			return e.navigate(ctx, sess, targetURL)
		}); err != nil {
			return err
		}

		if err := e.step(ctx, logger, StateInjecting, func(ctx context.Context) error {
			return inject(ctx, sess, e.scripts)
		}); err != nil {
			return err
		}

		if err := e.step(ctx, logger, StateAuditing, func(ctx context.Context) error {
			violations, err := runAudit(ctx, sess)
			report.Violations = violations
			return err
		}); err != nil {
			return err
		}

		return e.step(ctx, logger, StateHeuristicChecking, func(ctx context.Context) error {
			heuristics, err := runHeuristics(ctx, sess)
			report.Heuristics = heuristics
			return err
		})
	})

	switch {
	case err == nil:
	case errors.Is(err, browser.ErrRelease):
		logger.Warn("browser release failed after successful scan", "error", err)
		err = nil
	case errs.KindOf(err) == errs.Unknown:
		err = &errs.AppError{
			Kind:    errs.BrowserFailed,
			Message: "browser launch failed",
			Cause:   err,
		}
	}
	if err != nil {
		return nil, err
	}

	report.Duration = time.Since(start)
	span.SetAttributes(tracing.AttrViolations.Int(len(report.Violations)))
	logger.Debug("scan state", "state", StateDone, "duration", report.Duration.String())
	return report, nil
}

// step runs fn inside a child span and logs the state transition.
func (e *Engine) step(ctx context.Context, logger *slog.Logger, state State, fn func(context.Context) error) error {
	logger.Debug("scan state", "state", state)

	ctx, span := tracing.StartSpan(ctx, "a11y."+string(state))
	err := fn(ctx)
	tracing.End(span, err)
	return err
}

// navigate loads targetURL under the navigation timeout. Exceeding the
// timeout is reported as errs.Timeout, any other failure as
// errs.NavigationFailed.
func (e *Engine) navigate(ctx context.Context, sess browser.Session, targetURL string) error {
	navCtx, cancel := context.WithTimeout(ctx, e.navTimeout)
	defer cancel()

	err := sess.Navigate(navCtx, targetURL)
	if err == nil {
		return nil
	}

	if errors.Is(navCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return &errs.AppError{
			Kind:    errs.Timeout,
			Message: fmt.Sprintf("navigation timed out after %s", e.navTimeout),
			Cause:   err,
		}
	}
	return &errs.AppError{
		Kind:    errs.NavigationFailed,
		Message: "navigation failed",
		Cause:   err,
	}
}
