package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/chromedp/cdproto/runtime"
	"github.com/chromedp/chromedp"

	"github.com/Bahjat/a11y-scan/internal/platform/metrics"
)

const (
	defaultIdleConnections = 2
	defaultIdleQuiet       = 500 * time.Millisecond
	defaultWindowWidth     = 1280
	defaultWindowHeight    = 800
)

// ChromeOptions configures how Chrome instances are started.
type ChromeOptions struct {
	// ExecPath overrides Chrome discovery when set.
	ExecPath string
	// NoSandbox disables the Chrome sandbox, needed when running as root
	// inside most containers.
	NoSandbox bool
	UserAgent string
	// IdleConnections is the number of requests allowed in flight while the
	// page still counts as idle.
	IdleConnections int
	// IdleQuiet is how long the page has to stay idle.
	IdleQuiet time.Duration
	Logger    *slog.Logger
}

// ChromeLauncher starts a fresh headless Chrome for every Launch call.
type ChromeLauncher struct {
	opts ChromeOptions
}

// NewChromeLauncher returns a launcher with defaults filled in.
func NewChromeLauncher(opts ChromeOptions) *ChromeLauncher {
	if opts.IdleConnections <= 0 {
		opts.IdleConnections = defaultIdleConnections
	}
	if opts.IdleQuiet <= 0 {
		opts.IdleQuiet = defaultIdleQuiet
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &ChromeLauncher{opts: opts}
}

func (l *ChromeLauncher) allocatorOptions() []chromedp.ExecAllocatorOption {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	opts = append(opts, chromedp.WindowSize(defaultWindowWidth, defaultWindowHeight))
	if l.opts.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.opts.ExecPath))
	}
	if l.opts.NoSandbox {
		opts = append(opts, chromedp.NoSandbox)
	}
	if l.opts.UserAgent != "" {
		opts = append(opts, chromedp.UserAgent(l.opts.UserAgent))
	}
	return opts
}

// Launch starts Chrome, opens one page and enables network and lifecycle
// events on it.
// The browser is bound to ctx: cancelling ctx kills it.
func (l *ChromeLauncher) Launch(ctx context.Context) (Session, error) {
	allocCtx, allocCancel := chromedp.NewExecAllocator(ctx, l.allocatorOptions()...)
	logger := l.opts.Logger
	tabCtx, tabCancel := chromedp.NewContext(allocCtx,
		chromedp.WithErrorf(func(format string, args ...any) {
			logger.Error("chrome devtools", "detail", fmt.Sprintf(format, args...))
		}),
	)

	// The first Run starts the browser process and attaches to its page.
	if err := chromedp.Run(tabCtx,
		network.Enable(),
		page.Enable(),
		page.SetLifecycleEventsEnabled(true),
	); err != nil {
		tabCancel()
		allocCancel()
		metrics.LaunchFailed()
		return nil, fmt.Errorf("launch chrome: %w", err)
	}
	metrics.SessionOpened()

	return &chromeSession{
		tabCtx:      tabCtx,
		tabCancel:   tabCancel,
		allocCancel: allocCancel,
		idleConns:   l.opts.IdleConnections,
		idleQuiet:   l.opts.IdleQuiet,
	}, nil
}

type chromeSession struct {
	tabCtx      context.Context
	tabCancel   context.CancelFunc
	allocCancel context.CancelFunc
	idleConns   int
	idleQuiet   time.Duration

	closeOnce sync.Once
	closeErr  error
	closed    bool
	mu        sync.Mutex
}

// actionContext derives a context from the tab that carries ctx's deadline
// and is cancelled together with ctx. Cancelling it aborts the running
// action without closing the tab.
func (s *chromeSession) actionContext(ctx context.Context) (context.Context, context.CancelFunc, error) {
	s.mu.Lock()
	closed := s.closed
	s.mu.Unlock()
	if closed {
		return nil, nil, ErrSessionClosed
	}

	var (
		runCtx context.Context
		cancel context.CancelFunc
	)
	if deadline, ok := ctx.Deadline(); ok {
		runCtx, cancel = context.WithDeadline(s.tabCtx, deadline)
	} else {
		runCtx, cancel = context.WithCancel(s.tabCtx)
	}
	stop := context.AfterFunc(ctx, cancel)

	return runCtx, func() {
		stop()
		cancel()
	}, nil
}

func (s *chromeSession) Navigate(ctx context.Context, url string) error {
	runCtx, cancel, err := s.actionContext(ctx)
	if err != nil {
		return err
	}
	defer cancel()

	tracker := newIdleTracker(s.idleConns, s.idleQuiet)
	listenCtx, stopListening := context.WithCancel(runCtx)
	defer stopListening()
	chromedp.ListenTarget(listenCtx, tracker.handle)

	var res page.NavigateReturns
	err = chromedp.Run(runCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		if err := cdp.Execute(ctx, page.CommandNavigate, page.Navigate(url), &res); err != nil {
			return err
		}
		if res.ErrorText != "" {
			return fmt.Errorf("%w: %s", ErrNavigation, res.ErrorText)
		}
		return nil
	}))
	if err != nil {
		return err
	}

	return tracker.wait(runCtx, res.LoaderID)
}

func (s *chromeSession) Evaluate(ctx context.Context, expression string) (json.RawMessage, error) {
	runCtx, cancel, err := s.actionContext(ctx)
	if err != nil {
		return nil, err
	}
	defer cancel()

	var raw []byte
	err = chromedp.Run(runCtx, chromedp.Evaluate(expression, &raw,
		func(p *runtime.EvaluateParams) *runtime.EvaluateParams {
			return p.WithAwaitPromise(true)
		},
	))
	if err != nil {
		return nil, err
	}
	return json.RawMessage(raw), nil
}

// Close closes the browser gracefully, then tears down the allocator, which
// kills the process if it is still alive and removes its profile directory.
func (s *chromeSession) Close() error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		s.mu.Unlock()

		err := chromedp.Cancel(s.tabCtx)
		s.tabCancel()
		s.allocCancel()
		metrics.SessionClosed()

		if err != nil && !errors.Is(err, context.Canceled) {
			s.closeErr = fmt.Errorf("close chrome: %w", err)
		}
	})
	return s.closeErr
}
