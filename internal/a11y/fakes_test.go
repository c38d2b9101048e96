package a11y

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"

	"github.com/Bahjat/a11y-scan/internal/browser"
)

var (
	errNoChrome      = errors.New("chrome not found")
	errNameNotResolv = errors.New("net::ERR_NAME_NOT_RESOLVED")
	errScriptThrew   = errors.New("ReferenceError: define is not defined")
	errMissingAsset  = errors.New("open assets/axe.min.js: no such file or directory")
	errCloseFailed   = errors.New("close chrome: websocket: close sent")
)

// fakePage scripts the answers a page gives to the three evaluations the
// engine performs.
type fakePage struct {
	navErr   error
	navBlock bool

	injectRaw string
	injectErr error

	auditRaw string
	auditErr error

	heuristicsRaw string
	heuristicsErr error

	// closeErr is returned by Close after the session was torn down.
	closeErr error
}

func cleanPage() fakePage {
	return fakePage{
		injectRaw:     `true`,
		auditRaw:      `[]`,
		heuristicsRaw: `{"hasSkipLink":true,"tabbableCount":4,"headingsCount":2,"hasAria":true}`,
	}
}

// fakeLauncher counts launched and closed sessions so tests can assert that
// no browser outlives a scan.
type fakeLauncher struct {
	page      fakePage
	launchErr error

	mu       sync.Mutex
	launched int
	closed   int
	visited  []string
}

func (l *fakeLauncher) Launch(context.Context) (browser.Session, error) {
	if l.launchErr != nil {
		return nil, l.launchErr
	}
	l.mu.Lock()
	l.launched++
	l.mu.Unlock()
	return &fakeSession{launcher: l}, nil
}

func (l *fakeLauncher) open() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.launched - l.closed
}

type fakeSession struct {
	launcher *fakeLauncher
	once     sync.Once
}

func (s *fakeSession) Navigate(ctx context.Context, url string) error {
	s.launcher.mu.Lock()
	s.launcher.visited = append(s.launcher.visited, url)
	s.launcher.mu.Unlock()

	if s.launcher.page.navBlock {
		<-ctx.Done()
		return ctx.Err()
	}
	return s.launcher.page.navErr
}

func (s *fakeSession) Evaluate(_ context.Context, expression string) (json.RawMessage, error) {
	p := s.launcher.page
	switch {
	case strings.HasSuffix(expression, engineReadyCheck):
		return json.RawMessage(p.injectRaw), p.injectErr
	case expression == auditScript:
		return json.RawMessage(p.auditRaw), p.auditErr
	case expression == heuristicsScript:
		return json.RawMessage(p.heuristicsRaw), p.heuristicsErr
	}
	return nil, errors.New("unexpected expression")
}

func (s *fakeSession) Close() error {
	s.once.Do(func() {
		s.launcher.mu.Lock()
		s.launcher.closed++
		s.launcher.mu.Unlock()
	})
	return s.launcher.page.closeErr
}

type fakeScripts struct {
	source string
	err    error
}

func (f fakeScripts) Load(context.Context) (string, error) {
	return f.source, f.err
}
