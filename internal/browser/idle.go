package browser

import (
	"context"
	"sync"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
)

// Lifecycle event names emitted by Chrome for a document loader.
const (
	lifecycleDOMContentLoaded  = "DOMContentLoaded"
	lifecycleNetworkAlmostIdle = "networkAlmostIdle"
)

// idleTracker follows in-flight network requests and lifecycle events of a
// page and reports when no more than maxInflight requests have been pending
// for the quiet period after the document was parsed.
type idleTracker struct {
	maxInflight int
	quiet       time.Duration

	mu        sync.Mutex
	inflight  map[network.RequestID]struct{}
	lifecycle map[cdp.LoaderID]map[string]struct{}
	loader    cdp.LoaderID
	changed   chan struct{}
}

func newIdleTracker(maxInflight int, quiet time.Duration) *idleTracker {
	return &idleTracker{
		maxInflight: maxInflight,
		quiet:       quiet,
		inflight:    make(map[network.RequestID]struct{}),
		lifecycle:   make(map[cdp.LoaderID]map[string]struct{}),
		changed:     make(chan struct{}, 1),
	}
}

// handle is registered as a target listener. It must not block.
func (t *idleTracker) handle(ev any) {
	switch e := ev.(type) {
	case *network.EventRequestWillBeSent:
		t.update(func() { t.inflight[e.RequestID] = struct{}{} })
	case *network.EventLoadingFinished:
		t.update(func() { delete(t.inflight, e.RequestID) })
	case *network.EventLoadingFailed:
		t.update(func() { delete(t.inflight, e.RequestID) })
	case *page.EventLifecycleEvent:
		// Events can arrive before the loader of the navigation is known,
		// so they are recorded for every loader.
		t.update(func() {
			names, ok := t.lifecycle[e.LoaderID]
			if !ok {
				names = make(map[string]struct{})
				t.lifecycle[e.LoaderID] = names
			}
			names[e.Name] = struct{}{}
		})
	}
}

func (t *idleTracker) update(fn func()) {
	t.mu.Lock()
	fn()
	t.mu.Unlock()

	select {
	case t.changed <- struct{}{}:
	default:
	}
}

// expect selects the document loader whose lifecycle gates idleness. An
// empty loader means the navigation stayed within the current document.
func (t *idleTracker) expect(loader cdp.LoaderID) {
	t.mu.Lock()
	t.loader = loader
	t.mu.Unlock()
}

// status reports whether Chrome already declared the expected document
// network-almost-idle, and whether the page currently counts as idle.
func (t *idleTracker) status() (settled, idle bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	parsed := true
	if t.loader != "" {
		names := t.lifecycle[t.loader]
		if _, ok := names[lifecycleNetworkAlmostIdle]; ok {
			return true, true
		}
		_, parsed = names[lifecycleDOMContentLoaded]
	}
	return false, parsed && len(t.inflight) <= t.maxInflight
}

// wait blocks until the document of loader reached networkAlmostIdle, or it
// has been parsed and no more than maxInflight requests have been pending
// for the whole quiet period. Changes that keep the page idle do not restart
// the period.
func (t *idleTracker) wait(ctx context.Context, loader cdp.LoaderID) error {
	t.expect(loader)

	timer := time.NewTimer(t.quiet)
	defer timer.Stop()

	settled, wasIdle := t.status()
	if settled {
		return nil
	}
	if !wasIdle {
		timer.Stop()
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.changed:
			settled, idle := t.status()
			if settled {
				return nil
			}
			switch {
			case idle && !wasIdle:
				timer.Reset(t.quiet)
			case !idle && wasIdle:
				timer.Stop()
			}
			wasIdle = idle
		case <-timer.C:
			if _, idle := t.status(); idle {
				return nil
			}
			wasIdle = false
		}
	}
}
