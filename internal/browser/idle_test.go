package browser

import (
	"context"
	"testing"
	"time"

	"github.com/chromedp/cdproto/cdp"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/cdproto/page"
	"github.com/stretchr/testify/assert"
)

const quiet = 50 * time.Millisecond

func TestIdleTracker_IdleImmediately(t *testing.T) {
	tracker := newIdleTracker(2, quiet)

	start := time.Now()
	err := tracker.wait(context.Background(), "")

	assert.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), quiet)
}

func TestIdleTracker_ToleratesTwoInflight(t *testing.T) {
	tracker := newIdleTracker(2, quiet)
	tracker.handle(&network.EventRequestWillBeSent{RequestID: "long-poll"})
	tracker.handle(&network.EventRequestWillBeSent{RequestID: "analytics"})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, tracker.wait(ctx, ""))
}

func TestIdleTracker_WaitsForRequestsToDrain(t *testing.T) {
	tracker := newIdleTracker(2, quiet)
	for _, id := range []network.RequestID{"1", "2", "3", "4"} {
		tracker.handle(&network.EventRequestWillBeSent{RequestID: id})
	}

	go func() {
		time.Sleep(100 * time.Millisecond)
		tracker.handle(&network.EventLoadingFinished{RequestID: "1"})
		tracker.handle(&network.EventLoadingFailed{RequestID: "2"})
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	assert.NoError(t, tracker.wait(ctx, ""))
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond+quiet)
}

func TestIdleTracker_NeverIdle(t *testing.T) {
	tracker := newIdleTracker(0, quiet)
	tracker.handle(&network.EventRequestWillBeSent{RequestID: "stuck"})

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, tracker.wait(ctx, ""), context.DeadlineExceeded)
}

func TestIdleTracker_RedirectKeepsOneEntry(t *testing.T) {
	tracker := newIdleTracker(0, quiet)
	tracker.handle(&network.EventRequestWillBeSent{RequestID: "doc"})
	tracker.handle(&network.EventRequestWillBeSent{RequestID: "doc"})
	tracker.handle(&network.EventLoadingFinished{RequestID: "doc"})

	_, idle := tracker.status()
	assert.True(t, idle)
}

func lifecycle(loader cdp.LoaderID, name string) *page.EventLifecycleEvent {
	return &page.EventLifecycleEvent{FrameID: "main", LoaderID: loader, Name: name}
}

func TestIdleTracker_DocumentStillLoading(t *testing.T) {
	tracker := newIdleTracker(2, quiet)
	tracker.handle(&network.EventRequestWillBeSent{RequestID: "document"})

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, tracker.wait(ctx, "loader-1"), context.DeadlineExceeded)
}

func TestIdleTracker_QuietWindowStartsAfterDOMContentLoaded(t *testing.T) {
	tracker := newIdleTracker(2, quiet)
	tracker.handle(&network.EventRequestWillBeSent{RequestID: "document"})

	go func() {
		time.Sleep(100 * time.Millisecond)
		tracker.handle(lifecycle("loader-1", "DOMContentLoaded"))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	start := time.Now()
	assert.NoError(t, tracker.wait(ctx, "loader-1"))
	assert.GreaterOrEqual(t, time.Since(start), 100*time.Millisecond+quiet)
}

func TestIdleTracker_NetworkAlmostIdleSettles(t *testing.T) {
	tracker := newIdleTracker(0, time.Hour)
	tracker.handle(&network.EventRequestWillBeSent{RequestID: "websocket"})
	tracker.handle(lifecycle("loader-1", "DOMContentLoaded"))

	go func() {
		time.Sleep(20 * time.Millisecond)
		tracker.handle(lifecycle("loader-1", "networkAlmostIdle"))
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, tracker.wait(ctx, "loader-1"))
}

func TestIdleTracker_EventsRecordedBeforeLoaderKnown(t *testing.T) {
	tracker := newIdleTracker(2, time.Hour)
	tracker.handle(lifecycle("loader-1", "DOMContentLoaded"))
	tracker.handle(lifecycle("loader-1", "networkAlmostIdle"))

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	assert.NoError(t, tracker.wait(ctx, "loader-1"))
}

func TestIdleTracker_IgnoresOtherLoaders(t *testing.T) {
	tracker := newIdleTracker(2, quiet)
	tracker.handle(lifecycle("about-blank", "DOMContentLoaded"))
	tracker.handle(lifecycle("about-blank", "networkAlmostIdle"))

	ctx, cancel := context.WithTimeout(context.Background(), 150*time.Millisecond)
	defer cancel()

	assert.ErrorIs(t, tracker.wait(ctx, "loader-1"), context.DeadlineExceeded)
}
