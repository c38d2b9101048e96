// Package browser owns the lifecycle of headless browser instances. Every
// scan gets its own instance with a single page; nothing is pooled.
package browser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	// ErrSessionClosed is returned by Session methods called after Close.
	ErrSessionClosed = errors.New("browser session closed")
	// ErrRelease wraps a failure to shut the browser down after the scoped
	// function completed successfully.
	ErrRelease = errors.New("browser release failed")
	// ErrNavigation is returned when the browser reports a network-level
	// failure loading the target document.
	ErrNavigation = errors.New("navigation failed")
)

// Session is one browser instance with exactly one open page.
type Session interface {
	// Navigate loads url in the page and returns once the network is
	// mostly idle or ctx is done.
	Navigate(ctx context.Context, url string) error
	// Evaluate runs expression in the page, awaiting it if it yields a
	// promise, and returns the JSON-serialized result.
	Evaluate(ctx context.Context, expression string) (json.RawMessage, error)
	// Close shuts the whole browser instance down. It is safe to call
	// more than once.
	Close() error
}

// Launcher starts new browser instances.
type Launcher interface {
	Launch(ctx context.Context) (Session, error)
}

// WithSession launches a browser, hands its session to fn, and closes the
// browser on every exit path, panics included. fn's error is returned as is.
// A close failure after fn succeeded is reported wrapped in ErrRelease.
func WithSession(ctx context.Context, launcher Launcher, fn func(ctx context.Context, s Session) error) (err error) {
	sess, err := launcher.Launch(ctx)
	if err != nil {
		return err
	}

	defer func() {
		closeErr := sess.Close()
		if closeErr != nil && err == nil {
			err = fmt.Errorf("%w: %w", ErrRelease, closeErr)
		}
	}()

	return fn(ctx, sess)
}
