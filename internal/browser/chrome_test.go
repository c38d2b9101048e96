package browser

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os/exec"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chromePath returns a local Chrome/Chromium binary or skips the test.
func chromePath(t *testing.T) string {
	t.Helper()
	for _, name := range []string{"google-chrome", "google-chrome-stable", "chromium", "chromium-browser", "headless-shell"} {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}
	t.Skip("no Chrome binary on PATH")
	return ""
}

func TestChromeLauncher_NavigateAndEvaluate(t *testing.T) {
	path := chromePath(t)

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, `<!DOCTYPE html><html><body><h1>Hi</h1><a href="#main">skip</a></body></html>`)
	}))
	defer ts.Close()

	launcher := NewChromeLauncher(ChromeOptions{ExecPath: path, NoSandbox: true})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess, err := launcher.Launch(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Close() }()

	navCtx, navCancel := context.WithTimeout(ctx, 15*time.Second)
	defer navCancel()
	require.NoError(t, sess.Navigate(navCtx, ts.URL))

	raw, err := sess.Evaluate(ctx, `document.querySelectorAll("h1").length`)
	require.NoError(t, err)

	var n int
	require.NoError(t, json.Unmarshal(raw, &n))
	assert.Equal(t, 1, n)

	raw, err = sess.Evaluate(ctx, `Promise.resolve({ok: true})`)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok":true}`, string(raw))

	require.NoError(t, sess.Close())
	assert.NoError(t, sess.Close(), "second close is a no-op")

	_, err = sess.Evaluate(ctx, `1`)
	assert.ErrorIs(t, err, ErrSessionClosed)
}

func TestChromeLauncher_NavigationError(t *testing.T) {
	path := chromePath(t)
	launcher := NewChromeLauncher(ChromeOptions{ExecPath: path, NoSandbox: true})

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	sess, err := launcher.Launch(ctx)
	require.NoError(t, err)
	defer func() { _ = sess.Close() }()

	err = sess.Navigate(ctx, "http://127.0.0.1:1/")
	assert.ErrorIs(t, err, ErrNavigation)
}
