package a11y

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/Bahjat/a11y-scan/internal/browser"
	"github.com/Bahjat/a11y-scan/internal/platform/errs"
)

// ScriptSource provides the ruleset engine's bundled source code.
type ScriptSource interface {
	Load(ctx context.Context) (string, error)
}

// FileScriptSource reads the ruleset script from local disk on every Load.
type FileScriptSource struct {
	path string
}

// NewFileScriptSource returns a ScriptSource backed by the file at path.
func NewFileScriptSource(path string) *FileScriptSource {
	return &FileScriptSource{path: path}
}

// Load returns the full script text.
func (f *FileScriptSource) Load(_ context.Context) (string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return "", fmt.Errorf("read %s: %w", f.path, err)
	}
	return string(data), nil
}

// engineReadyCheck is appended to the ruleset source so that the same
// evaluation reports whether the entry point became callable.
const engineReadyCheck = "\n;(typeof window.axe === 'object' && typeof window.axe.run === 'function')"

// inject evaluates the ruleset source in the page.
func inject(ctx context.Context, sess browser.Session, scripts ScriptSource) error {
	source, err := scripts.Load(ctx)
	if err != nil {
		return &errs.AppError{
			Kind:    errs.ConfigError,
			Message: "ruleset script unavailable",
			Cause:   err,
		}
	}

	raw, err := sess.Evaluate(ctx, source+engineReadyCheck)
	if err != nil {
		return &errs.AppError{
			Kind:    errs.InjectionFailed,
			Message: "ruleset script evaluation failed",
			Cause:   err,
		}
	}

	var ready bool
	if err := json.Unmarshal(raw, &ready); err != nil || !ready {
		return &errs.AppError{
			Kind:    errs.InjectionFailed,
			Message: "ruleset engine not available after injection",
			Cause:   err,
		}
	}
	return nil
}
