package errs

import (
	"errors"
	"fmt"
)

// Kind categorizes scan failures for HTTP status mapping.
type Kind int

const (
	// Unknown represents an unclassified error.
	Unknown Kind = iota
	// InvalidInput indicates the target URL was missing or malformed (HTTP 400).
	InvalidInput
	// BrowserFailed indicates the headless browser could not be launched.
	BrowserFailed
	// NavigationFailed indicates the target page could not be loaded.
	NavigationFailed
	// Timeout indicates navigation exceeded its deadline.
	Timeout
	// ConfigError indicates a local asset or setting is unusable.
	ConfigError
	// InjectionFailed indicates the ruleset script could not be evaluated in the page.
	InjectionFailed
	// AuditFailed indicates the ruleset engine run failed or returned an unexpected shape.
	AuditFailed
	// HeuristicFailed indicates the in-page heuristic checks failed.
	HeuristicFailed
)

var kindNames = map[Kind]string{
	Unknown:          "unknown",
	InvalidInput:     "invalid_input",
	BrowserFailed:    "browser_failed",
	NavigationFailed: "navigation_failed",
	Timeout:          "timeout",
	ConfigError:      "config_error",
	InjectionFailed:  "injection_failed",
	AuditFailed:      "audit_failed",
	HeuristicFailed:  "heuristic_failed",
}

// String returns the snake_case label used in logs and metrics.
func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return kindNames[Unknown]
}

// AppError carries a category, user message, and original cause.
type AppError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// KindOf returns the Kind of the first AppError in err's chain, or Unknown.
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return Unknown
}
