package a11y

import (
	"strings"

	"github.com/Bahjat/a11y-scan/internal/platform/errs"
)

// InvalidURLMessage is the fixed client-facing message for rejected input.
const InvalidURLMessage = "Invalid URL"

// ValidateURL accepts any string starting with "http". Reachability and
// further syntax are left to navigation.
func ValidateURL(raw string) error {
	if raw == "" || !strings.HasPrefix(raw, "http") {
		return &errs.AppError{
			Kind:    errs.InvalidInput,
			Message: InvalidURLMessage,
		}
	}
	return nil
}
