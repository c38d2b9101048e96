package a11y

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/Bahjat/a11y-scan/internal/browser"
	"github.com/Bahjat/a11y-scan/internal/model"
	"github.com/Bahjat/a11y-scan/internal/platform/errs"
)

// The tabbable count only checks layout presence (offsetParent). Elements
// with tabindex="-1" or disabled are still counted.
//
//go:embed js/heuristics.js
var heuristicsScript string

type rawHeuristics struct {
	HasSkipLink   *bool `json:"hasSkipLink"`
	TabbableCount *int  `json:"tabbableCount"`
	HeadingsCount *int  `json:"headingsCount"`
	HasARIA       *bool `json:"hasAria"`
}

// runHeuristics evaluates the four DOM signals in one page round-trip.
func runHeuristics(ctx context.Context, sess browser.Session) (model.HeuristicResult, error) {
	raw, err := sess.Evaluate(ctx, heuristicsScript)
	if err != nil {
		return model.HeuristicResult{}, &errs.AppError{
			Kind:    errs.HeuristicFailed,
			Message: "heuristic checks failed",
			Cause:   err,
		}
	}

	result, err := decodeHeuristics(raw)
	if err != nil {
		return model.HeuristicResult{}, &errs.AppError{
			Kind:    errs.HeuristicFailed,
			Message: "unexpected heuristic result",
			Cause:   err,
		}
	}
	return result, nil
}

func decodeHeuristics(raw []byte) (model.HeuristicResult, error) {
	var in rawHeuristics
	if err := decodeStrict(raw, &in); err != nil {
		return model.HeuristicResult{}, err
	}

	switch {
	case in.HasSkipLink == nil:
		return model.HeuristicResult{}, missingField("hasSkipLink")
	case in.TabbableCount == nil:
		return model.HeuristicResult{}, missingField("tabbableCount")
	case in.HeadingsCount == nil:
		return model.HeuristicResult{}, missingField("headingsCount")
	case in.HasARIA == nil:
		return model.HeuristicResult{}, missingField("hasAria")
	case *in.TabbableCount < 0 || *in.HeadingsCount < 0:
		return model.HeuristicResult{}, fmt.Errorf("negative count in %s", raw)
	}

	return model.HeuristicResult{
		HasSkipLink:   *in.HasSkipLink,
		TabbableCount: *in.TabbableCount,
		HeadingsCount: *in.HeadingsCount,
		HasARIA:       *in.HasARIA,
	}, nil
}
