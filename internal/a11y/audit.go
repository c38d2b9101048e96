package a11y

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/Bahjat/a11y-scan/internal/browser"
	"github.com/Bahjat/a11y-scan/internal/model"
	"github.com/Bahjat/a11y-scan/internal/platform/errs"
)

//go:embed js/audit.js
var auditScript string

type rawViolation struct {
	ID    *string    `json:"id"`
	Help  *string    `json:"help"`
	Nodes *[]rawNode `json:"nodes"`
}

type rawNode struct {
	HTML *string `json:"html"`
}

// runAudit runs the injected ruleset engine against the whole document,
// restricted to the wcag2a and wcag2aa tags, and returns its violations in
// the order the engine reported them.
func runAudit(ctx context.Context, sess browser.Session) ([]model.AuditViolation, error) {
	raw, err := sess.Evaluate(ctx, auditScript)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.AuditFailed,
			Message: "ruleset run failed",
			Cause:   err,
		}
	}

	violations, err := decodeViolations(raw)
	if err != nil {
		return nil, &errs.AppError{
			Kind:    errs.AuditFailed,
			Message: "unexpected ruleset result",
			Cause:   err,
		}
	}
	return violations, nil
}

func decodeViolations(raw []byte) ([]model.AuditViolation, error) {
	var in []rawViolation
	if err := decodeStrict(raw, &in); err != nil {
		return nil, err
	}
	if in == nil {
		return nil, fmt.Errorf("violations: expected array, got %s", raw)
	}

	out := make([]model.AuditViolation, 0, len(in))
	for i, v := range in {
		switch {
		case v.ID == nil || *v.ID == "":
			return nil, fmt.Errorf("violation %d: %w", i, missingField("id"))
		case v.Help == nil:
			return nil, fmt.Errorf("violation %d: %w", i, missingField("help"))
		case v.Nodes == nil:
			return nil, fmt.Errorf("violation %d: %w", i, missingField("nodes"))
		}

		nodes := make([]model.AuditNode, 0, len(*v.Nodes))
		for j, n := range *v.Nodes {
			if n.HTML == nil {
				return nil, fmt.Errorf("violation %d node %d: %w", i, j, missingField("html"))
			}
			nodes = append(nodes, model.AuditNode{HTML: *n.HTML})
		}

		out = append(out, model.AuditViolation{ID: *v.ID, Help: *v.Help, Nodes: nodes})
	}
	return out, nil
}
