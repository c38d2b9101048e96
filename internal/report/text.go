package report

import (
	"fmt"
	"strings"

	"github.com/Bahjat/a11y-scan/internal/model"
)

// Markers prefixing every result line.
const (
	MarkerPass = "✅"
	MarkerFail = "❌"
)

// Text renders the report for url. It is deterministic and performs no
// sorting or deduplication.
func Text(url string, h model.HeuristicResult, violations []model.AuditViolation) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "🔍 Result for %s\n", url)

	if h.HasSkipLink {
		sb.WriteString(MarkerPass + " Skip link found\n")
	} else {
		sb.WriteString(MarkerFail + " No skip link present\n")
	}

	if h.HeadingsCount > 0 {
		fmt.Fprintf(&sb, "%s Heading structure present (%d)\n", MarkerPass, h.HeadingsCount)
	} else {
		sb.WriteString(MarkerFail + " No headings found\n")
	}

	// Informational only; never a failure.
	fmt.Fprintf(&sb, "%s Focusable elements: %d\n", MarkerPass, h.TabbableCount)

	if h.HasARIA {
		sb.WriteString(MarkerPass + " ARIA roles present\n")
	} else {
		sb.WriteString(MarkerFail + " No ARIA roles found\n")
	}

	sb.WriteString("\n🧪 WCAG analysis (axe-core):\n")
	if len(violations) == 0 {
		sb.WriteString(MarkerPass + " No WCAG A/AA violations found.\n")
		return sb.String()
	}

	for _, v := range violations {
		fmt.Fprintf(&sb, "%s %s: %s\n", MarkerFail, v.ID, v.Help)
		for _, n := range v.Nodes {
			fmt.Fprintf(&sb, "  → %s\n", flattenSnippet(n.HTML))
		}
	}
	return sb.String()
}

// TextOf renders a typed ScanReport with Text.
func TextOf(r *model.ScanReport) string {
	return Text(r.URL, r.Heuristics, r.Violations)
}
