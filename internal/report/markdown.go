package report

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"

	"github.com/Bahjat/a11y-scan/internal/model"
)

// MarkdownWriter outputs the report as GitHub-flavoured Markdown.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{baseWriter: newBaseWriter(output)}
}

// Write outputs the report in Markdown format.
func (w *MarkdownWriter) Write(report *model.ScanReport) (int, error) {
	md := markdown.NewMarkdown(w.output)

	md.H1("Accessibility Report")
	md.PlainText("")
	md.PlainText("Target: `" + report.URL + "`")
	md.PlainText("")

	w.writeHeuristics(md, report.Heuristics)
	w.writeViolations(md, report.Violations)

	return len(md.String()), md.Build()
}

func (w *MarkdownWriter) writeHeuristics(md *markdown.Markdown, h model.HeuristicResult) {
	md.H2("Heuristic Checks")
	md.PlainText("")

	headings := MarkerFail + " none"
	if h.HeadingsCount > 0 {
		headings = MarkerPass + " " + strconv.Itoa(h.HeadingsCount)
	}

	md.Table(markdown.TableSet{
		Header: []string{"Check", "Result"},
		Rows: [][]string{
			{"Skip link", passFail(h.HasSkipLink)},
			{"Headings (h1-h3)", headings},
			{"Focusable elements", MarkerPass + " " + strconv.Itoa(h.TabbableCount)},
			{"ARIA roles/labels", passFail(h.HasARIA)},
		},
	})
	md.PlainText("")
}

func (w *MarkdownWriter) writeViolations(md *markdown.Markdown, violations []model.AuditViolation) {
	md.H2("WCAG Analysis (axe-core)")
	md.PlainText("")

	if len(violations) == 0 {
		md.Tip("No WCAG A/AA violations found.")
		md.PlainText("")
		return
	}

	md.Cautionf("%d rule(s) violated at WCAG A/AA.", len(violations))
	md.PlainText("")

	for _, v := range violations {
		md.H3(fmt.Sprintf("%s %s: %s", MarkerFail, v.ID, v.Help))
		md.PlainText("")
		if len(v.Nodes) == 0 {
			continue
		}

		snippets := make([]string, 0, len(v.Nodes))
		for _, n := range v.Nodes {
			snippets = append(snippets, flattenSnippet(n.HTML))
		}
		md.CodeBlocks(markdown.SyntaxHighlight("html"), strings.Join(snippets, "\n"))
		md.PlainText("")
	}
}

func passFail(ok bool) string {
	if ok {
		return MarkerPass + " present"
	}
	return MarkerFail + " missing"
}
