package report

import (
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/Bahjat/a11y-scan/internal/model"
)

// TextWriter writes the Text rendering, optionally coloured for terminals.
type TextWriter struct {
	baseWriter
	colored bool
}

// TextWriterOption configures a TextWriter.
type TextWriterOption func(*TextWriter)

// WithColor colours passing lines green, failing lines red and section
// headers bold.
func WithColor(enabled bool) TextWriterOption {
	return func(w *TextWriter) {
		w.colored = enabled
	}
}

// NewTextWriter creates a TextWriter for output.
func NewTextWriter(output io.Writer, opts ...TextWriterOption) *TextWriter {
	w := &TextWriter{baseWriter: newBaseWriter(output)}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write renders the report.
func (w *TextWriter) Write(report *model.ScanReport) (int, error) {
	text := TextOf(report)
	if w.colored {
		text = colorize(text)
	}
	return w.output.Write([]byte(text))
}

func colorize(text string) string {
	pass := color.New(color.FgGreen)
	fail := color.New(color.FgRed)
	head := color.New(color.Bold)
	node := color.New(color.FgHiBlack)
	for _, c := range []*color.Color{pass, fail, head, node} {
		c.EnableColor()
	}

	lines := strings.SplitAfter(text, "\n")
	var sb strings.Builder
	for _, line := range lines {
		body := strings.TrimSuffix(line, "\n")
		nl := line[len(body):]

		switch {
		case strings.HasPrefix(body, MarkerPass):
			body = pass.Sprint(body)
		case strings.HasPrefix(body, MarkerFail):
			body = fail.Sprint(body)
		case strings.HasPrefix(body, "  →"):
			body = node.Sprint(body)
		case strings.HasPrefix(body, "🔍"), strings.HasPrefix(body, "🧪"):
			body = head.Sprint(body)
		}
		sb.WriteString(body)
		sb.WriteString(nl)
	}
	return sb.String()
}
