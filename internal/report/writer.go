package report

import (
	"io"

	"github.com/Bahjat/a11y-scan/internal/model"
)

// Writer writes a scan report in one output format.
type Writer interface {
	Write(report *model.ScanReport) (int, error)
}

// baseWriter provides the output destination shared by all writers.
type baseWriter struct {
	output io.Writer
}

func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// Format names an output format accepted by NewWriter.
type Format string

// Supported formats.
const (
	FormatText     Format = "text"
	FormatMarkdown Format = "markdown"
	FormatJSON     Format = "json"
)

// NewWriter returns the Writer for format. Unknown formats yield ok=false.
func NewWriter(format Format, output io.Writer, colored bool) (Writer, bool) {
	switch format {
	case FormatText:
		return NewTextWriter(output, WithColor(colored)), true
	case FormatMarkdown:
		return NewMarkdownWriter(output), true
	case FormatJSON:
		return NewJSONWriter(output), true
	}
	return nil, false
}
