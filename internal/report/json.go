package report

import (
	"encoding/json"
	"io"

	"github.com/Bahjat/a11y-scan/internal/model"
)

// JSONWriter outputs the typed report as indented JSON.
type JSONWriter struct {
	baseWriter
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer) *JSONWriter {
	return &JSONWriter{baseWriter: newBaseWriter(output)}
}

// Write encodes the report. A nil violation list is written as [].
func (w *JSONWriter) Write(report *model.ScanReport) (int, error) {
	out := *report
	if out.Violations == nil {
		out.Violations = []model.AuditViolation{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return 0, err
	}
	data = append(data, '\n')
	return w.output.Write(data)
}
