package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/cybertec-postgresql/sqlsplit/internal/manifest"
)

// JSONReporter renders the manifest as indented JSON with a few derived totals
type JSONReporter struct{}

// NewJSONReporter creates a new JSON reporter
func NewJSONReporter() *JSONReporter {
	return &JSONReporter{}
}

type jsonReport struct {
	*manifest.Manifest
	TotalBytes int64    `json:"total_bytes"`
	OverBudget []string `json:"over_budget,omitempty"`
}

// Format writes the JSON report to the writer
func (r *JSONReporter) Format(m *manifest.Manifest, writer io.Writer) error {
	out := jsonReport{Manifest: m, TotalBytes: m.TotalBytes()}
	for _, f := range m.OverBudget() {
		out.OverBudget = append(out.OverBudget, f.Name)
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report to JSON: %w", err)
	}

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write JSON output: %w", err)
	}

	_, err = writer.Write([]byte("\n"))
	return err
}

// Name returns the name of this reporter
func (r *JSONReporter) Name() string {
	return "json"
}
