package report

import (
	"fmt"
	"io"

	"github.com/docker/go-units"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/cybertec-postgresql/sqlsplit/internal/manifest"
)

// TextReporter renders the manifest as a table, one row per output file
type TextReporter struct{}

// NewTextReporter creates a new text reporter
func NewTextReporter() *TextReporter {
	return &TextReporter{}
}

// Format writes the table and a short summary to the writer
func (r *TextReporter) Format(m *manifest.Manifest, writer io.Writer) error {
	t := table.NewWriter()
	t.SetOutputMirror(writer)
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"File", "Size", "Bytes", "Chunks", "Inserts", "Tuples", "Blocks", ""})

	for _, f := range m.Files {
		mark := ""
		if f.Bytes > int64(m.MaxFileSize) {
			mark = "over"
		}
		t.AppendRow(table.Row{
			f.Name,
			units.BytesSize(float64(f.Bytes)),
			f.Bytes,
			f.Chunks,
			f.Units["insert"],
			f.Units["values"],
			f.Units["block"],
			mark,
		})
	}
	t.AppendFooter(table.Row{
		fmt.Sprintf("%d files", len(m.Files)),
		units.BytesSize(float64(m.TotalBytes())),
		m.TotalBytes(),
	})
	t.Render()

	_, err := fmt.Fprintf(writer, "\nInput:    %s (%s)\nBudget:   %s per file\nReplays:  %d\nRewrites: %d\nOversized units: %d (largest %s)\n",
		m.Input, units.BytesSize(float64(m.InputBytes)),
		units.BytesSize(float64(m.MaxFileSize)),
		m.Stats.Replays, m.Stats.Rewrites,
		m.Stats.Oversized, units.BytesSize(float64(m.Stats.LargestUnit)))
	return err
}

// Name returns the name of this reporter
func (r *TextReporter) Name() string {
	return "text"
}
