package cli

import (
	"fmt"
	"os"

	"github.com/cybertec-postgresql/sqlsplit/internal/manifest"
	"github.com/cybertec-postgresql/sqlsplit/internal/report"
)

// Report renders the manifest of a split directory
func Report(dir string, format string, outputPath string) error {
	store := manifest.NewStore(dir)
	if !store.Exists() {
		return fmt.Errorf("manifest not found: %s (run 'sqlsplit split' first)", store.Path())
	}

	m, err := store.Load()
	if err != nil {
		return fmt.Errorf("failed to load manifest: %w", err)
	}

	formatter, err := report.GetFormatter(report.FormatType(format))
	if err != nil {
		return err
	}

	if outputPath == "-" || outputPath == "" {
		return formatter.Format(m, stdout)
	}

	writer, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer writer.Close()

	if err := formatter.Format(m, writer); err != nil {
		return fmt.Errorf("failed to format report: %w", err)
	}

	// stderr keeps stdout clean for piping
	fmt.Fprintf(os.Stderr, "Report written to %s\n", outputPath)
	return nil
}
