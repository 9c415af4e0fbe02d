package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/cybertec-postgresql/sqlsplit/internal/manifest"
)

// Formatter is an interface for split report formatters
type Formatter interface {
	// Format renders the manifest and writes it to the writer
	Format(m *manifest.Manifest, writer io.Writer) error

	// Name returns the name of this formatter
	Name() string
}

// FormatType represents supported report formats
type FormatType string

const (
	FormatJSON FormatType = "json"
	FormatText FormatType = "text"
)

// GetFormatter returns a formatter for the specified format type
func GetFormatter(format FormatType) (Formatter, error) {
	switch format {
	case FormatJSON:
		return NewJSONReporter(), nil
	case FormatText:
		return NewTextReporter(), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s (supported: %s)", format, strings.Join(SupportedFormats(), ", "))
	}
}

// FormatToString renders the manifest using the specified format
func FormatToString(m *manifest.Manifest, format FormatType) (string, error) {
	formatter, err := GetFormatter(format)
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	if err := formatter.Format(m, &sb); err != nil {
		return "", err
	}
	return sb.String(), nil
}

// ValidFormat checks if a format string is valid
func ValidFormat(format string) bool {
	switch FormatType(format) {
	case FormatJSON, FormatText:
		return true
	default:
		return false
	}
}

// SupportedFormats returns a list of supported format names
func SupportedFormats() []string {
	return []string{string(FormatJSON), string(FormatText)}
}
