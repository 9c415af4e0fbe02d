package report

import (
	"strings"
	"testing"
)

func TestTextReporter_Format(t *testing.T) {
	out, err := FormatToString(testManifest(), FormatText)
	if err != nil {
		t.Fatalf("FormatToString failed: %v", err)
	}

	for _, want := range []string{"1.sql", "2.sql", "3.sql", "over", "1.074KiB", "Replays:  1", "dump.sql"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	if !strings.Contains(strings.ToLower(out), "3 files") {
		t.Errorf("footer missing file count:\n%s", out)
	}
	if strings.Count(out, "over") != 1 {
		t.Errorf("only 1.sql exceeds the budget:\n%s", out)
	}
}

func TestGetFormatter(t *testing.T) {
	for _, name := range SupportedFormats() {
		f, err := GetFormatter(FormatType(name))
		if err != nil {
			t.Fatalf("GetFormatter(%q) error = %v", name, err)
		}
		if f.Name() != name {
			t.Errorf("Name() = %q, want %q", f.Name(), name)
		}
		if !ValidFormat(name) {
			t.Errorf("ValidFormat(%q) = false", name)
		}
	}

	if _, err := GetFormatter("html"); err == nil {
		t.Error("expected error for unsupported format")
	}
	if ValidFormat("lcov") {
		t.Error("ValidFormat(lcov) = true")
	}
}
