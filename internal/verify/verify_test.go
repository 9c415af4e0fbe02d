package verify

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		sql     string
		wantErr string
	}{
		{name: "empty", sql: ""},
		{name: "complete insert", sql: "INSERT INTO t VALUES (1),(2);\n"},
		{name: "ddl and comments", sql: "-- x\nCREATE TABLE t (a int);\n/* y */"},
		{name: "open insert", sql: "INSERT INTO t VALUES (1),", wantErr: "left open"},
		{name: "orphan tuple", sql: "(1),(2);", wantErr: "without an open INSERT"},
		{name: "block inside insert", sql: "INSERT INTO t VALUES (1),\nDROP TABLE t;", wantErr: "inside an open INSERT"},
		{name: "syntax error", sql: "SELECT 'x", wantErr: "Unclosed string."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Check(strings.NewReader(tt.sql))
			if tt.wantErr == "" {
				if err != nil {
					t.Fatalf("Check() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("Check() error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func writeFiles(t *testing.T, contents ...string) []string {
	t.Helper()
	dir := t.TempDir()
	var paths []string
	for i, c := range contents {
		p := filepath.Join(dir, strings.Repeat("f", i+1)+".sql")
		if err := os.WriteFile(p, []byte(c), 0644); err != nil {
			t.Fatalf("failed to write %s: %v", p, err)
		}
		paths = append(paths, p)
	}
	return paths
}

func TestVerifyFiles(t *testing.T) {
	paths := writeFiles(t,
		"INSERT INTO t VALUES (1);",
		"INSERT INTO t VALUES (2),",
		"SET x=1;",
		"(3);",
	)

	for _, workers := range []int{0, 1, 4} {
		results, err := NewVerifier(workers).VerifyFiles(context.Background(), paths)
		if err != nil {
			t.Fatalf("VerifyFiles() error = %v", err)
		}
		if len(results) != len(paths) {
			t.Fatalf("got %d results", len(results))
		}
		for i, r := range results {
			if r.Path != paths[i] {
				t.Errorf("result %d is for %s, want %s", i, r.Path, paths[i])
			}
		}
		failed := Failed(results)
		if len(failed) != 2 || failed[0].Path != paths[1] || failed[1].Path != paths[3] {
			t.Errorf("workers=%d: unexpected failures %v", workers, failed)
		}
	}
}

func TestVerifyFiles_MissingFile(t *testing.T) {
	results, err := NewVerifier(2).VerifyFiles(context.Background(), []string{filepath.Join(t.TempDir(), "nope.sql")})
	if err != nil {
		t.Fatalf("VerifyFiles() error = %v", err)
	}
	if results[0].Passed() {
		t.Fatal("missing file passed verification")
	}
}

func TestVerifyFiles_Cancelled(t *testing.T) {
	paths := writeFiles(t, "SET x=1;")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := NewVerifier(1).VerifyFiles(ctx, paths); err == nil {
		t.Fatal("expected cancellation error")
	}
}
