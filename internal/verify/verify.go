// Package verify checks that split output files are independently valid SQL.
package verify

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
	"github.com/cybertec-postgresql/sqlsplit/internal/parser"
)

// Check parses src and reports whether it is a sequence of complete
// statements: it must parse, every values tuple must continue an INSERT
// opened earlier in the same input, and no INSERT may be left open.
func Check(src io.Reader) error {
	p := parser.NewParserFromReader(src)
	open := false
	for {
		u, err := p.Next()
		if err != nil {
			return err
		}
		switch u.Type {
		case parser.End:
			if open {
				return fmt.Errorf("INSERT left open at end of file")
			}
			return nil
		case parser.Insert:
			open = u.Terminator() == ','
		case parser.ValuesTuple:
			if !open {
				return fmt.Errorf("values tuple without an open INSERT")
			}
			open = u.Terminator() == ','
		case parser.Block:
			if open {
				return fmt.Errorf("statement inside an open INSERT")
			}
		case parser.CommentUnit, parser.Whitespace:
		default:
			return fmt.Errorf("unhandled unit type %v", u.Type)
		}
	}
}

// CheckFile runs Check over the file at path.
func CheckFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return Check(f)
}

// Result is the verification outcome for one file.
type Result struct {
	Path     string
	Err      error
	Duration time.Duration
}

// Passed reports whether the file verified cleanly.
func (r *Result) Passed() bool { return r.Err == nil }

// Verifier checks many files with bounded parallelism. Each file is parsed
// by its own single-threaded pipeline.
type Verifier struct {
	maxWorkers int
}

// NewVerifier creates a verifier running at most maxWorkers checks at once
func NewVerifier(maxWorkers int) *Verifier {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Verifier{maxWorkers: maxWorkers}
}

// VerifyFiles checks every path and returns one result per path, in the
// order given. Verification failures are reported in the results; the
// returned error is non-nil only when ctx is cancelled.
func (v *Verifier) VerifyFiles(ctx context.Context, paths []string) ([]*Result, error) {
	results := make([]*Result, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(v.maxWorkers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			start := time.Now()
			err := CheckFile(path)
			if err != nil {
				err = errors.NewVerifyError(filepath.Base(path), err.Error())
			}
			results[i] = &Result{
				Path:     path,
				Err:      err,
				Duration: time.Since(start),
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Failed returns the results that did not pass.
func Failed(results []*Result) []*Result {
	var failed []*Result
	for _, r := range results {
		if r != nil && !r.Passed() {
			failed = append(failed, r)
		}
	}
	return failed
}
