package cli

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/docker/go-units"

	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
	"github.com/cybertec-postgresql/sqlsplit/internal/manifest"
	"github.com/cybertec-postgresql/sqlsplit/internal/parser"
	"github.com/cybertec-postgresql/sqlsplit/internal/splitter"
	"github.com/cybertec-postgresql/sqlsplit/internal/writer"
)

// Split reads config.Input and writes the numbered fragments and the
// manifest into config.OutputDir. On a syntax error the fragments written
// so far are left in place and no manifest is saved. Empty input writes
// nothing, not even the directory.
func Split(ctx context.Context, config *Config) (*manifest.Manifest, error) {
	startTime := time.Now()
	log := logger.WithPhase("split")

	if err := ensureEmptyOutput(config.OutputDir); err != nil {
		return nil, err
	}

	f, err := os.Open(config.Input)
	if err != nil {
		return nil, fmt.Errorf("failed to open input: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("failed to stat input: %w", err)
	}

	log.Debug("Splitting %s (%s) into %s, budget %s",
		config.Input, units.BytesSize(float64(info.Size())), config.OutputDir, units.BytesSize(float64(config.MaxFileSize)))

	s, err := splitter.New(parser.NewParserFromReader(f), config.MaxFileSize)
	if err != nil {
		return nil, err
	}

	fw, err := writer.NewFileWriter(config.OutputDir)
	if err != nil {
		return nil, err
	}

	for {
		if err := ctx.Err(); err != nil {
			_ = fw.Close()
			return nil, err
		}

		chunk, err := s.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			_ = fw.Close()
			var syntaxErr *errors.SyntaxError
			if stderrors.As(err, &syntaxErr) {
				log.Error("Syntax error at byte %d of %s", syntaxErr.Offset, config.Input)
			}
			return nil, err
		}

		if chunk.NewFile {
			log.Debug("Starting %s", writer.FileName(len(fw.Files())+1))
		}
		if err := fw.Write(chunk); err != nil {
			_ = fw.Close()
			return nil, err
		}
	}
	if err := fw.Close(); err != nil {
		return nil, err
	}

	m := manifest.New(config.Input, config.MaxFileSize)
	m.InputBytes = info.Size()
	m.Files = fw.Files()
	m.Stats = s.Stats()

	if len(m.Files) == 0 {
		log.Info("%s holds no statements; nothing written", config.Input)
	} else {
		store := manifest.NewStore(config.OutputDir)
		if err := store.Save(m); err != nil {
			return nil, err
		}
		log.Debug("Manifest written to %s", store.Path())
	}

	printSplitSummary(stdout, config, m, time.Since(startTime))
	return m, nil
}

// ensureEmptyOutput refuses to mix a new split with fragments of an older one
func ensureEmptyOutput(dir string) error {
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return nil
	}
	existing, err := discovery.Discover(dir)
	if err != nil {
		return errors.NewConfigError("out", err.Error())
	}
	if len(existing) > 0 {
		return errors.NewConfigError("out", fmt.Sprintf("%s already contains %d fragment(s); remove them or choose another directory", dir, len(existing)))
	}
	return nil
}

func printSplitSummary(w io.Writer, config *Config, m *manifest.Manifest, elapsed time.Duration) {
	fmt.Fprintf(w, "\n")
	fmt.Fprintf(w, "%s %s -> %s\n", okColor.Sprint("Split"), config.Input, config.OutputDir)
	fmt.Fprintf(w, "%s    %d (%s written, %s input)\n", labelColor.Sprint("Files:"),
		len(m.Files), units.BytesSize(float64(m.TotalBytes())), units.BytesSize(float64(m.InputBytes)))
	fmt.Fprintf(w, "%s    %d inserts reopened, %d closed early\n", labelColor.Sprint("Split:"), m.Stats.Replays, m.Stats.Rewrites)
	if m.Stats.Oversized > 0 {
		fmt.Fprintf(w, "%s %d unit(s) exceed the budget on their own (largest %s)\n",
			warnColor.Sprint("Warning:"), m.Stats.Oversized, units.BytesSize(float64(m.Stats.LargestUnit)))
	}
	fmt.Fprintf(w, "%s     %v\n", labelColor.Sprint("Time:"), elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "\n")
}
