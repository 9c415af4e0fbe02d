package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
	"github.com/cybertec-postgresql/sqlsplit/internal/manifest"
	"github.com/cybertec-postgresql/sqlsplit/internal/verify"
)

// Verify checks that every fragment in dir is valid on its own and that
// the fragments match the manifest when one is present. It returns the
// exit code.
func Verify(ctx context.Context, config *Config, dir string) (int, error) {
	startTime := time.Now()
	log := logger.WithPhase("verify")

	files, err := discovery.Discover(dir)
	if err != nil {
		return 1, fmt.Errorf("failed to discover fragments: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintf(stdout, "No fragments found in %s (N.sql)\n", dir)
		return 1, nil
	}
	if err := discovery.CheckContiguous(files); err != nil {
		return 1, err
	}

	problems := 0
	if store := manifest.NewStore(dir); store.Exists() {
		m, err := store.Load()
		if err != nil {
			return 1, err
		}
		for _, msg := range compareManifest(m, files) {
			fmt.Fprintf(stdout, "%s %s\n", failColor.Sprint("MISMATCH"), msg)
			problems++
		}
	} else {
		log.Warn("No %s in %s; checking fragments only", manifest.FileName, dir)
	}

	log.Debug("Verifying %d fragment(s) with %d worker(s)", len(files), config.Parallelism)
	results, err := verify.NewVerifier(config.Parallelism).VerifyFiles(ctx, discovery.Paths(files))
	if err != nil {
		return 1, err
	}

	for _, r := range results {
		if r.Passed() {
			log.Debug("%s ok (%v)", filepath.Base(r.Path), r.Duration.Round(time.Microsecond))
			continue
		}
		fmt.Fprintf(stdout, "%s %v\n", failColor.Sprint("FAIL"), r.Err)
	}
	failed := len(verify.Failed(results))

	fmt.Fprintf(stdout, "\n%s %d passed, %d failed, %d total\n", labelColor.Sprint("Fragments:"),
		len(results)-failed, failed, len(results))
	fmt.Fprintf(stdout, "%s      %v\n", labelColor.Sprint("Time:"), time.Since(startTime).Round(time.Millisecond))

	if failed > 0 || problems > 0 {
		return 1, nil
	}
	fmt.Fprintf(stdout, "%s\n", okColor.Sprint("OK"))
	return 0, nil
}

// compareManifest lists differences between the manifest and the files on disk
func compareManifest(m *manifest.Manifest, files []discovery.DiscoveredFile) []string {
	var msgs []string
	if len(m.Files) != len(files) {
		msgs = append(msgs, fmt.Sprintf("manifest lists %d file(s), found %d", len(m.Files), len(files)))
	}
	for i := 0; i < len(m.Files) && i < len(files); i++ {
		want, got := m.Files[i], files[i]
		if want.Name != got.RelativePath {
			msgs = append(msgs, fmt.Sprintf("entry %d is %s, found %s", i+1, want.Name, got.RelativePath))
			continue
		}
		if want.Bytes != got.Size {
			msgs = append(msgs, fmt.Sprintf("%s: manifest says %d bytes, file has %d", want.Name, want.Bytes, got.Size))
		}
	}
	return msgs
}
