package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/docker/go-units"

	"github.com/cybertec-postgresql/sqlsplit/internal/database"
	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/loader"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
)

// Load applies the fragments in dir to PostgreSQL and returns the exit code
func Load(ctx context.Context, config *Config, dir string) (int, error) {
	startTime := time.Now()
	log := logger.WithPhase("load")

	files, err := discovery.Discover(dir)
	if err != nil {
		return 1, fmt.Errorf("failed to discover fragments: %w", err)
	}
	if len(files) == 0 {
		fmt.Fprintf(stdout, "No fragments found in %s (N.sql)\n", dir)
		return 0, nil
	}
	if err := discovery.CheckContiguous(files); err != nil {
		return 1, err
	}

	pool, err := database.NewPool(ctx, config)
	if err != nil {
		return 1, fmt.Errorf("database connection failed: %w", err)
	}
	defer pool.Close()

	cc := pool.Pool.Config().ConnConfig
	log.Debug("Connected to PostgreSQL at %s:%d/%s", cc.Host, cc.Port, cc.Database)
	if config.DryRun {
		log.Info("Dry run: fragments are loaded into a temporary database")
	}

	runs, err := loader.NewLoader(pool, config.Timeout, config.DryRun, log).Load(ctx, files)
	if err != nil {
		return 1, fmt.Errorf("load failed: %w", err)
	}

	summary := loader.Summarize(runs)
	for _, run := range runs {
		if run.Status == loader.FragmentFailed {
			fmt.Fprintf(stdout, "%s %v\n", failColor.Sprint("FAIL"), run.Error)
		}
	}

	fmt.Fprintf(stdout, "\n")
	fmt.Fprintf(stdout, "%s %d loaded, %d failed, %d skipped, %d total (%s)\n", labelColor.Sprint("Fragments:"),
		summary.Loaded, summary.Failed, summary.Skipped, summary.Total, units.BytesSize(float64(summary.Bytes)))
	fmt.Fprintf(stdout, "%s      %v\n", labelColor.Sprint("Time:"), time.Since(startTime).Round(time.Millisecond))
	if summary.AllLoaded() {
		fmt.Fprintf(stdout, "%s\n", okColor.Sprint("OK"))
	}

	return summary.ExitCode(), nil
}
