// Package loader applies split output to PostgreSQL, fragment by fragment.
// Fragments must be PostgreSQL SQL, e.g. a split of pg_dump --inserts output.
package loader

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/cybertec-postgresql/sqlsplit/internal/database"
	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
	"github.com/cybertec-postgresql/sqlsplit/internal/logger"
)

// Loader executes fragments in order. Each fragment runs in its own
// transaction, so a failing fragment leaves no partial effect behind while
// the fragments before it stay committed.
type Loader struct {
	pool    *database.Pool
	timeout time.Duration
	dryRun  bool
	log     *logger.Logger
}

// NewLoader creates a loader. With dryRun set, fragments are applied to a
// temporary database that is dropped afterwards.
func NewLoader(pool *database.Pool, timeout time.Duration, dryRun bool, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Default()
	}
	return &Loader{
		pool:    pool,
		timeout: timeout,
		dryRun:  dryRun,
		log:     log,
	}
}

// Load applies fragments in the order given and stops at the first
// failure; the fragments after it are reported as skipped. The returned
// error is reserved for problems outside the fragments themselves.
func (l *Loader) Load(ctx context.Context, fragments []discovery.DiscoveredFile) ([]*FragmentRun, error) {
	target := l.pool.Pool
	if l.dryRun {
		tempPool, err := database.CreateTempDatabase(ctx, l.pool)
		if err != nil {
			return nil, err
		}
		l.log.Debug("Created temp database: %s", tempPool.Config().ConnConfig.Database)
		defer func() {
			cleanupCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := database.DestroyTempDatabase(cleanupCtx, l.pool, tempPool); err != nil {
				l.log.Warn("Failed to drop temp database: %v", err)
			}
		}()
		target = tempPool
	}

	runs := make([]*FragmentRun, len(fragments))
	for i := range fragments {
		runs[i] = &FragmentRun{Fragment: &fragments[i], Status: FragmentPending}
	}

	for i, run := range runs {
		if err := ctx.Err(); err != nil {
			markSkipped(runs[i:])
			return runs, err
		}

		l.log.Debug("Loading fragment: %s", run.Fragment.RelativePath)
		l.apply(ctx, target, run)
		if run.Status == FragmentFailed {
			l.log.Error("%v", run.Error)
			markSkipped(runs[i+1:])
			break
		}
	}

	return runs, nil
}

// apply runs one fragment inside a transaction with the per-fragment timeout
func (l *Loader) apply(ctx context.Context, target *pgxpool.Pool, run *FragmentRun) {
	run.StartTime = time.Now()
	defer func() { run.EndTime = time.Now() }()

	content, err := os.ReadFile(run.Fragment.Path)
	if err != nil {
		run.Status = FragmentFailed
		run.Error = errors.NewLoadError(run.Fragment.RelativePath, fmt.Errorf("failed to read fragment: %w", err))
		return
	}

	fragCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	err = pgx.BeginFunc(fragCtx, target, func(tx pgx.Tx) error {
		_, err := tx.Exec(fragCtx, string(content))
		return err
	})
	if err != nil {
		run.Status = FragmentFailed
		run.Error = errors.NewLoadError(run.Fragment.RelativePath, err)
		return
	}
	run.Status = FragmentLoaded
}

func markSkipped(runs []*FragmentRun) {
	for _, run := range runs {
		if run.Status == FragmentPending {
			run.Status = FragmentSkipped
		}
	}
}
