package loader

import (
	"context"
	stderrors "errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cybertec-postgresql/sqlsplit/internal/database"
	"github.com/cybertec-postgresql/sqlsplit/internal/discovery"
	"github.com/cybertec-postgresql/sqlsplit/internal/errors"
	"github.com/cybertec-postgresql/sqlsplit/internal/parser"
	"github.com/cybertec-postgresql/sqlsplit/internal/splitter"
	"github.com/cybertec-postgresql/sqlsplit/internal/testutil"
	"github.com/cybertec-postgresql/sqlsplit/internal/writer"
	"github.com/cybertec-postgresql/sqlsplit/pkg/types"
)

func TestSummarize(t *testing.T) {
	start := time.Now()
	runs := []*FragmentRun{
		{Fragment: &discovery.DiscoveredFile{Size: 10}, Status: FragmentLoaded, StartTime: start, EndTime: start.Add(time.Second)},
		{Fragment: &discovery.DiscoveredFile{Size: 20}, Status: FragmentFailed, StartTime: start, EndTime: start.Add(2 * time.Second)},
		{Fragment: &discovery.DiscoveredFile{Size: 30}, Status: FragmentSkipped},
	}

	s := Summarize(runs)
	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 1, s.Loaded)
	assert.Equal(t, 1, s.Failed)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, int64(10), s.Bytes)
	assert.Equal(t, 3*time.Second, s.TotalDuration)
	assert.False(t, s.AllLoaded())
	assert.Equal(t, 1, s.ExitCode())

	assert.Equal(t, 0, Summarize(nil).ExitCode())
}

func TestFragmentStatus_String(t *testing.T) {
	assert.Equal(t, "loaded", FragmentLoaded.String())
	assert.Equal(t, "skipped", FragmentSkipped.String())
	assert.Equal(t, "unknown", FragmentStatus(99).String())
}

func setupPool(t *testing.T) *database.Pool {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}
	connString, cleanup := testutil.SetupPostgresContainer(t)
	t.Cleanup(cleanup)

	pool, err := database.NewPool(context.Background(), &types.Config{ConnectionString: connString})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func discover(t *testing.T, fragments ...string) []discovery.DiscoveredFile {
	t.Helper()
	files, err := discovery.Discover(testutil.WriteFragments(t, fragments...))
	require.NoError(t, err)
	return files
}

func count(t *testing.T, pool *database.Pool, table string) int {
	t.Helper()
	var n int
	require.NoError(t, pool.QueryRow(context.Background(), "SELECT count(*) FROM "+table).Scan(&n))
	return n
}

// splitFile splits path into dir with the given budget
func splitFile(t *testing.T, path string, max int) string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	s, err := splitter.New(parser.NewParserFromReader(f), max)
	require.NoError(t, err)
	dir := filepath.Join(t.TempDir(), "split")
	fw, err := writer.NewFileWriter(dir)
	require.NoError(t, err)
	for {
		c, err := s.Next()
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
		require.NoError(t, fw.Write(c))
	}
	require.NoError(t, fw.Close())
	return dir
}

func TestLoader_Integration(t *testing.T) {
	pool := setupPool(t)
	ctx := context.Background()

	t.Run("loads fragments in order", func(t *testing.T) {
		files := discover(t,
			"CREATE TABLE ok (a int);\nINSERT INTO ok VALUES (1);",
			"INSERT INTO ok VALUES (2);",
			"INSERT INTO ok VALUES (3),(4);",
		)
		runs, err := NewLoader(pool, time.Minute, false, nil).Load(ctx, files)
		require.NoError(t, err)
		assert.True(t, Summarize(runs).AllLoaded())
		assert.Equal(t, 4, count(t, pool, "ok"))
	})

	t.Run("stops at the first failing fragment", func(t *testing.T) {
		files := discover(t,
			"CREATE TABLE partial (a int);",
			"INSERT INTO partial VALUES (1);\nINSERT INTO partial VALUES ('x');",
			"INSERT INTO partial VALUES (3);",
		)
		runs, err := NewLoader(pool, time.Minute, false, nil).Load(ctx, files)
		require.NoError(t, err)

		assert.Equal(t, FragmentLoaded, runs[0].Status)
		assert.Equal(t, FragmentFailed, runs[1].Status)
		assert.Equal(t, FragmentSkipped, runs[2].Status)

		var loadErr *errors.LoadError
		require.True(t, stderrors.As(runs[1].Error, &loadErr))
		assert.Equal(t, "2.sql", loadErr.File)
		require.NotNil(t, loadErr.SQLError)
		assert.Equal(t, "22P02", loadErr.SQLError.Code)

		// The failing fragment was rolled back as a whole
		assert.Equal(t, 0, count(t, pool, "partial"))
	})

	t.Run("loads a split pg_dump --inserts dump", func(t *testing.T) {
		dir := splitFile(t, filepath.Join("..", "..", "testdata", "pg_inserts.sql"), 120)
		files, err := discovery.Discover(dir)
		require.NoError(t, err)
		require.Greater(t, len(files), 3)

		runs, err := NewLoader(pool, time.Minute, false, nil).Load(ctx, files)
		require.NoError(t, err)
		for _, r := range runs {
			require.Equal(t, FragmentLoaded, r.Status, "%s: %v", r.Fragment.RelativePath, r.Error)
		}
		assert.Equal(t, 8, count(t, pool, "public.customers"))
		assert.Equal(t, 7, count(t, pool, "public.orders"))
	})

	t.Run("dry run leaves the target untouched", func(t *testing.T) {
		files := discover(t, "CREATE TABLE dry (a int);", "INSERT INTO dry VALUES (1);")
		runs, err := NewLoader(pool, time.Minute, true, nil).Load(ctx, files)
		require.NoError(t, err)
		assert.True(t, Summarize(runs).AllLoaded())

		var exists bool
		require.NoError(t, pool.QueryRow(ctx, "SELECT to_regclass('dry') IS NOT NULL").Scan(&exists))
		assert.False(t, exists)

		var leftovers int
		require.NoError(t, pool.QueryRow(ctx,
			"SELECT count(*) FROM pg_database WHERE datname LIKE $1", database.TempDatabasePrefix+"%").Scan(&leftovers))
		assert.Zero(t, leftovers)
	})

	t.Run("cancelled context skips everything", func(t *testing.T) {
		files := discover(t, "SELECT 1;")
		cctx, cancel := context.WithCancel(ctx)
		cancel()
		runs, err := NewLoader(pool, time.Minute, false, nil).Load(cctx, files)
		require.Error(t, err)
		assert.Equal(t, FragmentSkipped, runs[0].Status)
	})
}
