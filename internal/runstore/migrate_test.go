package runstore

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/provscope/provscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// normalizeSQL collapses whitespace so layout differences don't matter.
func normalizeSQL(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// TestMigrationDDLMatchesRuntime verifies that each backend's embedded
// migration creates the same schema the store creates at startup. A mismatch
// here means `runs migrate` and NewRunStore would produce tables the other
// cannot use.
func TestMigrationDDLMatchesRuntime(t *testing.T) {
	backends := []schema.DatabaseBackend{
		schema.SQLiteBackend,
		schema.MySQLBackend,
		schema.PostgreSQLBackend,
	}
	for _, backend := range backends {
		t.Run(string(backend), func(t *testing.T) {
			up, err := migrationsFS.ReadFile(migrationDir(backend) + "/000001_create_runs_table.up.sql")
			require.NoError(t, err)
			assert.Equal(t, normalizeSQL(getCreateRunsQuery(backend)), normalizeSQL(string(up)))

			down, err := migrationsFS.ReadFile(migrationDir(backend) + "/000001_create_runs_table.down.sql")
			require.NoError(t, err)
			assert.Contains(t, string(down), "DROP TABLE IF EXISTS")
		})
	}
}

// TestMigrateRunsSQLite migrates a fresh SQLite database up, uses it through
// the store, then rolls it back.
func TestMigrateRunsSQLite(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "runs.db")

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, -1))

	// The migrated schema must accept the store's inserts and scans.
	store, err := NewRunStore(schema.SQLiteBackend, dbPath)
	require.NoError(t, err)
	id, err := store.BeginRun(time.Now().UTC(), schema.SummarizeRun, "proctree", nil)
	require.NoError(t, err)
	require.NotZero(t, id)
	runs, err := store.Runs(10)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	require.NoError(t, store.Close())

	require.NoError(t, MigrateRuns(schema.SQLiteBackend, dbPath, 0))
}

func TestMigrateRunsNoneBackend(t *testing.T) {
	err := MigrateRuns(schema.NoneBackend, "", -1)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not supported")
}
