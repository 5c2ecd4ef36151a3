package cmd

import (
	"fmt"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/internal/outwriter"
	"github.com/provscope/provscope/internal/parquet"
	"github.com/provscope/provscope/internal/runstore"
	"github.com/provscope/provscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// runsSetup loads minimal configuration needed for run tracking operations.
// This is used by commands that need store access without a graph file.
func runsSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	// Get run-tracking config values
	backendStr := viper.GetString("run-backend")
	connStr := viper.GetString("run-db-connect")

	// Handle empty backend as NoneBackend
	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// Initialize the store with the loaded config
	store, err := runstore.NewRunStore(backend, connStr)
	if err != nil {
		return fmt.Errorf("failed to initialize run tracking: %w", err)
	}
	runStore = store

	// Output-related config values used by status and export
	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr
	cfg.Output = schema.OutputFormat(viper.GetString("output"))
	cfg.OutputFile = viper.GetString("output-file")
	cfg.ResultLimit = viper.GetInt("limit")
	cfg.Precision = viper.GetInt("precision")
	cfg.Width = viper.GetInt("width")
	cfg.UseColors = viper.GetString("color") != "no"

	return nil
}

// runsSetupWrapper wraps runsSetup to provide PreRunE for runs commands.
func runsSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsSetup()
}

// runsMigrateSetup loads minimal configuration needed for migrate operations.
// It does NOT open the store or create tables, allowing migrations to run on
// a fresh database.
func runsMigrateSetup() error {
	if err := loadConfigFile(); err != nil {
		return err
	}

	backendStr := viper.GetString("run-backend")
	connStr := viper.GetString("run-db-connect")

	var backend schema.DatabaseBackend
	if backendStr == "" {
		backend = schema.NoneBackend
	} else {
		backend = schema.DatabaseBackend(backendStr)
	}

	// For SQLite backend with empty connection string, use default path
	if backend == schema.SQLiteBackend && connStr == "" {
		connStr = contract.GetRunDBFilePath()
	}

	cfg.RunBackend = backend
	cfg.RunDBConnect = connStr

	return nil
}

// runsMigrateSetupWrapper wraps runsMigrateSetup to provide PreRunE for the migrate command.
func runsMigrateSetupWrapper(_ *cobra.Command, _ []string) error {
	return runsMigrateSetup()
}

// runsCmd focused on run tracking data management.
//
// Note: Runs subcommands use minimal initialization (runsSetup) instead of
// the full sharedSetup used by graph commands. This avoids graph loading and
// complex config processing for simple store operations.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Manage historical run tracking and exports",
	Long: `Manage historical run data recorded for summarize and rank invocations.

When enabled, provscope tracks every run, storing:
- Run metadata (timestamp, strategies, duration)
- Outcome counts (nodes processed, groups created)
- Score statistics for ranking runs

Supported backends: SQLite, MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - List recent runs
  export  - Export run history to Parquet for analytics
  clear   - Remove all tracking data
  migrate - Run database schema migrations

Examples:
  # List recent runs
  provscope runs status --run-backend sqlite

  # Export for analysis in pandas/DuckDB
  provscope runs export --run-backend sqlite --output-file runs.parquet`,
}

// runsStatusCmd lists recent runs.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "List recent summarize and rank runs",
	Long: `Show the most recent tracked runs, newest first.

Displays:
- Run kind (summarize or rank) and the strategies used
- Start time and duration
- Nodes processed and groups created

Examples:
  # Show the last 25 runs
  provscope runs status --run-backend sqlite

  # Show more history as JSON
  provscope runs status --run-backend sqlite --limit 100 --output json`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		records, err := runStore.Runs(cfg.ResultLimit)
		if err != nil {
			contract.LogFatal("Failed to read run history", err)
		}
		if err := outwriter.NewOutWriter().WriteRuns(records, cfg); err != nil {
			contract.LogFatal("Failed to write run history", err)
		}
	},
}

// runsClearCmd clears the run tracking data.
var runsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all historical run tracking data",
	Long: `Delete all stored run records.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  # Export before clearing
  provscope runs export --run-backend sqlite --output-file backup.parquet
  provscope runs clear --run-backend sqlite`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runStore.Clear(); err != nil {
			contract.LogFatal("Failed to clear run data", err)
		}
		fmt.Println("Run data cleared successfully.")
	},
}

// runsExportCmd exports run history to a Parquet file.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet for BI tools and analytics",
	Long: `Export all stored run records to Parquet format for use with analytics tools.

Parquet format enables:
- Fast querying with DuckDB, Apache Spark, pandas
- Efficient storage with columnar compression
- Direct import into BI tools

Requires: --output-file parameter

Examples:
  # Export all data
  provscope runs export --run-backend sqlite --output-file runs.parquet

  # Use with DuckDB for analysis
  duckdb -c "SELECT * FROM read_parquet('runs.parquet') LIMIT 10"`,
	PreRunE: runsSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if cfg.OutputFile == "" {
			contract.LogFatal("Failed to export run data", fmt.Errorf("--output-file is required"))
		}
		records, err := runStore.Runs(contract.MaxResultLimit)
		if err != nil {
			contract.LogFatal("Failed to read run history", err)
		}
		if err := parquet.WriteRunsParquet(parquet.FromRunRecords(records), cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export run data", err)
		}
		fmt.Printf("Exported %d runs to %s\n", len(records), cfg.OutputFile)
	},
}

// runsMigrateCmd runs database migrations for the run store.
var runsMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage database schema versions for the run tracking store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  provscope runs migrate --run-backend sqlite

  # Migrate to specific version
  provscope runs migrate --run-backend sqlite --target-version 1

  # Rollback to initial state
  provscope runs migrate --run-backend sqlite --target-version 0`,
	PreRunE: runsMigrateSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := runstore.MigrateRuns(cfg.RunBackend, cfg.RunDBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
