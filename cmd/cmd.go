// Package cmd defines the command-line interface for provscope.
package cmd

import (
	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(summarizeCmd)
	rootCmd.AddCommand(rankCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(versionCmd)
	rootCmd.AddCommand(runsCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsClearCmd)
	runsCmd.AddCommand(runsExportCmd)
	runsCmd.AddCommand(runsMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().IntP("limit", "l", contract.DefaultResultLimit, "Number of results to display")
	rootCmd.PersistentFlags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Int("width", 0, "Terminal width override (0 = auto-detect)")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().String("run-backend", string(schema.NoneBackend), "Run tracking backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("run-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of summarizeCmd to Viper
	summarizeCmd.Flags().StringP("strategy", "s", "proctree", "Comma-separated strategy list: extension, uniqueio, timecluster, timecluster-procs, smallgroups, proctree, neighbors, regex:<pattern>")
	summarizeCmd.Flags().Bool("cleanup", false, "Run orphan assignment and singleton collapse after the strategies")
	summarizeCmd.Flags().Int("ext-threshold", contract.DefaultExtensionThreshold, "Minimum file count per extension group")
	summarizeCmd.Flags().Bool("ext-same-io", true, "Require identical neighbors within an extension group")
	summarizeCmd.Flags().Int("unique-threshold", contract.DefaultUniqueThreshold, "Minimum degree for unique-neighbor hub grouping")
	summarizeCmd.Flags().Int("cluster-min", contract.DefaultClusterMin, "Smallest desired timestamp cluster")
	summarizeCmd.Flags().Int("cluster-max", contract.DefaultClusterMax, "Largest desired timestamp cluster")
	summarizeCmd.Flags().Bool("cluster-raw-time", false, "Cluster on unadjusted timestamps")
	summarizeCmd.Flags().Bool("cluster-versions", false, "Keep version chains together when clustering")
	summarizeCmd.Flags().Bool("cluster-untimed-late", false, "Treat untimestamped nodes as later than everything else")
	summarizeCmd.Flags().Bool("cluster-break-times", false, "Measure cluster gaps from a node's latest-version time")
	summarizeCmd.Flags().Int("small-nodes", contract.DefaultSmallNodes, "Maximum visible children per group for the smallgroups strategy")
	summarizeCmd.Flags().Int("small-edges", contract.DefaultSmallEdges, "Maximum internal edges per group for the smallgroups strategy")
	if err := viper.BindPFlags(summarizeCmd.Flags()); err != nil {
		contract.LogFatal("Error binding summarize flags", err)
	}

	// Bind all flags of rankCmd to Viper
	rankCmd.Flags().Int("iterations", contract.DefaultRankIterations, "Fixed-point iteration count for ranking")
	if err := viper.BindPFlags(rankCmd.Flags()); err != nil {
		contract.LogFatal("Error binding rank flags", err)
	}

	// Bind all flags of runsMigrateCmd to Viper
	runsMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(runsMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding runs migrate flags", err)
	}
}
