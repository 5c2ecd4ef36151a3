package cmd

import (
	"github.com/provscope/provscope/core"
	"github.com/provscope/provscope/internal/contract"
	"github.com/spf13/cobra"
)

// statsCmd prints coarse statistics for a graph.
var statsCmd = &cobra.Command{
	Use:   "stats <graph-file>",
	Short: "Show node, edge, object and group counts for a graph.",
	Long: `Load a provenance graph and report coarse statistics: node and edge
counts, object breakdown by kind, visibility, group structure and the score
distribution from a ranking pass.

Examples:
  # Quick sanity check on a captured trace
  provscope stats trace.json

  # Machine-readable stats for dashboards
  provscope stats trace.json --output json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteStats(rootCtx, cfg, runStore); err != nil {
			contract.LogFatal("Cannot compute graph stats", err)
		}
	},
}
