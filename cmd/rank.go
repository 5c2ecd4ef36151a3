package cmd

import (
	"github.com/provscope/provscope/core"
	"github.com/provscope/provscope/internal/contract"
	"github.com/spf13/cobra"
)

// rankCmd runs the node ranking engine over a graph.
var rankCmd = &cobra.Command{
	Use:   "rank <graph-file>",
	Short: "Rank nodes by importance score.",
	Long: `Score every node by propagating importance along edges until the
distribution stabilizes, then show the top nodes.

Highly-scored nodes are the ones many causal paths flow through: long-lived
server processes, hub artifacts, shared configuration files.

Examples:
  # Show the 25 most important nodes
  provscope rank trace.json

  # More iterations for a large graph, exported as CSV
  provscope rank trace.json --iterations 500 --output csv --output-file rank.csv`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteRank(rootCtx, cfg, runStore); err != nil {
			contract.LogFatal("Cannot rank graph", err)
		}
	},
}
