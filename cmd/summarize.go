package cmd

import (
	"github.com/provscope/provscope/core"
	"github.com/provscope/provscope/internal/contract"
	"github.com/spf13/cobra"
)

// summarizeCmd runs the configured summarization strategies over a graph.
var summarizeCmd = &cobra.Command{
	Use:   "summarize <graph-file>",
	Short: "Cluster related nodes into labeled summary groups.",
	Long: `Condense a provenance graph by clustering related nodes into nested,
labeled groups.

Strategies can be chained with commas and run in order inside a single
summarization pass:
- proctree: rebuild the process hierarchy as nested groups
- extension: group files sharing an extension within a group
- uniqueio: fold exclusive fan-in/fan-out leaves under their hub
- timecluster / timecluster-procs: split flat groups into time-contiguous clusters
- smallgroups: bound group size as a last-resort fallback
- neighbors: merge nodes with identical neighbor sets
- regex:<pattern>: group nodes whose labels match a pattern

Examples:
  # Reconstruct the process tree, then cluster big groups by time
  provscope summarize trace.json --strategy proctree,timecluster

  # Group log files with identical connectivity
  provscope summarize trace.json --strategy extension --ext-threshold 3

  # Export the summary for downstream tooling
  provscope summarize trace.json --output json --output-file summary.json`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteSummarize(rootCtx, cfg, runStore); err != nil {
			contract.LogFatal("Cannot summarize graph", err)
		}
	},
}
