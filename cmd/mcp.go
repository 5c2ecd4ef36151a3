package cmd

import (
	"github.com/provscope/provscope/internal/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command.
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start the provscope MCP server",
	Long:  `Launch an MCP server that allows AI agents to summarize, rank and inspect provenance graphs via standard tools.`,
	PreRunE: func(cmd *cobra.Command, args []string) error {
		// Progress output stays off in MCP mode to avoid polluting
		// stdio which is used for the protocol.
		return sharedSetup(rootCtx, cmd, args)
	},
	RunE: func(_ *cobra.Command, _ []string) error {
		return mcp.StartMCPServer(rootCtx, cfg)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
}
