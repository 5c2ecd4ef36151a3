// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/provscope/provscope/internal/contract"
)

// NewMCPServer initializes and configures the provenance MCP server without
// starting it. This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config) *server.MCPServer {
	s := server.NewMCPServer(
		"Provenance Graph Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
	}

	// --- 1. Tool: summarize_graph ---
	s.AddTool(mcp.NewTool("summarize_graph",
		mcp.WithDescription("Summarize a provenance graph by clustering related nodes into labeled groups."),
		mcp.WithString("graph_path", mcp.Description("Path to the provenance graph JSON file (defaults to the configured graph).")),
		mcp.WithString("strategy", mcp.Description("Comma-separated strategy list (extension, uniqueio, timecluster, timecluster-procs, smallgroups, proctree, neighbors, regex:<pattern>).")),
		mcp.WithBoolean("cleanup", mcp.Description("Run orphan assignment and singleton collapse after the strategies.")),
	), h.handleSummarizeGraph)

	// --- 2. Tool: rank_graph ---
	s.AddTool(mcp.NewTool("rank_graph",
		mcp.WithDescription("Rank provenance graph nodes by importance using random-walk score propagation."),
		mcp.WithString("graph_path", mcp.Description("Path to the provenance graph JSON file.")),
		mcp.WithNumber("iterations", mcp.Description("Fixed-point iteration count. Defaults to 200.")),
		mcp.WithNumber("limit", mcp.Description("Limit the number of results returned.")),
	), h.handleRankGraph)

	// --- 3. Tool: graph_stats ---
	s.AddTool(mcp.NewTool("graph_stats",
		mcp.WithDescription("Report coarse statistics for a provenance graph: node, edge, object and group counts."),
		mcp.WithString("graph_path", mcp.Description("Path to the provenance graph JSON file.")),
	), h.handleGraphStats)

	return s
}

// StartMCPServer starts the provenance MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config) error {
	s := NewMCPServer(baseCfg)
	return server.ServeStdio(s)
}
