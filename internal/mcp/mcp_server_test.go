package mcp_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/provscope/provscope/internal/contract"
	mcp_internal "github.com/provscope/provscope/internal/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// writeTestGraph drops a small valid graph document into a temp file.
func writeTestGraph(t *testing.T) string {
	t.Helper()
	doc := `{
		"time_base": 0,
		"objects": [
			{"id": 1, "kind": "process", "name": "/bin/sh", "pid": 10},
			{"id": 2, "kind": "artifact", "name": "/tmp/out.log"}
		],
		"nodes": [
			{"id": 1, "object": 1, "time": 1.0},
			{"id": 2, "object": 2, "time": 2.0}
		],
		"edges": [
			{"kind": "data", "src": 1, "dst": 2}
		]
	}`
	path := filepath.Join(t.TempDir(), "graph.json")
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	return path
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	baseCfg := &contract.Config{
		ResultLimit:    contract.DefaultResultLimit,
		RankIterations: contract.DefaultRankIterations,
	}

	s := mcp_internal.NewMCPServer(baseCfg)
	ctx := context.Background()

	t.Run("summarize_graph missing graph_path", func(t *testing.T) {
		tool := s.GetTool("summarize_graph")
		require.NotNil(t, tool, "Tool summarize_graph should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "summarize_graph",
				Arguments: map[string]any{
					"strategy": "extension",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err, "The MCP handler should not return a raw error for tool logic failures")
		assert.True(t, res.IsError, "The response should indicate an error state")
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "graph_path is required")
	})

	t.Run("summarize_graph unknown strategy", func(t *testing.T) {
		tool := s.GetTool("summarize_graph")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "summarize_graph",
				Arguments: map[string]any{
					"graph_path": writeTestGraph(t),
					"strategy":   "bogus",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "unknown strategy")
	})

	t.Run("summarize_graph no strategy", func(t *testing.T) {
		tool := s.GetTool("summarize_graph")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "summarize_graph",
				Arguments: map[string]any{
					"graph_path": writeTestGraph(t),
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, res.Content[0].(mcp.TextContent).Text, "no summarization strategy")
	})
}

func TestMCPServerHandlers_Success(t *testing.T) {
	baseCfg := &contract.Config{
		ResultLimit:        contract.DefaultResultLimit,
		ExtensionThreshold: contract.DefaultExtensionThreshold,
		RankIterations:     20,
	}

	s := mcp_internal.NewMCPServer(baseCfg)
	ctx := context.Background()
	graphPath := writeTestGraph(t)

	t.Run("graph_stats", func(t *testing.T) {
		tool := s.GetTool("graph_stats")
		require.NotNil(t, tool, "Tool graph_stats should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "graph_stats",
				Arguments: map[string]any{
					"graph_path": graphPath,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)
		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, `"nodes": 2`)
		assert.Contains(t, text, `"processes": 1`)
		assert.Contains(t, text, `"artifacts": 1`)
	})

	t.Run("rank_graph", func(t *testing.T) {
		tool := s.GetTool("rank_graph")
		require.NotNil(t, tool, "Tool rank_graph should exist")

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "rank_graph",
				Arguments: map[string]any{
					"graph_path": graphPath,
					"limit":      1.0,
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)
		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, `"score"`)
		// The artifact sits downstream of the process, so it ranks first.
		assert.Contains(t, text, "out.log")
	})

	t.Run("summarize_graph", func(t *testing.T) {
		tool := s.GetTool("summarize_graph")
		require.NotNil(t, tool)

		req := mcp.CallToolRequest{
			Params: mcp.CallToolParams{
				Name: "summarize_graph",
				Arguments: map[string]any{
					"graph_path": graphPath,
					"strategy":   "extension",
				},
			},
		}

		res, err := tool.Handler(ctx, req)
		require.NoError(t, err)
		require.False(t, res.IsError)
		text := res.Content[0].(mcp.TextContent).Text
		assert.Contains(t, text, `"groups_created"`)
		assert.Contains(t, text, `"tree"`)
	})
}
