package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/provscope/provscope/core"
	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/internal/provio"
	"github.com/provscope/provscope/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
}

// loadGraph resolves the graph path override and loads the graph.
func (h *toolHandler) loadGraph(request mcp.CallToolRequest) (*contract.Config, *schema.Graph, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("graph_path", ""); p != "" {
		cfg.GraphPath = p
	}
	if cfg.GraphPath == "" {
		return nil, nil, fmt.Errorf("graph_path is required when no default graph is configured")
	}
	g, err := provio.LoadFile(cfg.GraphPath)
	if err != nil {
		return nil, nil, err
	}
	return cfg, g, nil
}

func (h *toolHandler) handleSummarizeGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, g, err := h.loadGraph(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load graph: %v", err)), nil
	}

	strategyList := cfg.Strategies
	if s := request.GetString("strategy", ""); s != "" {
		strategyList = nil
		for part := range strings.SplitSeq(s, ",") {
			if name := strings.TrimSpace(part); name != "" {
				strategyList = append(strategyList, strings.ToLower(name))
			}
		}
	}
	if len(strategyList) == 0 {
		return mcp.NewToolResultError("no summarization strategy given"), nil
	}

	strategies := make([]core.Summarizer, 0, len(strategyList))
	for _, name := range strategyList {
		s, err := core.NewSummarizer(name, cfg)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("invalid strategy: %v", err)), nil
		}
		strategies = append(strategies, s)
	}

	cleanup := request.GetBool("cleanup", cfg.Cleanup)
	created, err := core.Summarize(ctx, g, strategies, cleanup, nil)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("summarization failed: %v", err)), nil
	}

	result := struct {
		GroupsCreated int                 `json:"groups_created"`
		Tree          []schema.SummaryRow `json:"tree"`
	}{
		GroupsCreated: created,
		Tree:          core.SummaryRows(g),
	}
	jsonData, _ := json.MarshalIndent(result, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleRankGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, g, err := h.loadGraph(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load graph: %v", err)), nil
	}

	iterations := request.GetInt("iterations", cfg.RankIterations)
	if err := core.Rank(ctx, g, iterations, nil); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("ranking failed: %v", err)), nil
	}

	limit := request.GetInt("limit", cfg.ResultLimit)
	if limit <= 0 {
		limit = contract.DefaultResultLimit
	}
	results := core.RankResults(g, limit)
	jsonData, _ := json.MarshalIndent(results, "", "  ")

	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGraphStats(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	_, g, err := h.loadGraph(request)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to load graph: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(g.Stats(), "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
