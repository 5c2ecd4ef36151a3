package core

import (
	"context"
	"strings"
	"time"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/internal/outwriter"
	"github.com/provscope/provscope/internal/provio"
	"github.com/provscope/provscope/schema"
)

// ExecutorFunc defines the function signature for executing the top-level
// graph operations.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, store contract.RunStore) error

// ExecuteSummarize loads the graph, runs the configured strategies and prints
// the resulting tree. It serves as the main entry point for the 'summarize'
// command.
func ExecuteSummarize(ctx context.Context, cfg *contract.Config, store contract.RunStore) error {
	start := time.Now()
	g, err := provio.LoadFile(cfg.GraphPath)
	if err != nil {
		return err
	}

	strategies := make([]Summarizer, 0, len(cfg.Strategies))
	for _, name := range cfg.Strategies {
		s, err := NewSummarizer(name, cfg)
		if err != nil {
			return err
		}
		strategies = append(strategies, s)
	}

	runID := beginRun(store, start, schema.SummarizeRun, strings.Join(cfg.Strategies, ","), runParams(cfg))

	created, err := Summarize(ctx, g, strategies, cfg.Cleanup, progressMonitor(cfg))
	if err != nil {
		return err
	}
	endRun(store, runID, g.NodeCount(), created)

	rows := SummaryRows(g)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteSummary(rows, cfg, duration)
}

// ExecuteRank loads the graph, runs the ranking engine and prints the top
// nodes. It serves as the main entry point for the 'rank' command.
func ExecuteRank(ctx context.Context, cfg *contract.Config, store contract.RunStore) error {
	start := time.Now()
	g, err := provio.LoadFile(cfg.GraphPath)
	if err != nil {
		return err
	}

	runID := beginRun(store, start, schema.RankRun, "", runParams(cfg))

	if err := Rank(ctx, g, cfg.RankIterations, progressMonitor(cfg)); err != nil {
		return err
	}
	endRun(store, runID, g.NodeCount(), 0)
	if store != nil && runID != 0 {
		if err := store.RecordRankStats(runID, g.RankStats); err != nil {
			contract.LogWarn("failed to record rank stats", err)
		}
	}

	results := RankResults(g, cfg.ResultLimit)
	duration := time.Since(start)
	return outwriter.NewOutWriter().WriteRankings(results, g.RankStats, cfg, duration)
}

// ExecuteStats loads the graph and prints coarse statistics. Ranking stats
// are computed on the fly so the output includes the score distribution.
func ExecuteStats(ctx context.Context, cfg *contract.Config, _ contract.RunStore) error {
	g, err := provio.LoadFile(cfg.GraphPath)
	if err != nil {
		return err
	}

	var rank *schema.RankStats
	if err := Rank(ctx, g, cfg.RankIterations, nil); err == nil && g.HasRanking {
		stats := g.RankStats
		rank = &stats
	}

	return outwriter.NewOutWriter().WriteStats(g.Stats(), rank, cfg)
}

// beginRun opens a run record, downgrading store failures to warnings so run
// tracking never blocks the operation itself.
func beginRun(store contract.RunStore, start time.Time, kind, strategy string, params map[string]any) int64 {
	if store == nil {
		return 0
	}
	id, err := store.BeginRun(start, kind, strategy, params)
	if err != nil {
		contract.LogWarn("failed to begin run record", err)
		return 0
	}
	return id
}

// endRun finalizes a run record, downgrading store failures to warnings.
func endRun(store contract.RunStore, id int64, nodes, groupsCreated int) {
	if store == nil || id == 0 {
		return
	}
	if err := store.EndRun(id, time.Now(), nodes, groupsCreated); err != nil {
		contract.LogWarn("failed to end run record", err)
	}
}

// runParams snapshots the tuning knobs worth keeping with a run record.
func runParams(cfg *contract.Config) map[string]any {
	return map[string]any{
		"limit":            cfg.ResultLimit,
		"cleanup":          cfg.Cleanup,
		"ext-threshold":    cfg.ExtensionThreshold,
		"unique-threshold": cfg.UniqueThreshold,
		"cluster-min":      cfg.ClusterMin,
		"cluster-max":      cfg.ClusterMax,
		"small-nodes":      cfg.SmallNodes,
		"small-edges":      cfg.SmallEdges,
		"iterations":       cfg.RankIterations,
	}
}

// progressMonitor picks the console monitor for text output on a terminal
// destination, nothing otherwise. Structured outputs stay clean.
func progressMonitor(cfg *contract.Config) contract.ProgressMonitor {
	if cfg.Output == schema.TextOut && cfg.OutputFile == "" {
		return &contract.ConsoleMonitor{Prefix: "progress"}
	}
	return nil
}
