package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
)

// PrintGraphStats outputs coarse graph statistics. The ranking section is
// included only when the graph has been ranked.
func PrintGraphStats(stats schema.GraphStats, rank *schema.RankStats, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, buildStatsRenderModel(stats, rank))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForStats(csvWriter, stats, rank, cfg)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeStatsText(w, stats, rank, cfg)
		}, "Wrote text")
	}
}

// statsRenderModel is the JSON shape for the stats command.
type statsRenderModel struct {
	Graph   schema.GraphStats `json:"graph"`
	Ranking *schema.RankStats `json:"ranking,omitempty"`
}

func buildStatsRenderModel(stats schema.GraphStats, rank *schema.RankStats) *statsRenderModel {
	return &statsRenderModel{Graph: stats, Ranking: rank}
}

// writeStatsText displays stats in human-readable text format.
func writeStatsText(w io.Writer, stats schema.GraphStats, rank *schema.RankStats, cfg *contract.Config) error {
	if _, err := fmt.Fprintf(w, "Graph\n=====\n"); err != nil {
		return err
	}
	lines := []struct {
		name  string
		value int
	}{
		{"Nodes", stats.Nodes},
		{"Edges", stats.Edges},
		{"Objects", stats.Objects},
		{"Processes", stats.Processes},
		{"Artifacts", stats.Artifacts},
		{"Visible nodes", stats.Visible},
		{"Groups", stats.Groups},
	}
	for _, l := range lines {
		if _, err := fmt.Fprintf(w, "%-14s %d\n", l.name, l.value); err != nil {
			return err
		}
	}
	if rank == nil {
		return nil
	}

	fmtFloat, _ := createFormatters(cfg.Precision)
	if _, err := fmt.Fprintf(w, "\nRanking\n=======\n"); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-14s %d\n", "Iterations", rank.Iterations); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-14s %s\n", "Min", fmtFloat(rank.Min)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-14s %s\n", "Max", fmtFloat(rank.Max)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-14s %s\n", "Mean", fmtFloat(rank.Mean)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%-14s %s\n", "Histogram", formatHistogram(rank.Histogram)); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForStats writes graph stats as key/value records.
func writeCSVResultsForStats(w *csv.Writer, stats schema.GraphStats, rank *schema.RankStats, cfg *contract.Config) error {
	if err := w.Write([]string{"stat", "value"}); err != nil {
		return err
	}
	recs := [][]string{
		{"nodes", strconv.Itoa(stats.Nodes)},
		{"edges", strconv.Itoa(stats.Edges)},
		{"objects", strconv.Itoa(stats.Objects)},
		{"processes", strconv.Itoa(stats.Processes)},
		{"artifacts", strconv.Itoa(stats.Artifacts)},
		{"visible", strconv.Itoa(stats.Visible)},
		{"groups", strconv.Itoa(stats.Groups)},
	}
	if rank != nil {
		fmtFloat, _ := createFormatters(cfg.Precision)
		recs = append(recs,
			[]string{"rank_iterations", strconv.Itoa(rank.Iterations)},
			[]string{"rank_min", fmtFloat(rank.Min)},
			[]string{"rank_max", fmtFloat(rank.Max)},
			[]string{"rank_mean", fmtFloat(rank.Mean)},
		)
	}
	for _, rec := range recs {
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// formatHistogram renders bin counts as a compact bracketed list.
func formatHistogram(bins []int) string {
	parts := make([]string, len(bins))
	for i, c := range bins {
		parts[i] = strconv.Itoa(c)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
