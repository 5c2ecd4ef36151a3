package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRankResults outputs the ranking results, dispatching based on the output format configured.
func PrintRankResults(results []schema.RankResult, stats schema.RankStats, cfg *contract.Config, duration time.Duration) error {
	// Create formatters using helper
	fmtFloat, _ := createFormatters(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := writeRankJSONResults(results, stats, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeRankCSVResults(results, stats, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRankTable(results, stats, cfg, fmtFloat, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeRankJSONResults handles opening the file and calling the JSON writer.
func writeRankJSONResults(results []schema.RankResult, stats schema.RankStats, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSONResultsForRank(w, results, stats)
	}, "Wrote JSON")
}

// writeRankCSVResults handles opening the file and calling the CSV writer.
func writeRankCSVResults(results []schema.RankResult, stats schema.RankStats, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForRank(csvWriter, results, stats, fmtFloat)
	}, "Wrote CSV")
}

// writeRankTable generates and writes the human-readable table.
func writeRankTable(results []schema.RankResult, stats schema.RankStats, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Rank", "Name", "Kind", "Score", "Label", "In", "Out", "Group"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := getMaxTableLabelWidth(cfg)
	var data [][]string
	for i, r := range results {
		data = append(data, []string{
			strconv.Itoa(i + 1),
			contract.TruncateLabel(r.Name, labelWidth),
			r.Kind,
			fmtFloat(r.Score),
			scoreLabel(cfg, r.Score, stats.Min, stats.Max),
			strconv.Itoa(r.InDegree),
			strconv.Itoa(r.OutDegree),
			contract.TruncateLabel(r.Group, labelWidth),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	if _, err := fmt.Fprintf(writer, "Showing top %d of %d nodes (score min: %s, max: %s, mean: %s)\n",
		len(results), stats.NodeCount, fmtFloat(stats.Min), fmtFloat(stats.Max), fmtFloat(stats.Mean)); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Ranking completed in %v with %d iterations\n", duration, stats.Iterations); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForRank writes the ranking results in CSV format.
func writeCSVResultsForRank(w *csv.Writer, results []schema.RankResult, stats schema.RankStats, fmtFloat func(float64) string) error {
	header := []string{
		"rank",
		"node_id",
		"name",
		"kind",
		"version",
		"score",
		"label",
		"in_degree",
		"out_degree",
		"group",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for i, r := range results {
		rec := []string{
			strconv.Itoa(i + 1),
			strconv.Itoa(r.NodeID),
			r.Name,
			r.Kind,
			strconv.Itoa(r.Version),
			fmtFloat(r.Score),
			contract.GetPlainLabel(r.Score, stats.Min, stats.Max),
			strconv.Itoa(r.InDegree),
			strconv.Itoa(r.OutDegree),
			r.Group,
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}

// writeJSONResultsForRank writes the ranking results in JSON format.
func writeJSONResultsForRank(w io.Writer, results []schema.RankResult, stats schema.RankStats) error {
	// 1. Prepare the data structure for JSON with rank and label added
	type JSONRankResult struct {
		Rank  int    `json:"rank"`
		Label string `json:"label"`
		schema.RankResult
	}

	output := make([]JSONRankResult, len(results))
	for i, r := range results {
		output[i] = JSONRankResult{
			Rank:       i + 1,
			Label:      contract.GetPlainLabel(r.Score, stats.Min, stats.Max),
			RankResult: r,
		}
	}

	// 2. Use the generic JSON writer
	return writeJSON(w, output)
}
