package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintSummaryResults outputs the summarized tree, dispatching based on the output format configured.
func PrintSummaryResults(rows []schema.SummaryRow, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := writeSummaryJSONResults(rows, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := writeSummaryCSVResults(rows, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeSummaryTable(rows, cfg, duration, w)
		}, "Wrote table")
	}
	return nil
}

// writeSummaryJSONResults handles opening the file and calling the JSON writer.
func writeSummaryJSONResults(rows []schema.SummaryRow, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeJSON(w, rows)
	}, "Wrote JSON")
}

// writeSummaryCSVResults handles opening the file and calling the CSV writer.
func writeSummaryCSVResults(rows []schema.SummaryRow, cfg *contract.Config) error {
	return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForSummary(csvWriter, rows)
	}, "Wrote CSV")
}

// writeSummaryTable generates and writes the human-readable tree table.
// Nesting is shown by indenting the label column.
func writeSummaryTable(rows []schema.SummaryRow, cfg *contract.Config, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"Group", "Label", "Nodes", "Edges", "Subgroups"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	labelWidth := getMaxTableLabelWidth(cfg)
	var data [][]string
	for _, r := range rows {
		indent := strings.Repeat("  ", r.Depth)
		data = append(data, []string{
			strconv.Itoa(r.GroupID),
			indent + contract.TruncateLabel(r.Label, labelWidth),
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.Edges),
			strconv.Itoa(r.Subgroups),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	// Compute summary stats
	totalNodes := 0
	for _, r := range rows {
		totalNodes += r.Nodes
	}
	if _, err := fmt.Fprintf(writer, "Showing %d groups (total visible nodes: %d)\n", len(rows), totalNodes); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Summarization completed in %v\n", duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForSummary writes the summarized tree in CSV format.
func writeCSVResultsForSummary(w *csv.Writer, rows []schema.SummaryRow) error {
	header := []string{
		"group_id",
		"depth",
		"label",
		"nodes",
		"edges",
		"subgroups",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range rows {
		rec := []string{
			strconv.Itoa(r.GroupID),
			strconv.Itoa(r.Depth),
			r.Label,
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.Edges),
			strconv.Itoa(r.Subgroups),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
