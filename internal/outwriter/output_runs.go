package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// PrintRunRecords outputs tracked run records, dispatching based on the output format configured.
func PrintRunRecords(records []schema.RunRecord, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, buildRunRenderModels(records))
		}, "Wrote JSON")
	case schema.CSVOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			csvWriter := csv.NewWriter(w)
			defer csvWriter.Flush()
			return writeCSVResultsForRuns(csvWriter, records)
		}, "Wrote CSV")
	default:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeRunsTable(records, w)
		}, "Wrote table")
	}
}

// runRenderModel is the JSON shape for one run record.
type runRenderModel struct {
	ID            int64    `json:"id"`
	Kind          string   `json:"kind"`
	Strategy      string   `json:"strategy,omitempty"`
	Start         string   `json:"start"`
	End           string   `json:"end,omitempty"`
	DurationMs    *int64   `json:"duration_ms,omitempty"`
	Nodes         int      `json:"nodes"`
	GroupsCreated int      `json:"groups_created"`
	RankMin       *float64 `json:"rank_min,omitempty"`
	RankMax       *float64 `json:"rank_max,omitempty"`
	RankMean      *float64 `json:"rank_mean,omitempty"`
	Params        string   `json:"params,omitempty"`
}

func buildRunRenderModels(records []schema.RunRecord) []runRenderModel {
	out := make([]runRenderModel, len(records))
	for i, r := range records {
		m := runRenderModel{
			ID:            r.ID,
			Kind:          r.Kind,
			Strategy:      r.Strategy,
			Start:         r.StartTime.Format(contract.DateTimeFormat),
			DurationMs:    r.DurationMs,
			Nodes:         r.Nodes,
			GroupsCreated: r.GroupsCreated,
			RankMin:       r.RankMin,
			RankMax:       r.RankMax,
			RankMean:      r.RankMean,
			Params:        r.Params,
		}
		if r.EndTime != nil {
			m.End = r.EndTime.Format(contract.DateTimeFormat)
		}
		out[i] = m
	}
	return out
}

// writeRunsTable generates and writes the human-readable table.
func writeRunsTable(records []schema.RunRecord, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)

	table.Header([]string{"ID", "Kind", "Strategy", "Start", "Duration", "Nodes", "Groups"})
	table.Configure(func(tcfg *tablewriter.Config) {
		tcfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, r := range records {
		duration := "unfinished"
		if r.DurationMs != nil {
			duration = fmt.Sprintf("%dms", *r.DurationMs)
		}
		data = append(data, []string{
			strconv.FormatInt(r.ID, 10),
			r.Kind,
			r.Strategy,
			r.StartTime.Format(contract.DateTimeFormat),
			duration,
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.GroupsCreated),
		})
	}

	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(writer, "Showing %d runs\n", len(records)); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForRuns writes run records in CSV format.
func writeCSVResultsForRuns(w *csv.Writer, records []schema.RunRecord) error {
	header := []string{
		"id",
		"kind",
		"strategy",
		"start",
		"end",
		"duration_ms",
		"nodes",
		"groups_created",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, r := range records {
		end, duration := "", ""
		if r.EndTime != nil {
			end = r.EndTime.Format(contract.DateTimeFormat)
		}
		if r.DurationMs != nil {
			duration = strconv.FormatInt(*r.DurationMs, 10)
		}
		rec := []string{
			strconv.FormatInt(r.ID, 10),
			r.Kind,
			r.Strategy,
			r.StartTime.Format(contract.DateTimeFormat),
			end,
			duration,
			strconv.Itoa(r.Nodes),
			strconv.Itoa(r.GroupsCreated),
		}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	return nil
}
