// Package parquet provides data structures and functions for exporting run
// records and ranking results to Parquet files using
// github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/provscope/provscope/schema"
)

// Run represents a single tracked run with metadata.
// This struct maps to the provscope_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Kind is the run kind, summarize or rank
	Kind string `parquet:"kind,snappy"`

	// Strategy is the strategy list for summarize runs (nullable)
	Strategy *string `parquet:"strategy,optional,snappy"`

	// StartTime is when the run began (stored as TIMESTAMP with nanosecond precision)
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable, stored as TIMESTAMP with nanosecond precision)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// NodeCount is the number of graph nodes at run time
	NodeCount int32 `parquet:"node_count,snappy"`

	// GroupsCreated is the number of summary groups the run created
	GroupsCreated int32 `parquet:"groups_created,snappy"`

	// RankMin is the minimum node score (rank runs only, nullable)
	RankMin *float64 `parquet:"rank_min,optional,snappy"`

	// RankMax is the maximum node score (rank runs only, nullable)
	RankMax *float64 `parquet:"rank_max,optional,snappy"`

	// RankMean is the mean node score (rank runs only, nullable)
	RankMean *float64 `parquet:"rank_mean,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// RankedNode represents one ranked node from a ranking run.
type RankedNode struct {
	// NodeID is the graph-wide node identifier
	NodeID int32 `parquet:"node_id,snappy"`

	// Name is the node's display label
	Name string `parquet:"name,snappy"`

	// Kind is the object kind, process or artifact
	Kind string `parquet:"kind,snappy"`

	// Version is the node's position in its object's version chain
	Version int32 `parquet:"version,snappy"`

	// Score is the importance score from the ranking engine
	Score float64 `parquet:"score,snappy"`

	// InDegree is the number of incoming edges
	InDegree int32 `parquet:"in_degree,snappy"`

	// OutDegree is the number of outgoing edges
	OutDegree int32 `parquet:"out_degree,snappy"`

	// Group is the label of the owning summary group
	Group string `parquet:"group,snappy"`
}

// FromRunRecords converts run store records to their Parquet shape.
func FromRunRecords(records []schema.RunRecord) []Run {
	out := make([]Run, len(records))
	for i, r := range records {
		run := Run{
			RunID:         r.ID,
			Kind:          r.Kind,
			StartTime:     r.StartTime,
			EndTime:       r.EndTime,
			RunDurationMs: r.DurationMs,
			NodeCount:     int32(r.Nodes),
			GroupsCreated: int32(r.GroupsCreated),
			RankMin:       r.RankMin,
			RankMax:       r.RankMax,
			RankMean:      r.RankMean,
		}
		if r.Strategy != "" {
			strategy := r.Strategy
			run.Strategy = &strategy
		}
		if r.Params != "" {
			params := r.Params
			run.ConfigParams = &params
		}
		out[i] = run
	}
	return out
}

// FromRankResults converts ranking results to their Parquet shape.
func FromRankResults(results []schema.RankResult) []RankedNode {
	out := make([]RankedNode, len(results))
	for i, r := range results {
		out[i] = RankedNode{
			NodeID:    int32(r.NodeID),
			Name:      r.Name,
			Kind:      r.Kind,
			Version:   int32(r.Version),
			Score:     r.Score,
			InDegree:  int32(r.InDegree),
			OutDegree: int32(r.OutDegree),
			Group:     r.Group,
		}
	}
	return out
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the Run struct tags
	writer := parquet.NewGenericWriter[Run](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// WriteRankedNodesParquet writes a slice of RankedNode structs to a Parquet file.
func WriteRankedNodesParquet(data []RankedNode, outputPath string) error {
	// Create the output file
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	// Create a Parquet writer using struct schema inference
	// The schema is automatically derived from the RankedNode struct tags
	writer := parquet.NewGenericWriter[RankedNode](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}
