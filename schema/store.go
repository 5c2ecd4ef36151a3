package schema

import "time"

// Run kinds recorded by the run store.
const (
	SummarizeRun = "summarize"
	RankRun      = "rank"
)

// RunRecord is one tracked summarize or rank invocation.
type RunRecord struct {
	ID            int64      // Unique run id
	Kind          string     // SummarizeRun or RankRun
	Strategy      string     // Strategy name(s) for summarize runs, empty for rank runs
	StartTime     time.Time  // When the run began
	EndTime       *time.Time // When the run completed, nil if it never finished
	DurationMs    *int64     // Run duration in milliseconds, nil if unfinished
	Nodes         int        // Number of nodes in the graph at run time
	GroupsCreated int        // Summary groups created by the run
	RankMin       *float64   // Minimum score (rank runs only)
	RankMax       *float64   // Maximum score (rank runs only)
	RankMean      *float64   // Mean score (rank runs only)
	Params        string     // JSON-encoded configuration parameters
}
