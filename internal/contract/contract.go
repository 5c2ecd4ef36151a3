// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"time"

	"github.com/provscope/provscope/schema"
)

// DateTimeFormat is the timestamp layout used in tabular output.
const DateTimeFormat = "2006-01-02 15:04:05"

// ProgressMonitor is the producer side of the progress contract. Long-running
// passes report either a determinate range with point updates or switch to
// indeterminate mode when granular progress is not worth computing.
type ProgressMonitor interface {
	SetRange(min, max int)
	SetProgress(n int)
	MakeIndeterminate()
}

// IndeterminateBelow is the work-unit count at or under which passes report
// indeterminate progress instead of a determinate range.
const IndeterminateBelow = 10

// StartProgress applies the determinate-vs-indeterminate rule for a pass with
// the given total work units.
func StartProgress(mon ProgressMonitor, total int) {
	if mon == nil {
		return
	}
	if total <= IndeterminateBelow {
		mon.MakeIndeterminate()
		return
	}
	mon.SetRange(0, total)
}

// RunStore records summarize and rank invocations for later inspection.
// Implementations must tolerate a nil receiver-style disabled mode by
// returning zero values rather than failing.
type RunStore interface {
	// BeginRun opens a run record and returns its id.
	BeginRun(start time.Time, kind, strategy string, params map[string]any) (int64, error)

	// EndRun finalizes a run record with its outcome counts.
	EndRun(id int64, end time.Time, nodes, groupsCreated int) error

	// RecordRankStats attaches ranking statistics to a rank run.
	RecordRankStats(id int64, stats schema.RankStats) error

	// Runs returns the most recent run records, newest first.
	Runs(limit int) ([]schema.RunRecord, error)

	// Clear removes all run records.
	Clear() error

	// Close releases the underlying database handle.
	Close() error
}
