// Package outwriter has output and writer logic.
package outwriter

import (
	"os"
	"time"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
	"golang.org/x/term"
)

// OutWriter provides a unified interface for all output operations.
// It encapsulates the various output formats and provides a clean API for the core logic.
type OutWriter struct{}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter() *OutWriter {
	return &OutWriter{}
}

// WriteSummary prints the summarized containment tree using the configured output format.
func (ow *OutWriter) WriteSummary(rows []schema.SummaryRow, cfg *contract.Config, duration time.Duration) error {
	return PrintSummaryResults(rows, cfg, duration)
}

// WriteRankings prints ranking results using the configured output format.
func (ow *OutWriter) WriteRankings(results []schema.RankResult, stats schema.RankStats, cfg *contract.Config, duration time.Duration) error {
	return PrintRankResults(results, stats, cfg, duration)
}

// WriteStats prints coarse graph statistics using the configured output format.
func (ow *OutWriter) WriteStats(stats schema.GraphStats, rank *schema.RankStats, cfg *contract.Config) error {
	return PrintGraphStats(stats, rank, cfg)
}

// WriteRuns prints tracked run records using the configured output format.
func (ow *OutWriter) WriteRuns(records []schema.RunRecord, cfg *contract.Config) error {
	return PrintRunRecords(records, cfg)
}

// getMaxTableLabelWidth calculates the maximum width for labels in table
// output based on terminal width and the fixed columns around them.
func getMaxTableLabelWidth(cfg *contract.Config) int {
	var termWidth int

	// Check for absolute width override from flag/env
	if cfg.Width > 0 {
		termWidth = cfg.Width
	}

	if termWidth == 0 { // Not set by override
		detectedWidth, _, err := term.GetSize(int(os.Stdout.Fd()))
		if err != nil || detectedWidth <= 0 {
			// Fallback to conservative default if terminal size can't be detected
			termWidth = 80 // Conservative default for narrow terminals and CI
		} else {
			termWidth = detectedWidth
		}
	}

	// Reserve space for the numeric columns plus borders and padding.
	baseWidth := 45

	available := termWidth - baseWidth
	if available < 15 {
		return 15
	}
	if available > 70 {
		return 70
	}
	return available
}
