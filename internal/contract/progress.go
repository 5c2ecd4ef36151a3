package contract

import (
	"fmt"
	"os"
	"sync/atomic"
)

// NopMonitor discards all progress reports. It is the default when no
// monitor is supplied.
type NopMonitor struct{}

// SetRange implements ProgressMonitor.
func (NopMonitor) SetRange(_, _ int) {}

// SetProgress implements ProgressMonitor.
func (NopMonitor) SetProgress(_ int) {}

// MakeIndeterminate implements ProgressMonitor.
func (NopMonitor) MakeIndeterminate() {}

// ConsoleMonitor prints coarse progress to stderr. Updates are throttled to
// whole-percent changes so large graphs do not flood the terminal.
type ConsoleMonitor struct {
	Prefix string

	max         int
	lastPercent int
}

// SetRange implements ProgressMonitor.
func (m *ConsoleMonitor) SetRange(_, max int) {
	m.max = max
	m.lastPercent = -1
}

// SetProgress implements ProgressMonitor.
func (m *ConsoleMonitor) SetProgress(n int) {
	if m.max <= 0 {
		return
	}
	percent := n * 100 / m.max
	if percent == m.lastPercent {
		return
	}
	m.lastPercent = percent
	_, _ = fmt.Fprintf(os.Stderr, "\r%s %d%%", m.Prefix, percent)
	if percent >= 100 {
		_, _ = fmt.Fprintln(os.Stderr)
	}
}

// MakeIndeterminate implements ProgressMonitor.
func (m *ConsoleMonitor) MakeIndeterminate() {
	m.max = 0
	_, _ = fmt.Fprintf(os.Stderr, "%s ...\n", m.Prefix)
}

// CountingMonitor records monitor calls for tests.
type CountingMonitor struct {
	RangeCalls    atomic.Int64
	ProgressCalls atomic.Int64
	Indeterminate atomic.Int64
	LastProgress  atomic.Int64
	Max           atomic.Int64
}

// SetRange implements ProgressMonitor.
func (m *CountingMonitor) SetRange(_, max int) {
	m.RangeCalls.Add(1)
	m.Max.Store(int64(max))
}

// SetProgress implements ProgressMonitor.
func (m *CountingMonitor) SetProgress(n int) {
	m.ProgressCalls.Add(1)
	m.LastProgress.Store(int64(n))
}

// MakeIndeterminate implements ProgressMonitor.
func (m *CountingMonitor) MakeIndeterminate() {
	m.Indeterminate.Add(1)
}
