// Package core has the graph summarization strategies, the containment tree
// restructuring utilities, the process timeline reconstructor and the node
// ranking engine.
//
// Everything in this package is single-threaded and mutates a caller-owned
// graph; callers must guarantee exclusive access for the duration of a call.
// Cancellation is cooperative: the context is polled at documented safe
// points (per group, per pivot, per ranking iteration) and partial tree
// mutations are not rolled back.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
)

// ErrInvalidGraph reports a summarizer invoked on something that is not a
// rooted provenance graph. No partial mutation is attempted.
var ErrInvalidGraph = errors.New("not a valid provenance graph")

// Summarizer is one interchangeable clustering strategy. Summarize mutates
// the graph's containment tree in place.
type Summarizer interface {
	Name() string
	Summarize(ctx context.Context, g *schema.Graph, mon contract.ProgressMonitor) error
}

// Strategy names accepted by NewSummarizer.
const (
	StrategyExtension   = "extension"
	StrategyUniqueIO    = "uniqueio"
	StrategyTimeCluster = "timecluster"
	StrategyProcCluster = "timecluster-procs"
	StrategySmallGroups = "smallgroups"
	StrategyProcessTree = "proctree"
	StrategyNeighbors   = "neighbors"
	strategyRegexPrefix = "regex:"
)

// NewSummarizer returns the named strategy configured from cfg. The regex
// strategy is addressed as "regex:<pattern>".
func NewSummarizer(name string, cfg *contract.Config) (Summarizer, error) {
	switch name {
	case StrategyExtension:
		return &ExtensionSummarizer{
			Threshold:     cfg.ExtensionThreshold,
			RequireSameIO: cfg.ExtensionSameIO,
		}, nil
	case StrategyUniqueIO:
		return &UniqueInOutSummarizer{Threshold: cfg.UniqueThreshold}, nil
	case StrategyTimeCluster, StrategyProcCluster:
		return &TimeClusterSummarizer{
			MinNodes:      cfg.ClusterMin,
			MaxNodes:      cfg.ClusterMax,
			ProcessesOnly: name == StrategyProcCluster,
			UseRawTime:    cfg.ClusterUseRawTime,
			KeepVersions:  cfg.ClusterVersions,
			UntimedLater:  cfg.ClusterUntimedLate,
			UseBreakTimes: cfg.ClusterBreakTimes,
		}, nil
	case StrategySmallGroups:
		return &SmallGroupsSummarizer{
			NodeThreshold: cfg.SmallNodes,
			EdgeThreshold: cfg.SmallEdges,
		}, nil
	case StrategyProcessTree:
		return &ProcessTreeSummarizer{}, nil
	case StrategyNeighbors:
		return &EquivalenceSummarizer{Predicate: SameNeighborsPredicate{}}, nil
	}
	if pattern, ok := strings.CutPrefix(name, strategyRegexPrefix); ok {
		pred, err := NewRegexPredicate(pattern, pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regex strategy %q: %w", name, err)
		}
		return &EquivalenceSummarizer{Predicate: pred, Labeler: pred}, nil
	}
	return nil, fmt.Errorf("unknown strategy %q", name)
}

// validateGraph is the runtime remnant of the invalid-input check: the graph
// must exist and be rooted before any mutation is attempted.
func validateGraph(g *schema.Graph) error {
	if g == nil || g.Root() == nil {
		return ErrInvalidGraph
	}
	return nil
}

// Summarize runs the given strategies in order inside a single summarization
// transaction bracket. When cleanup is set, orphan assignment and singleton
// collapse run after the last strategy. It returns the net number of summary
// groups created.
func Summarize(ctx context.Context, g *schema.Graph, strategies []Summarizer, cleanup bool, mon contract.ProgressMonitor) (int, error) {
	if err := validateGraph(g); err != nil {
		return 0, err
	}
	before := len(CollectGroups(g.Root()))

	g.BeginSummarize()
	// The end bracket fires even on cancellation: it exists for host cache
	// invalidation, not atomicity.
	defer g.EndSummarize()

	for _, s := range strategies {
		if err := s.Summarize(ctx, g, mon); err != nil {
			return 0, fmt.Errorf("strategy %s: %w", s.Name(), err)
		}
	}
	if cleanup {
		AssignUnassigned(g)
		RemoveSingletons(g)
	}

	created := len(CollectGroups(g.Root())) - before
	if created < 0 {
		created = 0
	}
	return created, nil
}
