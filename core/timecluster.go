package core

import (
	"context"
	"fmt"
	"math"
	"sort"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
)

// Threshold search tuning.
const (
	clusterSearchRetries = 20
	clusterStartFactor   = 3.0
)

// TimeClusterSummarizer splits flat groups into time-contiguous clusters,
// recursively, aiming for MinNodes..MaxNodes members per leaf cluster. The
// gap threshold separating clusters is found by an adaptive multiplicative
// search over a per-node average gap; exhausting the retry budget is a
// non-fatal convergence shortfall.
type TimeClusterSummarizer struct {
	MinNodes      int  // Smallest desired cluster, default 5
	MaxNodes      int  // Largest desired cluster, default 60
	ProcessesOnly bool // Restrict clustering to process-typed nodes
	UseRawTime    bool // Cluster on unadjusted instead of adjusted timestamps
	KeepVersions  bool // Keep version chains together under their first version
	UntimedLater  bool // Treat untimestamped nodes as later than everything else
	UseBreakTimes bool // Measure gaps from a node's latest-version time
}

// Name implements Summarizer.
func (s *TimeClusterSummarizer) Name() string {
	if s.ProcessesOnly {
		return StrategyProcCluster
	}
	return StrategyTimeCluster
}

// Summarize implements Summarizer. Cancellation is polled once per group on
// the worklist.
func (s *TimeClusterSummarizer) Summarize(ctx context.Context, g *schema.Graph, mon contract.ProgressMonitor) error {
	if err := validateGraph(g); err != nil {
		return err
	}
	minNodes, maxNodes := s.bounds()

	base := s.baseGap(g)
	worklist := CollectGroups(g.Root())
	contract.StartProgress(mon, len(worklist))
	done := 0
	for len(worklist) > 0 {
		grp := worklist[0]
		worklist = worklist[1:]
		if err := ctx.Err(); err != nil {
			return err
		}
		clusters, err := s.clusterGroup(g, grp, base, minNodes, maxNodes)
		if err != nil {
			return err
		}
		// Oversized clusters are re-split with the same base threshold.
		for _, c := range clusters {
			if len(s.eligible(c)) > maxNodes {
				worklist = append(worklist, c)
			}
		}
		done++
		if mon != nil {
			mon.SetProgress(done)
		}
	}
	return nil
}

func (s *TimeClusterSummarizer) bounds() (int, int) {
	minNodes, maxNodes := s.MinNodes, s.MaxNodes
	if minNodes <= 0 {
		minNodes = contract.DefaultClusterMin
	}
	if maxNodes < minNodes {
		maxNodes = contract.DefaultClusterMax
	}
	return minNodes, maxNodes
}

// baseGap computes the per-node average time gap for the whole graph, or 1
// for an empty graph.
func (s *TimeClusterSummarizer) baseGap(g *schema.Graph) float64 {
	if g.NodeCount() == 0 {
		return 1
	}
	span := g.MaxRawTime() - g.TimeBase
	base := span / float64(g.NodeCount())
	if base <= 0 {
		return 1
	}
	return base
}

// eligible collects the group's direct children subject to clustering, per
// the configured filters. With KeepVersions only first versions qualify;
// each is stamped with its latest version's time in the aux field for later
// use as a break time.
func (s *TimeClusterSummarizer) eligible(grp *schema.Group) []*schema.Node {
	var out []*schema.Node
	for _, n := range directVisibleNodes(grp) {
		if s.ProcessesOnly && (n.Object == nil || n.Object.Kind != schema.ProcessObject) {
			continue
		}
		if !s.UntimedLater && s.nodeTime(n) == schema.NoTime {
			continue
		}
		if s.KeepVersions {
			if n.Prev != nil {
				continue
			}
			n.Aux = s.nodeTime(n)
			if n.Object != nil {
				if latest := n.Object.LatestVersion(); latest != nil {
					n.Aux = s.nodeTime(latest)
				}
			}
		}
		out = append(out, n)
	}
	return out
}

func (s *TimeClusterSummarizer) nodeTime(n *schema.Node) float64 {
	if s.UseRawTime {
		return n.RawTime
	}
	return n.Time
}

// sortKey orders nodes for the cluster walk. Untimestamped nodes sort after
// everything else when they are kept at all.
func (s *TimeClusterSummarizer) sortKey(n *schema.Node) float64 {
	t := s.nodeTime(n)
	if t == schema.NoTime && s.UntimedLater {
		return math.MaxFloat64
	}
	return t
}

// breakTime is the reference point the next gap is measured from.
func (s *TimeClusterSummarizer) breakTime(n *schema.Node) float64 {
	if s.UseBreakTimes && s.KeepVersions {
		return n.Aux
	}
	return s.nodeTime(n)
}

func (s *TimeClusterSummarizer) clusterGroup(g *schema.Graph, grp *schema.Group, base float64, minNodes, maxNodes int) ([]*schema.Group, error) {
	nodes := s.eligible(grp)
	if len(nodes) <= maxNodes {
		return nil, nil
	}

	sort.SliceStable(nodes, func(i, j int) bool {
		ti, tj := s.sortKey(nodes[i]), s.sortKey(nodes[j])
		if ti != tj {
			return ti < tj
		}
		return nodes[i].ID < nodes[j].ID
	})

	threshold := s.searchThreshold(grp, nodes, base, minNodes, maxNodes)

	// Walk the sorted list, breaking on large gaps. The size bounds win
	// over the gap: a cluster never breaks below MinNodes and never grows
	// past MaxNodes, whatever threshold the search settled on.
	var clusters [][]*schema.Node
	var current []*schema.Node
	lastBreak := schema.NoTime
	for _, n := range nodes {
		t := s.sortKey(n)
		gapBreak := len(current) >= minNodes && t-lastBreak > threshold
		if len(current) > 0 && (gapBreak || len(current) >= maxNodes) {
			clusters = append(clusters, current)
			current = nil
		}
		current = append(current, n)
		lastBreak = s.breakTime(n)
	}
	if len(current) > 0 {
		// A trailing fragment below the minimum folds into its predecessor.
		if len(current) < minNodes && len(clusters) > 0 {
			clusters[len(clusters)-1] = append(clusters[len(clusters)-1], current...)
		} else {
			clusters = append(clusters, current)
		}
	}
	if len(clusters) <= 1 {
		return nil, nil
	}

	var out []*schema.Group
	for _, members := range clusters {
		sub := g.NewGroup("")
		if err := grp.Adopt(sub); err != nil {
			return nil, err
		}
		for _, n := range members {
			if err := MoveFromParent(n, grp, sub); err != nil {
				return nil, err
			}
		}
		if s.KeepVersions {
			s.reattachVersions(members)
		}
		sub.SetLabel(clusterLabel(members))
		out = append(out, sub)
	}
	return out, nil
}

// searchThreshold runs the multiplicative search for a gap threshold whose
// cluster count lands between the bounds implied by the cluster size range.
// Exhausting the retry budget logs a warning and keeps the last multiplier.
func (s *TimeClusterSummarizer) searchThreshold(grp *schema.Group, nodes []*schema.Node, base float64, minNodes, maxNodes int) float64 {
	minClusters := (len(nodes) + maxNodes - 1) / maxNodes
	if minClusters < 1 {
		minClusters = 1
	}
	maxClusters := len(nodes) / minNodes
	if maxClusters < minClusters {
		maxClusters = minClusters
	}

	multiplier := clusterStartFactor
	for retry := 0; retry < clusterSearchRetries; retry++ {
		count := s.countClusters(nodes, multiplier*base)
		switch {
		case count < minClusters:
			// Too few clusters: gaps rarely exceed the threshold, so tighten it.
			multiplier /= 2
		case count > maxClusters:
			multiplier *= 2
		default:
			return multiplier * base
		}
	}
	contract.LogWarn(fmt.Sprintf(
		"timestamp clustering did not converge for group %q after %d retries; proceeding with multiplier %g",
		grp.Label(), clusterSearchRetries, multiplier), nil)
	return multiplier * base
}

// countClusters counts the clusters a gap threshold would produce over the
// sorted node list.
func (s *TimeClusterSummarizer) countClusters(nodes []*schema.Node, threshold float64) int {
	if len(nodes) == 0 {
		return 0
	}
	count := 1
	lastBreak := s.breakTime(nodes[0])
	for _, n := range nodes[1:] {
		if s.sortKey(n)-lastBreak > threshold {
			count++
		}
		lastBreak = s.breakTime(n)
	}
	return count
}

// reattachVersions moves every later version of each clustered first
// version into the cluster its first version landed in.
func (s *TimeClusterSummarizer) reattachVersions(members []*schema.Node) {
	for _, n := range members {
		dst := n.Parent()
		if dst == nil {
			continue
		}
		for v := n.Next; v != nil; v = v.Next {
			if v.Parent() != dst {
				_ = MoveFromAncestor(v, dst)
			}
		}
	}
}

// clusterLabel labels a cluster with the label of its member with the
// highest visible out-degree.
func clusterLabel(members []*schema.Node) string {
	if len(members) == 0 {
		return ""
	}
	best := members[0]
	for _, n := range members[1:] {
		if n.OutDegree() > best.OutDegree() {
			best = n
		}
	}
	return best.Label()
}
