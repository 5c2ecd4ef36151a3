package core

import (
	"context"
	"sort"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
)

// UniqueInOutSummarizer pulls a hub node together with the neighbors that
// connect exclusively to it: leaf producers feeding only the hub and leaf
// consumers fed only by the hub. Candidate sets are materialized greedily,
// largest first, each absorption removing its members from further
// candidacy.
type UniqueInOutSummarizer struct {
	Threshold int // Minimum hub degree, default 4
}

// Name implements Summarizer.
func (s *UniqueInOutSummarizer) Name() string { return StrategyUniqueIO }

type hubCandidate struct {
	hub     *schema.Node
	members []*schema.Node
}

// Summarize implements Summarizer. Cancellation is polled once per group.
func (s *UniqueInOutSummarizer) Summarize(ctx context.Context, g *schema.Graph, mon contract.ProgressMonitor) error {
	if err := validateGraph(g); err != nil {
		return err
	}
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = contract.DefaultUniqueThreshold
	}
	groups := CollectGroups(g.Root())
	contract.StartProgress(mon, len(groups))
	for i, grp := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.summarizeGroup(g, grp, threshold); err != nil {
			return err
		}
		if mon != nil {
			mon.SetProgress(i + 1)
		}
	}
	return nil
}

func (s *UniqueInOutSummarizer) summarizeGroup(g *schema.Graph, grp *schema.Group, threshold int) error {
	groupSize := grp.VisibleChildCount()
	var candidates []hubCandidate
	for _, n := range directVisibleNodes(grp) {
		if n.Degree() < threshold {
			continue
		}
		members := collectExclusive(grp, n)
		if len(members) < threshold+1 {
			continue
		}
		if len(members) == groupSize {
			// Absorbing the whole group is degenerate.
			continue
		}
		candidates = append(candidates, hubCandidate{hub: n, members: members})
	}

	taken := make(map[*schema.Node]bool)
	for len(candidates) > 0 {
		// Largest absorbed set first; ties broken by hub identity so the
		// result is deterministic.
		sort.SliceStable(candidates, func(i, j int) bool {
			if len(candidates[i].members) != len(candidates[j].members) {
				return len(candidates[i].members) > len(candidates[j].members)
			}
			return candidates[i].hub.ID < candidates[j].hub.ID
		})
		best := candidates[0]
		candidates = candidates[1:]

		sub := g.NewGroup(best.hub.Label())
		if err := grp.Adopt(sub); err != nil {
			return err
		}
		for _, m := range best.members {
			taken[m] = true
			if err := MoveFromParent(m, grp, sub); err != nil {
				return err
			}
		}

		// Absorbed nodes leave candidacy entirely, including as hubs.
		remaining := candidates[:0]
		for _, c := range candidates {
			if taken[c.hub] {
				continue
			}
			kept := c.members[:0]
			for _, m := range c.members {
				if !taken[m] {
					kept = append(kept, m)
				}
			}
			c.members = kept
			if len(c.members) < threshold+1 {
				continue
			}
			remaining = append(remaining, c)
		}
		candidates = remaining
	}
	return nil
}

// collectExclusive builds the candidate set for hub n: n itself plus every
// co-resident visible incoming neighbor with exactly one outgoing and zero
// incoming visible edges, and every outgoing neighbor with exactly one
// incoming and zero outgoing visible edges.
func collectExclusive(grp *schema.Group, n *schema.Node) []*schema.Node {
	members := []*schema.Node{n}
	seen := map[*schema.Node]bool{n: true}
	for _, e := range n.In {
		src := e.Src
		if !e.Visible() || seen[src] || src.Parent() != grp {
			continue
		}
		if src.OutDegree() == 1 && src.InDegree() == 0 {
			seen[src] = true
			members = append(members, src)
		}
	}
	for _, e := range n.Out {
		dst := e.Dst
		if !e.Visible() || seen[dst] || dst.Parent() != grp {
			continue
		}
		if dst.InDegree() == 1 && dst.OutDegree() == 0 {
			seen[dst] = true
			members = append(members, dst)
		}
	}
	return members
}
