package core

import (
	"context"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
)

// smallGroupsMaxIterations caps subgroup formation per parent group so a
// pathological graph cannot loop forever; remaining nodes are then left
// unsummarized.
const smallGroupsMaxIterations = 1000

// SmallGroupsSummarizer is the bounded-size fallback: any group with too
// many visible children or internal edges is carved into arbitrary
// subgroups that each stay under both thresholds.
type SmallGroupsSummarizer struct {
	NodeThreshold int // Maximum visible children per group, default 200
	EdgeThreshold int // Maximum internal edges per group, default 300
}

// Name implements Summarizer.
func (s *SmallGroupsSummarizer) Name() string { return StrategySmallGroups }

// Summarize implements Summarizer. Cancellation is polled once per group.
func (s *SmallGroupsSummarizer) Summarize(ctx context.Context, g *schema.Graph, mon contract.ProgressMonitor) error {
	if err := validateGraph(g); err != nil {
		return err
	}
	nodeMax, edgeMax := s.NodeThreshold, s.EdgeThreshold
	if nodeMax <= 0 {
		nodeMax = contract.DefaultSmallNodes
	}
	if edgeMax <= 0 {
		edgeMax = contract.DefaultSmallEdges
	}
	groups := CollectGroups(g.Root())
	contract.StartProgress(mon, len(groups))
	for i, grp := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.summarizeGroup(g, grp, nodeMax, edgeMax); err != nil {
			return err
		}
		if mon != nil {
			mon.SetProgress(i + 1)
		}
	}
	return nil
}

func (s *SmallGroupsSummarizer) summarizeGroup(g *schema.Graph, grp *schema.Group, nodeMax, edgeMax int) error {
	for iter := 0; iter < smallGroupsMaxIterations; iter++ {
		if grp.VisibleChildCount() <= nodeMax && grp.InternalEdgeCount() <= edgeMax {
			return nil
		}
		seeds := directVisibleNodes(grp)
		if len(seeds) == 0 {
			return nil
		}
		sub := g.NewGroup(seeds[0].Label())
		if err := grp.Adopt(sub); err != nil {
			return err
		}
		for _, n := range seeds {
			if err := MoveFromParent(n, grp, sub); err != nil {
				return err
			}
			if sub.VisibleChildCount() >= nodeMax || sub.InternalEdgeCount() >= edgeMax {
				break
			}
		}
	}
	return nil
}
