package core

import (
	"context"
	"sort"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
)

// startEpsilon nudges a child event with no usable timestamp to just after
// its parent's start so sibling ordering stays well-defined.
const startEpsilon = 0.0001

// timelineEvent is a transient interval in the process timeline. The event
// tree is discarded after lowering into the containment tree.
type timelineEvent struct {
	object   *schema.Object // nil for the synthetic root
	start    float64
	finish   float64
	parent   *timelineEvent
	children []*timelineEvent
}

func (ev *timelineEvent) add(child *timelineEvent) {
	child.parent = ev
	ev.children = append(ev.children, child)
}

// isAncestor reports whether a sits on b's parent chain. Guards the tree
// build against malformed parent-pid cycles in the input.
func isAncestor(a, b *timelineEvent) bool {
	for cur := b; cur != nil; cur = cur.parent {
		if cur == a {
			return true
		}
	}
	return false
}

// ProcessTreeSummarizer rebuilds the process hierarchy as a time-interval
// tree from node timestamps and control edges, then lowers it into the
// containment tree: one group per process, child-process groups nested
// inside parent-process groups, followed by the orphan-assignment and
// singleton-collapse cleanups.
type ProcessTreeSummarizer struct{}

// Name implements Summarizer.
func (s *ProcessTreeSummarizer) Name() string { return StrategyProcessTree }

// Summarize implements Summarizer. Cancellation is polled once per process
// object during lowering.
func (s *ProcessTreeSummarizer) Summarize(ctx context.Context, g *schema.Graph, mon contract.ProgressMonitor) error {
	if err := validateGraph(g); err != nil {
		return err
	}
	root := buildTimeline(g)

	processes := 0
	for _, obj := range g.Objects() {
		if obj.Kind == schema.ProcessObject {
			processes++
		}
	}
	contract.StartProgress(mon, processes)

	lowered := 0
	var lower func(ev *timelineEvent, parent *schema.Group) error
	lower = func(ev *timelineEvent, parent *schema.Group) error {
		target := parent
		if ev.object != nil {
			if err := ctx.Err(); err != nil {
				return err
			}
			grp := g.NewGroup(ev.object.ShortName())
			if err := parent.Adopt(grp); err != nil {
				return err
			}
			for _, v := range ev.object.Versions() {
				if err := MoveFromAncestor(v, grp); err != nil {
					return err
				}
			}
			target = grp
			lowered++
			if mon != nil {
				mon.SetProgress(lowered)
			}
		}
		for _, child := range ev.children {
			if err := lower(child, target); err != nil {
				return err
			}
		}
		return nil
	}
	if err := lower(root, g.Root()); err != nil {
		return err
	}

	AssignUnassigned(g)
	RemoveSingletons(g)
	return nil
}

// buildTimeline constructs the interval tree of process lifetimes. The
// synthetic root sits at time zero and adopts every process whose parent is
// missing or unresolved.
func buildTimeline(g *schema.Graph) *timelineEvent {
	root := &timelineEvent{}
	fallbackStart := g.MaxRawTime() - g.TimeBase

	byPID := make(map[int]*timelineEvent)
	var events []*timelineEvent
	for _, obj := range g.Objects() {
		if obj.Kind != schema.ProcessObject {
			continue
		}
		ev := &timelineEvent{object: obj}

		ev.start = obj.FirstSeen
		if ev.start == schema.NoTime {
			ev.start = fallbackStart
		}
		ev.finish = ev.start
		if latest := obj.LatestVersion(); latest != nil && latest.Time != schema.NoTime {
			ev.finish = latest.Time
		}
		// Control edges arriving at any version push the finish out to
		// cover effects the process caused before it exited.
		for _, v := range obj.Versions() {
			for _, e := range v.In {
				if e.Kind == schema.ControlEdge && e.Src.Time > ev.finish {
					ev.finish = e.Src.Time
				}
			}
		}

		events = append(events, ev)
		if obj.PID != 0 {
			byPID[obj.PID] = ev
		}
	}

	for _, ev := range events {
		parent := root
		if p, ok := byPID[ev.object.ParentPID]; ok && p != ev && !isAncestor(ev, p) {
			parent = p
		}
		parent.add(ev)
		if ev.start == schema.NoTime {
			ev.start = parent.start + startEpsilon
		}
		if ev.finish < ev.start {
			ev.finish = ev.start
		}
		// Every ancestor interval must cover its descendants.
		for anc := parent; anc != nil; anc = anc.parent {
			if ev.start < anc.start {
				anc.start = ev.start
			}
			if ev.finish > anc.finish {
				anc.finish = ev.finish
			}
		}
	}

	var sortChildren func(ev *timelineEvent)
	sortChildren = func(ev *timelineEvent) {
		sort.SliceStable(ev.children, func(i, j int) bool {
			return ev.children[i].start < ev.children[j].start
		})
		for _, c := range ev.children {
			sortChildren(c)
		}
	}
	sortChildren(root)
	return root
}
