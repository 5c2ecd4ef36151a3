package core

import (
	"context"
	"regexp"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
)

// GroupPredicate decides whether two nodes belong in the same subgroup.
type GroupPredicate interface {
	CanGroup(a, b *schema.Node) bool
}

// GroupLabeler optionally labels a newly created subgroup from its pivot
// node.
type GroupLabeler interface {
	LabelFor(pivot *schema.Node) string
}

// EquivalenceSummarizer extracts maximal sets of pairwise-equivalent,
// co-resident nodes into new subgroups, driven by a pluggable predicate.
// Within each existing group it repeats full passes until a pass creates no
// new subgroup, since extracting a set changes what remains comparable.
// Cost is quadratic in group size per pass; groups are bounded by prior
// summarization or deliberately small.
type EquivalenceSummarizer struct {
	Predicate GroupPredicate
	Labeler   GroupLabeler // optional
}

// Name implements Summarizer.
func (s *EquivalenceSummarizer) Name() string { return "equivalence" }

// Summarize implements Summarizer. Cancellation is polled once per pivot.
func (s *EquivalenceSummarizer) Summarize(ctx context.Context, g *schema.Graph, mon contract.ProgressMonitor) error {
	if err := validateGraph(g); err != nil {
		return err
	}
	groups := CollectGroups(g.Root())
	contract.StartProgress(mon, len(groups))
	for i, grp := range groups {
		if err := s.summarizeGroup(ctx, g, grp); err != nil {
			return err
		}
		if mon != nil {
			mon.SetProgress(i + 1)
		}
	}
	return nil
}

func (s *EquivalenceSummarizer) summarizeGroup(ctx context.Context, g *schema.Graph, grp *schema.Group) error {
	for {
		created := false
		children := directVisibleNodes(grp)
		for i, pivot := range children {
			if err := ctx.Err(); err != nil {
				return err
			}
			if pivot.Parent() != grp {
				continue
			}
			var sub *schema.Group
			for _, other := range children[i+1:] {
				// Only still-co-resident children are comparable.
				if other.Parent() != grp || !other.Visible {
					continue
				}
				if !s.Predicate.CanGroup(pivot, other) {
					continue
				}
				if sub == nil {
					sub = g.NewGroup("")
					if err := grp.Adopt(sub); err != nil {
						return err
					}
					if err := sub.Adopt(pivot); err != nil {
						return err
					}
					if s.Labeler != nil {
						sub.SetLabel(s.Labeler.LabelFor(pivot))
					}
					created = true
				}
				if err := sub.Adopt(other); err != nil {
					return err
				}
			}
		}
		if !created {
			return nil
		}
	}
}

// directVisibleNodes snapshots a group's direct children that are visible
// raw nodes.
func directVisibleNodes(grp *schema.Group) []*schema.Node {
	var out []*schema.Node
	for _, c := range grp.Children() {
		if n, ok := c.(*schema.Node); ok && n.Visible {
			out = append(out, n)
		}
	}
	return out
}

// HashBucketPredicate groups nodes whose identities share a hash bucket.
// Synthetic, used for testing the extraction machinery.
type HashBucketPredicate struct {
	Buckets int
}

// CanGroup implements GroupPredicate.
func (p HashBucketPredicate) CanGroup(a, b *schema.Node) bool {
	buckets := p.Buckets
	if buckets <= 0 {
		buckets = 2
	}
	return a.ID%buckets == b.ID%buckets
}

// IndexBucketPredicate groups runs of consecutive node identities.
// Synthetic, used for testing the extraction machinery.
type IndexBucketPredicate struct {
	Size int
}

// CanGroup implements GroupPredicate.
func (p IndexBucketPredicate) CanGroup(a, b *schema.Node) bool {
	size := p.Size
	if size <= 0 {
		size = 2
	}
	return a.ID/size == b.ID/size
}

// SameNeighborsPredicate groups two nodes iff their visible in-degree,
// out-degree, and distinct in/out neighbor sets are pointwise identical.
// An expensive but exact structural-equivalence test.
type SameNeighborsPredicate struct{}

// CanGroup implements GroupPredicate.
func (SameNeighborsPredicate) CanGroup(a, b *schema.Node) bool {
	if a.InDegree() != b.InDegree() || a.OutDegree() != b.OutDegree() {
		return false
	}
	return sameNodeSet(inNeighbors(a), inNeighbors(b)) &&
		sameNodeSet(outNeighbors(a), outNeighbors(b))
}

func inNeighbors(n *schema.Node) map[*schema.Node]bool {
	set := make(map[*schema.Node]bool)
	for _, e := range n.In {
		if e.Visible() {
			set[e.Src] = true
		}
	}
	return set
}

func outNeighbors(n *schema.Node) map[*schema.Node]bool {
	set := make(map[*schema.Node]bool)
	for _, e := range n.Out {
		if e.Visible() {
			set[e.Dst] = true
		}
	}
	return set
}

func sameNodeSet(a, b map[*schema.Node]bool) bool {
	if len(a) != len(b) {
		return false
	}
	for n := range a {
		if !b[n] {
			return false
		}
	}
	return true
}

// RegexPredicate groups two nodes iff both labels match the pattern. The
// produced subgroup carries the fixed GroupLabel.
type RegexPredicate struct {
	Pattern    *regexp.Regexp
	GroupLabel string
}

// NewRegexPredicate compiles pattern into a RegexPredicate labeling matched
// groups with label.
func NewRegexPredicate(pattern, label string) (*RegexPredicate, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, err
	}
	return &RegexPredicate{Pattern: re, GroupLabel: label}, nil
}

// CanGroup implements GroupPredicate.
func (p *RegexPredicate) CanGroup(a, b *schema.Node) bool {
	return p.Pattern.MatchString(a.Label()) && p.Pattern.MatchString(b.Label())
}

// LabelFor implements GroupLabeler.
func (p *RegexPredicate) LabelFor(_ *schema.Node) string { return p.GroupLabel }
