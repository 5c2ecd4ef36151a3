package core

import (
	"slices"

	"github.com/provscope/provscope/schema"
)

// MoveFromParent detaches m from the group the caller believes owns it and
// attaches it to dst. It fails with schema.ErrNotChild when the caller's view
// of the tree is stale.
func MoveFromParent(m schema.Member, from, dst *schema.Group) error {
	if m.Parent() != from {
		return schema.ErrNotChild
	}
	return dst.Adopt(m)
}

// MoveFromAncestor detaches m from whichever group currently owns it and
// attaches it to dst, lowering it several tree levels at once.
func MoveFromAncestor(m schema.Member, dst *schema.Group) error {
	if m.Parent() == nil {
		return schema.ErrNotChild
	}
	return dst.Adopt(m)
}

// PromoteToGrandparent moves m one level up the tree. Used when collapsing
// empty or singleton groups.
func PromoteToGrandparent(m schema.Member) error {
	p := m.Parent()
	if p == nil || p.Parent() == nil {
		return schema.ErrNotChild
	}
	return p.Parent().Adopt(m)
}

// LowestCommonAncestor returns the nearest group containing both a and b,
// or nil when they live in different trees. A group counts as its own
// ancestor.
func LowestCommonAncestor(a, b schema.Member) *schema.Group {
	ancestors := make(map[*schema.Group]bool)
	if ga, ok := a.(*schema.Group); ok {
		ancestors[ga] = true
	}
	for p := a.Parent(); p != nil; p = p.Parent() {
		ancestors[p] = true
	}
	if gb, ok := b.(*schema.Group); ok && ancestors[gb] {
		return gb
	}
	for p := b.Parent(); p != nil; p = p.Parent() {
		if ancestors[p] {
			return p
		}
	}
	return nil
}

// CollectGroups snapshots every group reachable from root, including root
// itself, depth first. Iterating the snapshot is safe against concurrent
// restructuring: groups created afterwards are not re-visited.
func CollectGroups(root *schema.Group) []*schema.Group {
	var out []*schema.Group
	var walk func(g *schema.Group)
	walk = func(g *schema.Group) {
		out = append(out, g)
		for _, c := range g.Children() {
			if sub, ok := c.(*schema.Group); ok {
				walk(sub)
			}
		}
	}
	walk(root)
	return out
}

// AssignUnassigned moves every root-level node with at least one edge into
// the common ancestor group of its already-assigned neighbors, repeating
// until no node moves. Each move strictly reduces the number of root-level
// connected orphans, so the fixpoint is bounded by graph size.
func AssignUnassigned(g *schema.Graph) {
	root := g.Root()
	for {
		moved := false
		for _, c := range slices.Clone(root.Children()) {
			n, ok := c.(*schema.Node)
			if !ok || n.Parent() != root {
				continue
			}
			if len(n.In)+len(n.Out) == 0 {
				continue
			}
			target := neighborAncestor(root, n)
			if target == nil || target == root {
				continue
			}
			if err := MoveFromParent(n, root, target); err == nil {
				moved = true
			}
		}
		if !moved {
			return
		}
	}
}

// neighborAncestor computes the common ancestor of all of n's neighbors that
// are not themselves directly under root, or nil when every neighbor is
// still an orphan.
func neighborAncestor(root *schema.Group, n *schema.Node) *schema.Group {
	var common *schema.Group
	found := false
	visit := func(nb *schema.Node) {
		if nb == n || nb.Parent() == root || nb.Parent() == nil {
			return
		}
		if !found {
			common = nb.Parent()
			found = true
			return
		}
		if common != nil {
			common = LowestCommonAncestor(common, nb)
		}
	}
	for _, e := range n.In {
		visit(e.Src)
	}
	for _, e := range n.Out {
		visit(e.Dst)
	}
	return common
}

// RemoveSmallGroups dissolves every group whose visible child count is at or
// below threshold, moving its children up to its parent, until no group
// qualifies. The root group is never deleted; when the root itself
// qualifies, its immediate child groups are dissolved into it instead.
func RemoveSmallGroups(g *schema.Graph, threshold int) {
	for {
		dissolved := false
		for _, grp := range CollectGroups(g.Root()) {
			if grp.VisibleChildCount() > threshold {
				continue
			}
			if grp.IsRoot() {
				for _, c := range slices.Clone(grp.Children()) {
					if sub, ok := c.(*schema.Group); ok {
						dissolveInto(sub, grp)
						dissolved = true
					}
				}
				continue
			}
			if grp.Parent() == nil {
				// Already unlinked by an earlier dissolution this pass.
				continue
			}
			dissolveInto(grp, grp.Parent())
			dissolved = true
		}
		if !dissolved {
			return
		}
	}
}

// RemoveSingletons is RemoveSmallGroups with threshold 1.
func RemoveSingletons(g *schema.Graph) {
	RemoveSmallGroups(g, 1)
}

// dissolveInto moves all of grp's children into parent and unlinks grp.
func dissolveInto(grp, parent *schema.Group) {
	for _, c := range slices.Clone(grp.Children()) {
		_ = parent.Adopt(c)
	}
	_ = parent.RemoveChild(grp)
}
