package schema

import "errors"

// Containment tree errors. Both indicate an internal invariant violation
// rather than a recoverable condition.
var (
	ErrNotChild   = errors.New("member is not a direct child of the group")
	ErrWouldCycle = errors.New("adoption would create a containment cycle")
)

// Member is an element of the containment tree: either a raw graph node or a
// summary group. Only types in this package implement it.
type Member interface {
	Parent() *Group
	Label() string
	setParent(*Group)
}

var (
	_ Member = (*Node)(nil)
	_ Member = (*Group)(nil)
)

// Group is a node of the containment tree. Its children are raw graph nodes
// and/or other groups. Groups are created and destroyed freely during a
// summarization pass; only the root group is permanent.
type Group struct {
	ID int

	graph    *Graph
	label    string
	parent   *Group
	children []Member

	// Lazily computed edges internal to the subtree, valid while the
	// containment tree has not mutated since cacheStamp.
	edgeCache  []*Edge
	cacheStamp uint64
}

// Label returns the group's display label.
func (g *Group) Label() string { return g.label }

// SetLabel updates the group's display label.
func (g *Group) SetLabel(label string) { g.label = label }

// Parent returns the group's containing group, nil for the root.
func (g *Group) Parent() *Group { return g.parent }

func (g *Group) setParent(p *Group) { g.parent = p }

// IsRoot reports whether the group is the graph's root group.
func (g *Group) IsRoot() bool { return g.graph != nil && g.graph.root == g }

// Children returns the group's direct children in insertion order. The
// returned slice is the group's own; callers that mutate the tree while
// iterating must copy it first.
func (g *Group) Children() []Member { return g.children }

// ChildCount returns the number of direct children.
func (g *Group) ChildCount() int { return len(g.children) }

// VisibleChildCount returns the number of direct children that are visible.
// Subgroups always count as visible.
func (g *Group) VisibleChildCount() int {
	count := 0
	for _, c := range g.children {
		if n, ok := c.(*Node); ok && !n.Visible {
			continue
		}
		count++
	}
	return count
}

// Adopt moves m under g, detaching it from its current parent first. The
// single-owner invariant holds throughout. Adopting an ancestor of g (or g
// itself) fails with ErrWouldCycle.
func (g *Group) Adopt(m Member) error {
	if sub, ok := m.(*Group); ok {
		for anc := g; anc != nil; anc = anc.parent {
			if anc == sub {
				return ErrWouldCycle
			}
		}
	}
	if p := m.Parent(); p != nil {
		if err := p.RemoveChild(m); err != nil {
			return err
		}
	}
	g.children = append(g.children, m)
	m.setParent(g)
	if g.graph != nil {
		g.graph.treeStamp++
	}
	return nil
}

// RemoveChild detaches m from g. It fails with ErrNotChild when m is not a
// direct child of g, which guards callers holding a stale view of the tree.
func (g *Group) RemoveChild(m Member) error {
	for i, c := range g.children {
		if c == m {
			g.children = append(g.children[:i], g.children[i+1:]...)
			m.setParent(nil)
			if g.graph != nil {
				g.graph.treeStamp++
			}
			return nil
		}
	}
	return ErrNotChild
}

// ContainsMember reports whether m is g or a descendant of g.
func (g *Group) ContainsMember(m Member) bool {
	for cur := m; cur != nil; {
		if cur == Member(g) {
			return true
		}
		p := cur.Parent()
		if p == nil {
			return false
		}
		cur = p
	}
	return false
}

// Nodes returns every raw graph node in g's subtree, depth first.
func (g *Group) Nodes() []*Node {
	var out []*Node
	g.appendNodes(&out)
	return out
}

func (g *Group) appendNodes(out *[]*Node) {
	for _, c := range g.children {
		switch v := c.(type) {
		case *Node:
			*out = append(*out, v)
		case *Group:
			v.appendNodes(out)
		}
	}
}

// InternalEdges returns the edges whose endpoints both live in g's subtree.
// The result is cached until the containment tree mutates.
func (g *Group) InternalEdges() []*Edge {
	if g.graph == nil {
		return nil
	}
	if g.edgeCache != nil && g.cacheStamp == g.graph.treeStamp {
		return g.edgeCache
	}
	inside := make(map[*Node]bool)
	for _, n := range g.Nodes() {
		inside[n] = true
	}
	edges := []*Edge{}
	for _, e := range g.graph.edges {
		if inside[e.Src] && inside[e.Dst] {
			edges = append(edges, e)
		}
	}
	g.edgeCache = edges
	g.cacheStamp = g.graph.treeStamp
	return edges
}

// InternalEdgeCount returns the number of edges internal to g's subtree.
func (g *Group) InternalEdgeCount() int { return len(g.InternalEdges()) }
