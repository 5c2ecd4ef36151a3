package schema

// SummarizeListener receives the summarization transaction bracket. The host
// uses it to invalidate caches and layouts; delivery is ordered and
// synchronous, and the bracket carries no atomicity guarantee.
type SummarizeListener interface {
	SummarizeBegan(g *Graph)
	SummarizeEnded(g *Graph)
}

// Graph is an in-memory provenance graph together with its containment tree.
// Topology (nodes, edges, objects) is immutable during summarization; only
// group membership, aux fields, visibility and scores change.
type Graph struct {
	TimeBase float64 // Reference time subtracted when timestamps were adjusted

	// Ranking state owned by the graph, refreshed by the ranking engine.
	HasRanking bool
	RankStats  RankStats

	nodes   []*Node
	edges   []*Edge
	objects []*Object
	root    *Group

	nextGroupID int
	treeStamp   uint64
	listeners   []SummarizeListener
}

// NewGraph returns an empty graph with a fresh root group.
func NewGraph() *Graph {
	g := &Graph{}
	g.root = &Group{ID: 0, graph: g, label: "root"}
	g.nextGroupID = 1
	return g
}

// Root returns the graph's root group, ancestor of every node and group.
func (g *Graph) Root() *Group { return g.root }

// Nodes returns all nodes in creation order.
func (g *Graph) Nodes() []*Node { return g.nodes }

// Edges returns all edges in creation order.
func (g *Graph) Edges() []*Edge { return g.edges }

// Objects returns all logical objects in creation order.
func (g *Graph) Objects() []*Object { return g.objects }

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int { return len(g.nodes) }

// AddObject creates a new logical object. FirstSeen starts at NoTime.
func (g *Graph) AddObject(kind ObjectKind, name string) *Object {
	obj := &Object{
		ID:        len(g.objects),
		Kind:      kind,
		Name:      name,
		FirstSeen: NoTime,
	}
	g.objects = append(g.objects, obj)
	return obj
}

// AddNode appends a new version of obj with the given adjusted and raw
// timestamps. The node starts visible, owned by the root group, and linked
// to the previous version of the object if one exists.
func (g *Graph) AddNode(obj *Object, t, raw float64) *Node {
	n := &Node{
		ID:      len(g.nodes),
		Object:  obj,
		Time:    t,
		RawTime: raw,
		Visible: true,
	}
	if obj != nil {
		n.Version = len(obj.versions)
		if prev := obj.LatestVersion(); prev != nil {
			prev.Next = n
			n.Prev = prev
		}
		obj.versions = append(obj.versions, n)
		if obj.FirstSeen == NoTime && t != NoTime {
			obj.FirstSeen = t
		}
	}
	g.nodes = append(g.nodes, n)
	_ = g.root.Adopt(n)
	return n
}

// AddEdge creates a directed edge of the given kind from src to dst and
// registers it with both endpoints.
func (g *Graph) AddEdge(kind EdgeKind, src, dst *Node) *Edge {
	e := &Edge{Kind: kind, Src: src, Dst: dst}
	g.edges = append(g.edges, e)
	src.Out = append(src.Out, e)
	dst.In = append(dst.In, e)
	return e
}

// NewGroup creates a detached summary group. The caller attaches it with
// Group.Adopt; a group never attached is simply garbage.
func (g *Graph) NewGroup(label string) *Group {
	grp := &Group{ID: g.nextGroupID, graph: g, label: label}
	g.nextGroupID++
	return grp
}

// MaxRawTime returns the largest unadjusted timestamp in the graph, or
// NoTime for an empty graph.
func (g *Graph) MaxRawTime() float64 {
	maxTime := NoTime
	for _, n := range g.nodes {
		if n.RawTime > maxTime {
			maxTime = n.RawTime
		}
	}
	return maxTime
}

// OnSummarize registers a listener for the summarization bracket.
// Listeners are invoked in registration order.
func (g *Graph) OnSummarize(l SummarizeListener) {
	g.listeners = append(g.listeners, l)
}

// BeginSummarize opens the summarization transaction bracket. It is invoked
// exactly once per top-level summarize call.
func (g *Graph) BeginSummarize() {
	for _, l := range g.listeners {
		l.SummarizeBegan(g)
	}
}

// EndSummarize closes the summarization transaction bracket.
func (g *Graph) EndSummarize() {
	for _, l := range g.listeners {
		l.SummarizeEnded(g)
	}
}
