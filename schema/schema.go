// Package schema has the provenance graph model shared by all parts of provscope:
// nodes, edges, version chains, logical objects and the containment tree of
// summary groups. The model is owned by a single caller; nothing in this
// package is safe for concurrent mutation.
package schema

import (
	"fmt"
	"strings"
)

// Object is the logical entity behind a version chain, e.g. one process or one
// file over its lifetime. Its Versions slice is ordered oldest to newest.
type Object struct {
	ID        int        // Stable identity within the graph
	Kind      ObjectKind // Process or artifact
	Name      string     // Full name (path for artifacts, command line for processes)
	FirstSeen float64    // Time the object was first observed, NoTime if unknown
	PID       int        // Process id (processes only, 0 otherwise)
	ParentPID int        // Parent process id (processes only, 0 if unresolved)

	versions []*Node
}

// Versions returns the object's version chain, oldest first.
func (o *Object) Versions() []*Node { return o.versions }

// FirstVersion returns the oldest version of the object, or nil.
func (o *Object) FirstVersion() *Node {
	if len(o.versions) == 0 {
		return nil
	}
	return o.versions[0]
}

// LatestVersion returns the newest version of the object, or nil.
func (o *Object) LatestVersion() *Node {
	if len(o.versions) == 0 {
		return nil
	}
	return o.versions[len(o.versions)-1]
}

// ShortName returns the last path segment of the object's name.
func (o *Object) ShortName() string {
	name := o.Name
	if idx := strings.LastIndexByte(name, '/'); idx >= 0 && idx < len(name)-1 {
		name = name[idx+1:]
	}
	return name
}

// Node is one version of an object inside the graph. Exactly one summary
// group owns a node at any time; that group is reachable via Parent.
type Node struct {
	ID      int     // Stable identity within the graph
	Object  *Object // Logical object this version belongs to
	Version int     // Position in the version chain, starting at 0
	Time    float64 // Adjusted timestamp (seconds), NoTime if unknown
	RawTime float64 // Unadjusted timestamp (seconds), NoTime if unknown
	Aux     float64 // Scratch slot reused by algorithms for intermediate sums
	Visible bool    // False when hidden by filtering; most passes skip hidden nodes
	Score   float64 // Importance score computed by the ranking engine

	In   []*Edge // Incoming edges, in insertion order
	Out  []*Edge // Outgoing edges, in insertion order
	Prev *Node   // Previous version in the chain, nil for the first
	Next *Node   // Next version in the chain, nil for the latest

	parent *Group
}

// Parent returns the summary group that currently owns the node.
func (n *Node) Parent() *Group { return n.parent }

func (n *Node) setParent(g *Group) { n.parent = g }

// Label returns a human-readable label for the node.
func (n *Node) Label() string {
	if n.Object == nil {
		return fmt.Sprintf("node-%d", n.ID)
	}
	if n.Version == 0 {
		return n.Object.ShortName()
	}
	return fmt.Sprintf("%s [%d]", n.Object.ShortName(), n.Version)
}

// InDegree returns the number of incoming edges with both endpoints visible.
func (n *Node) InDegree() int {
	count := 0
	for _, e := range n.In {
		if e.Visible() {
			count++
		}
	}
	return count
}

// OutDegree returns the number of outgoing edges with both endpoints visible.
func (n *Node) OutDegree() int {
	count := 0
	for _, e := range n.Out {
		if e.Visible() {
			count++
		}
	}
	return count
}

// Degree returns the total visible degree of the node.
func (n *Node) Degree() int { return n.InDegree() + n.OutDegree() }

// Neighbors returns the distinct visible neighbor nodes across both edge
// directions, in first-encounter order.
func (n *Node) Neighbors() []*Node {
	seen := make(map[*Node]bool)
	var out []*Node
	for _, e := range n.In {
		if e.Visible() && !seen[e.Src] {
			seen[e.Src] = true
			out = append(out, e.Src)
		}
	}
	for _, e := range n.Out {
		if e.Visible() && !seen[e.Dst] {
			seen[e.Dst] = true
			out = append(out, e.Dst)
		}
	}
	return out
}

// Edge is a typed, directed connection between two nodes. Edges are owned by
// their endpoint nodes, never by the containment tree.
type Edge struct {
	Kind EdgeKind
	Src  *Node
	Dst  *Node
}

// Visible reports whether both endpoints of the edge are visible.
func (e *Edge) Visible() bool { return e.Src.Visible && e.Dst.Visible }
