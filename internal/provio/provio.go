// Package provio loads provenance graphs from JSON documents. It is the
// host-side collaborator supplying the in-memory graph the core operates
// on; the core itself never touches files.
package provio

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/provscope/provscope/schema"
)

// Document is the on-disk graph representation. Nodes must appear in
// version order within each object; edges reference node ids.
type Document struct {
	TimeBase float64      `json:"time_base"`
	Objects  []ObjectSpec `json:"objects"`
	Nodes    []NodeSpec   `json:"nodes"`
	Edges    []EdgeSpec   `json:"edges"`
}

// ObjectSpec describes one logical object.
type ObjectSpec struct {
	ID   int    `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
	PID  int    `json:"pid,omitempty"`
	PPID int    `json:"ppid,omitempty"`
}

// NodeSpec describes one version of an object.
type NodeSpec struct {
	ID      int      `json:"id"`
	Object  int      `json:"object"`
	Time    float64  `json:"time"`
	RawTime *float64 `json:"raw_time,omitempty"` // Defaults to Time
	Hidden  bool     `json:"hidden,omitempty"`
}

// EdgeSpec describes one directed edge between node ids.
type EdgeSpec struct {
	Kind string `json:"kind"`
	Src  int    `json:"src"`
	Dst  int    `json:"dst"`
}

// LoadFile reads and validates a graph document from path.
func LoadFile(path string) (*schema.Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open graph file: %w", err)
	}
	defer func() { _ = f.Close() }()
	g, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("graph file %s: %w", path, err)
	}
	return g, nil
}

// Load reads and validates a graph document from r.
func Load(r io.Reader) (*schema.Graph, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return Build(&doc)
}

// Build converts a decoded document into a graph, validating every
// reference at the boundary so the core can assume a well-formed graph.
func Build(doc *Document) (*schema.Graph, error) {
	g := schema.NewGraph()
	g.TimeBase = doc.TimeBase

	objects := make(map[int]*schema.Object, len(doc.Objects))
	for _, spec := range doc.Objects {
		if _, dup := objects[spec.ID]; dup {
			return nil, fmt.Errorf("duplicate object id %d", spec.ID)
		}
		var kind schema.ObjectKind
		switch schema.ObjectKind(spec.Kind) {
		case schema.ProcessObject:
			kind = schema.ProcessObject
		case schema.ArtifactObject:
			kind = schema.ArtifactObject
		default:
			return nil, fmt.Errorf("object %d: unknown kind %q", spec.ID, spec.Kind)
		}
		obj := g.AddObject(kind, spec.Name)
		obj.PID = spec.PID
		obj.ParentPID = spec.PPID
		objects[spec.ID] = obj
	}

	nodes := make(map[int]*schema.Node, len(doc.Nodes))
	for _, spec := range doc.Nodes {
		if _, dup := nodes[spec.ID]; dup {
			return nil, fmt.Errorf("duplicate node id %d", spec.ID)
		}
		obj, ok := objects[spec.Object]
		if !ok {
			return nil, fmt.Errorf("node %d: unknown object %d", spec.ID, spec.Object)
		}
		raw := spec.Time
		if spec.RawTime != nil {
			raw = *spec.RawTime
		}
		n := g.AddNode(obj, spec.Time, raw)
		n.Visible = !spec.Hidden
		nodes[spec.ID] = n
	}

	for i, spec := range doc.Edges {
		var kind schema.EdgeKind
		switch schema.EdgeKind(spec.Kind) {
		case schema.ControlEdge:
			kind = schema.ControlEdge
		case schema.DataEdge:
			kind = schema.DataEdge
		default:
			return nil, fmt.Errorf("edge %d: unknown kind %q", i, spec.Kind)
		}
		src, ok := nodes[spec.Src]
		if !ok {
			return nil, fmt.Errorf("edge %d: unknown source node %d", i, spec.Src)
		}
		dst, ok := nodes[spec.Dst]
		if !ok {
			return nil, fmt.Errorf("edge %d: unknown destination node %d", i, spec.Dst)
		}
		g.AddEdge(kind, src, dst)
	}

	return g, nil
}
