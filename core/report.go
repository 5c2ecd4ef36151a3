package core

import (
	"github.com/provscope/provscope/schema"
)

// SummaryRows flattens the containment tree into display rows, depth-first
// in child order, root included at depth zero.
func SummaryRows(g *schema.Graph) []schema.SummaryRow {
	var rows []schema.SummaryRow
	var walk func(grp *schema.Group, depth int)
	walk = func(grp *schema.Group, depth int) {
		row := schema.SummaryRow{
			GroupID: grp.ID,
			Depth:   depth,
			Label:   grp.Label(),
			Edges:   grp.InternalEdgeCount(),
		}
		var subs []*schema.Group
		for _, c := range grp.Children() {
			switch m := c.(type) {
			case *schema.Node:
				if m.Visible {
					row.Nodes++
				}
			case *schema.Group:
				row.Subgroups++
				subs = append(subs, m)
			}
		}
		rows = append(rows, row)
		for _, sub := range subs {
			walk(sub, depth+1)
		}
	}
	walk(g.Root(), 0)
	return rows
}

// RankResults converts the top limit ranked nodes into display rows.
func RankResults(g *schema.Graph, limit int) []schema.RankResult {
	nodes := RankNodes(g, limit)
	out := make([]schema.RankResult, len(nodes))
	for i, n := range nodes {
		r := schema.RankResult{
			NodeID:    n.ID,
			Name:      n.Label(),
			Version:   n.Version,
			Score:     n.Score,
			InDegree:  n.InDegree(),
			OutDegree: n.OutDegree(),
		}
		if n.Object != nil {
			r.Kind = string(n.Object.Kind)
		}
		if p := n.Parent(); p != nil {
			r.Group = p.Label()
		}
		out[i] = r
	}
	return out
}
