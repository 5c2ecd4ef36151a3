package core

import (
	"testing"

	"github.com/provscope/provscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSummaryRows tests the depth-first flattening of the containment tree.
func TestSummaryRows(t *testing.T) {
	g := schema.NewGraph()
	p := g.AddNode(g.AddObject(schema.ProcessObject, "sh"), 1, 1)
	f := g.AddNode(g.AddObject(schema.ArtifactObject, "a.txt"), 2, 2)
	hidden := g.AddNode(g.AddObject(schema.ArtifactObject, "b.txt"), 3, 3)
	hidden.Visible = false
	g.AddEdge(schema.DataEdge, p, f)

	outer := g.NewGroup("outer")
	inner := g.NewGroup("inner")
	require.NoError(t, g.Root().Adopt(outer))
	require.NoError(t, outer.Adopt(inner))
	require.NoError(t, outer.Adopt(p))
	require.NoError(t, inner.Adopt(f))

	rows := SummaryRows(g)
	require.Len(t, rows, 3)

	root := rows[0]
	assert.Equal(t, 0, root.Depth)
	assert.Equal(t, "root", root.Label)
	assert.Equal(t, 0, root.Nodes) // hidden node does not count
	assert.Equal(t, 1, root.Subgroups)
	assert.Equal(t, 1, root.Edges) // both endpoints inside the root subtree

	assert.Equal(t, "outer", rows[1].Label)
	assert.Equal(t, 1, rows[1].Depth)
	assert.Equal(t, 1, rows[1].Nodes)
	assert.Equal(t, 1, rows[1].Subgroups)
	assert.Equal(t, 1, rows[1].Edges)

	assert.Equal(t, "inner", rows[2].Label)
	assert.Equal(t, 2, rows[2].Depth)
	assert.Equal(t, 1, rows[2].Nodes)
	assert.Equal(t, 0, rows[2].Subgroups)
	assert.Equal(t, 0, rows[2].Edges)
}

// TestSummaryRowsChildOrder tests that siblings appear in child order.
func TestSummaryRowsChildOrder(t *testing.T) {
	g := schema.NewGraph()
	first := g.NewGroup("first")
	second := g.NewGroup("second")
	require.NoError(t, g.Root().Adopt(first))
	require.NoError(t, g.Root().Adopt(second))

	rows := SummaryRows(g)
	require.Len(t, rows, 3)
	assert.Equal(t, "first", rows[1].Label)
	assert.Equal(t, "second", rows[2].Label)
}
