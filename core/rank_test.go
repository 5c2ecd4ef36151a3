package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/provscope/provscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestRankScoreSum tests that scores form a probability distribution after
// every run.
func TestRankScoreSum(t *testing.T) {
	g := schema.NewGraph()
	var nodes []*schema.Node
	for i := 0; i < 7; i++ {
		nodes = append(nodes, g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("n%d", i)), float64(i+1), float64(i+1)))
	}
	g.AddEdge(schema.DataEdge, nodes[0], nodes[1])
	g.AddEdge(schema.DataEdge, nodes[1], nodes[2])
	g.AddEdge(schema.DataEdge, nodes[2], nodes[0])
	g.AddEdge(schema.DataEdge, nodes[3], nodes[4])

	require.NoError(t, Rank(context.Background(), g, 50, nil))

	sum := 0.0
	for _, n := range g.Nodes() {
		sum += n.Score
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.True(t, g.HasRanking)
	assert.Equal(t, 50, g.RankStats.Iterations)
	assert.Equal(t, 7, g.RankStats.NodeCount)
}

// TestRankCycleAndSink tests the undamped stationary distribution on a
// two-cycle with an isolated sink.
func TestRankCycleAndSink(t *testing.T) {
	g := schema.NewGraph()
	a := g.AddNode(g.AddObject(schema.ProcessObject, "a"), 1, 1)
	b := g.AddNode(g.AddObject(schema.ProcessObject, "b"), 2, 2)
	c := g.AddNode(g.AddObject(schema.ArtifactObject, "c"), 3, 3)
	g.AddEdge(schema.DataEdge, a, b)
	g.AddEdge(schema.DataEdge, b, a)

	require.NoError(t, Rank(context.Background(), g, 200, nil))

	// The isolated sink bleeds its mass into the cycle.
	assert.InDelta(t, 0.5, a.Score, 1e-6)
	assert.InDelta(t, 0.5, b.Score, 1e-6)
	assert.InDelta(t, 0.0, c.Score, 1e-6)
}

// TestRankHubBeatsLeaf tests that a node fed by many paths outranks the
// leaves feeding it.
func TestRankHubBeatsLeaf(t *testing.T) {
	g := schema.NewGraph()
	hub := g.AddNode(g.AddObject(schema.ProcessObject, "hub"), 1, 1)
	var leaves []*schema.Node
	for i := 0; i < 4; i++ {
		leaf := g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("leaf%d", i)), float64(i+2), float64(i+2))
		g.AddEdge(schema.DataEdge, leaf, hub)
		leaves = append(leaves, leaf)
	}

	// The hub is a sink, so its mass redistributes evenly and the chain mixes.
	require.NoError(t, Rank(context.Background(), g, 100, nil))
	for _, leaf := range leaves {
		assert.Greater(t, hub.Score, leaf.Score)
	}
	assert.InDelta(t, 5.0/9.0, hub.Score, 1e-6)
}

// TestRankEmptyAndInvalid tests the degenerate inputs.
func TestRankEmptyAndInvalid(t *testing.T) {
	t.Run("nil graph", func(t *testing.T) {
		assert.ErrorIs(t, Rank(context.Background(), nil, 10, nil), ErrInvalidGraph)
	})

	t.Run("empty graph", func(t *testing.T) {
		g := schema.NewGraph()
		require.NoError(t, Rank(context.Background(), g, 10, nil))
		assert.False(t, g.HasRanking)
	})
}

// TestRankCancellation tests the per-iteration cancellation point.
func TestRankCancellation(t *testing.T) {
	g := schema.NewGraph()
	g.AddNode(g.AddObject(schema.ProcessObject, "p"), 1, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, Rank(ctx, g, 100, nil), context.Canceled)
	assert.False(t, g.HasRanking)
}

// TestRankNodes tests top-N selection with deterministic tie-breaks.
func TestRankNodes(t *testing.T) {
	g := schema.NewGraph()
	var nodes []*schema.Node
	for i := 0; i < 5; i++ {
		nodes = append(nodes, g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("n%d", i)), float64(i+1), float64(i+1)))
	}
	nodes[2].Score = 0.5
	nodes[4].Score = 0.3
	nodes[0].Score = 0.3

	top := RankNodes(g, 3)
	require.Len(t, top, 3)
	assert.Equal(t, nodes[2], top[0])
	// Equal scores fall back to node identity order.
	assert.Equal(t, nodes[0], top[1])
	assert.Equal(t, nodes[4], top[2])
}

// TestRankResults tests the display-row conversion.
func TestRankResults(t *testing.T) {
	g := schema.NewGraph()
	p := g.AddNode(g.AddObject(schema.ProcessObject, "/bin/cat"), 1, 1)
	f := g.AddNode(g.AddObject(schema.ArtifactObject, "out.txt"), 2, 2)
	g.AddEdge(schema.DataEdge, p, f)
	grp := g.NewGroup("work")
	require.NoError(t, g.Root().Adopt(grp))
	require.NoError(t, grp.Adopt(p))
	p.Score = 0.8
	f.Score = 0.2

	results := RankResults(g, 10)
	require.Len(t, results, 2)
	assert.Equal(t, "cat", results[0].Name)
	assert.Equal(t, "process", results[0].Kind)
	assert.Equal(t, "work", results[0].Group)
	assert.Equal(t, 1, results[0].OutDegree)
	assert.Equal(t, "out.txt", results[1].Name)
	assert.Equal(t, 1, results[1].InDegree)
	assert.Equal(t, "root", results[1].Group)
}
