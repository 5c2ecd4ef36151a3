package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/provscope/provscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEquivalenceSummarizerBuckets tests maximal-set extraction with the
// synthetic bucket predicates.
func TestEquivalenceSummarizerBuckets(t *testing.T) {
	g := schema.NewGraph()
	obj := g.AddObject(schema.ArtifactObject, "a")
	var nodes []*schema.Node
	for i := 0; i < 6; i++ {
		nodes = append(nodes, g.AddNode(obj, float64(i), float64(i)))
	}

	s := &EquivalenceSummarizer{Predicate: IndexBucketPredicate{Size: 3}}
	require.NoError(t, s.Summarize(context.Background(), g, nil))

	// IDs 0..2 and 3..5 each form one subgroup.
	first := nodes[0].Parent()
	second := nodes[3].Parent()
	require.NotEqual(t, g.Root(), first)
	require.NotEqual(t, g.Root(), second)
	assert.NotEqual(t, first, second)
	for _, n := range nodes[:3] {
		assert.Equal(t, first, n.Parent())
	}
	for _, n := range nodes[3:] {
		assert.Equal(t, second, n.Parent())
	}
}

// TestSameNeighborsPredicate tests the structural-equivalence predicate.
func TestSameNeighborsPredicate(t *testing.T) {
	g := schema.NewGraph()
	src := g.AddNode(g.AddObject(schema.ProcessObject, "p"), 1, 1)
	a := g.AddNode(g.AddObject(schema.ArtifactObject, "a"), 2, 2)
	b := g.AddNode(g.AddObject(schema.ArtifactObject, "b"), 3, 3)
	c := g.AddNode(g.AddObject(schema.ArtifactObject, "c"), 4, 4)
	other := g.AddNode(g.AddObject(schema.ProcessObject, "q"), 5, 5)
	g.AddEdge(schema.DataEdge, src, a)
	g.AddEdge(schema.DataEdge, src, b)
	g.AddEdge(schema.DataEdge, other, c)

	pred := SameNeighborsPredicate{}
	assert.True(t, pred.CanGroup(a, b))
	assert.False(t, pred.CanGroup(a, c))

	t.Run("hidden endpoints drop out of the comparison", func(t *testing.T) {
		other.Visible = false
		g.AddEdge(schema.DataEdge, src, c)
		assert.True(t, pred.CanGroup(a, c))
	})

	t.Run("multi-edges collapse to one neighbor", func(t *testing.T) {
		g.AddEdge(schema.DataEdge, src, a)
		// a now has two edges from src but still one distinct neighbor,
		// yet its visible in-degree differs from b's.
		assert.False(t, pred.CanGroup(a, b))
	})
}

// TestEquivalenceSummarizerNeighbors tests the neighbors strategy end to end.
func TestEquivalenceSummarizerNeighbors(t *testing.T) {
	g := schema.NewGraph()
	src := g.AddNode(g.AddObject(schema.ProcessObject, "writer"), 1, 1)
	var twins []*schema.Node
	for i := 0; i < 3; i++ {
		n := g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("t%d", i)), float64(i+2), float64(i+2))
		g.AddEdge(schema.DataEdge, src, n)
		twins = append(twins, n)
	}
	lone := g.AddNode(g.AddObject(schema.ArtifactObject, "lone"), 9, 9)
	g.AddEdge(schema.DataEdge, lone, src)

	s := &EquivalenceSummarizer{Predicate: SameNeighborsPredicate{}}
	require.NoError(t, s.Summarize(context.Background(), g, nil))

	sub := twins[0].Parent()
	require.NotEqual(t, g.Root(), sub)
	for _, n := range twins {
		assert.Equal(t, sub, n.Parent())
	}
	assert.Equal(t, g.Root(), lone.Parent())
	assert.Equal(t, g.Root(), src.Parent())
}

// TestRegexPredicate tests regex-driven grouping and labeling.
func TestRegexPredicate(t *testing.T) {
	t.Run("invalid pattern rejected", func(t *testing.T) {
		_, err := NewRegexPredicate("([", "bad")
		assert.Error(t, err)
	})

	t.Run("groups matching labels", func(t *testing.T) {
		g := schema.NewGraph()
		var logs []*schema.Node
		for i := 0; i < 3; i++ {
			logs = append(logs, g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("x%d.log", i)), float64(i+1), float64(i+1)))
		}
		conf := g.AddNode(g.AddObject(schema.ArtifactObject, "app.conf"), 9, 9)

		pred, err := NewRegexPredicate(`\.log$`, "logs")
		require.NoError(t, err)
		s := &EquivalenceSummarizer{Predicate: pred, Labeler: pred}
		require.NoError(t, s.Summarize(context.Background(), g, nil))

		sub := logs[0].Parent()
		require.NotEqual(t, g.Root(), sub)
		assert.Equal(t, "logs", sub.Label())
		for _, n := range logs {
			assert.Equal(t, sub, n.Parent())
		}
		assert.Equal(t, g.Root(), conf.Parent())
	})
}

// TestEquivalenceSummarizerCancellation tests that cancellation before the
// first pivot leaves the tree untouched.
func TestEquivalenceSummarizerCancellation(t *testing.T) {
	g := schema.NewGraph()
	obj := g.AddObject(schema.ArtifactObject, "a")
	for i := 0; i < 4; i++ {
		g.AddNode(obj, float64(i), float64(i))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	s := &EquivalenceSummarizer{Predicate: HashBucketPredicate{Buckets: 2}}
	err := s.Summarize(ctx, g, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, CollectGroups(g.Root()), 1)
	for _, n := range g.Nodes() {
		assert.Equal(t, g.Root(), n.Parent())
	}
}
