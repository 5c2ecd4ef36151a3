package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/provscope/provscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTimeClusterPartition tests that clustering a large flat group yields an
// exact partition into leaf clusters within the size bounds.
func TestTimeClusterPartition(t *testing.T) {
	g := schema.NewGraph()
	for i := 0; i < 1000; i++ {
		obj := g.AddObject(schema.ArtifactObject, fmt.Sprintf("f%d", i))
		g.AddNode(obj, float64(i+1), float64(i+1))
	}

	s := &TimeClusterSummarizer{MinNodes: 5, MaxNodes: 60}
	require.NoError(t, s.Summarize(context.Background(), g, nil))

	// Every node left the root.
	for _, c := range g.Root().Children() {
		_, isGroup := c.(*schema.Group)
		assert.True(t, isGroup, "root must only hold cluster groups")
	}

	// Leaf clusters respect the size bounds and partition the node set.
	total := 0
	seen := make(map[*schema.Node]bool)
	for _, grp := range CollectGroups(g.Root()) {
		if grp.IsRoot() {
			continue
		}
		direct := 0
		hasSubgroup := false
		for _, c := range grp.Children() {
			switch m := c.(type) {
			case *schema.Node:
				direct++
				assert.False(t, seen[m], "node owned by two clusters")
				seen[m] = true
			case *schema.Group:
				hasSubgroup = true
			}
		}
		if !hasSubgroup {
			assert.GreaterOrEqual(t, direct, 5)
			assert.LessOrEqual(t, direct, 60)
		}
		total += direct
	}
	assert.Equal(t, 1000, total)
}

// TestTimeClusterGapBreaks tests that a dominant time gap separates clusters.
func TestTimeClusterGapBreaks(t *testing.T) {
	g := schema.NewGraph()
	var early, late []*schema.Node
	for i := 0; i < 6; i++ {
		n := g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("e%d", i)), float64(i+1), float64(i+1))
		early = append(early, n)
	}
	for i := 0; i < 6; i++ {
		n := g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("l%d", i)), float64(i+1000), float64(i+1000))
		late = append(late, n)
	}

	s := &TimeClusterSummarizer{MinNodes: 2, MaxNodes: 8}
	require.NoError(t, s.Summarize(context.Background(), g, nil))

	first := early[0].Parent()
	second := late[0].Parent()
	require.NotEqual(t, g.Root(), first)
	require.NotEqual(t, g.Root(), second)
	assert.NotEqual(t, first, second)
	for _, n := range early {
		assert.Equal(t, first, n.Parent())
	}
	for _, n := range late {
		assert.Equal(t, second, n.Parent())
	}
}

// TestTimeClusterTrailingFold tests that a trailing fragment below the
// minimum folds into the preceding cluster even when that pushes it past the
// maximum, and that the oversized cluster survives the revisit intact when
// its gaps allow no bounded re-split.
func TestTimeClusterTrailingFold(t *testing.T) {
	g := schema.NewGraph()
	times := []float64{1, 2, 3, 4, 11, 12, 13, 14, 15}
	var nodes []*schema.Node
	for i, ts := range times {
		nodes = append(nodes, g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("f%d", i)), ts, ts))
	}

	s := &TimeClusterSummarizer{MinNodes: 2, MaxNodes: 4}
	require.NoError(t, s.Summarize(context.Background(), g, nil))

	// The big gap splits off the first four; the walk then fills to the
	// maximum and the lone trailing node folds back in rather than
	// stranding a sub-minimum cluster.
	first := nodes[0].Parent()
	second := nodes[4].Parent()
	require.NotEqual(t, g.Root(), first)
	require.NotEqual(t, g.Root(), second)
	assert.NotEqual(t, first, second)
	for _, n := range nodes[:4] {
		assert.Equal(t, first, n.Parent())
	}
	for _, n := range nodes[4:] {
		assert.Equal(t, second, n.Parent())
	}

	// The folded cluster exceeds the maximum; with uniform gaps inside it
	// there is no bounded re-split, so it stays flat.
	assert.Len(t, CollectGroups(g.Root()), 3)
}

// TestTimeClusterSmallGroupUntouched tests that groups within the size bound
// are not split.
func TestTimeClusterSmallGroupUntouched(t *testing.T) {
	g := schema.NewGraph()
	for i := 0; i < 10; i++ {
		g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("f%d", i)), float64(i+1), float64(i+1))
	}
	s := &TimeClusterSummarizer{MinNodes: 5, MaxNodes: 60}
	require.NoError(t, s.Summarize(context.Background(), g, nil))
	assert.Len(t, CollectGroups(g.Root()), 1)
}

// TestTimeClusterProcessesOnly tests the process-restricted variant.
func TestTimeClusterProcessesOnly(t *testing.T) {
	g := schema.NewGraph()
	var artifacts []*schema.Node
	for i := 0; i < 12; i++ {
		g.AddNode(g.AddObject(schema.ProcessObject, fmt.Sprintf("p%d", i)), float64(i+1), float64(i+1))
	}
	for i := 0; i < 3; i++ {
		artifacts = append(artifacts, g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("a%d", i)), float64(i+100), float64(i+100)))
	}

	s := &TimeClusterSummarizer{MinNodes: 2, MaxNodes: 5, ProcessesOnly: true}
	require.NoError(t, s.Summarize(context.Background(), g, nil))

	// Artifacts never move.
	for _, a := range artifacts {
		assert.Equal(t, g.Root(), a.Parent())
	}
	// Processes got clustered.
	moved := 0
	for _, n := range g.Nodes() {
		if n.Object.Kind == schema.ProcessObject && n.Parent() != g.Root() {
			moved++
		}
	}
	assert.Equal(t, 12, moved)
}

// TestTimeClusterKeepVersions tests that version chains travel with their
// first version.
func TestTimeClusterKeepVersions(t *testing.T) {
	g := schema.NewGraph()
	var firsts []*schema.Node
	for i := 0; i < 12; i++ {
		obj := g.AddObject(schema.ArtifactObject, fmt.Sprintf("f%d", i))
		first := g.AddNode(obj, float64(i+1), float64(i+1))
		g.AddNode(obj, float64(i+50), float64(i+50))
		firsts = append(firsts, first)
	}

	s := &TimeClusterSummarizer{MinNodes: 2, MaxNodes: 5, KeepVersions: true}
	require.NoError(t, s.Summarize(context.Background(), g, nil))

	for _, first := range firsts {
		require.NotNil(t, first.Next)
		assert.Equal(t, first.Parent(), first.Next.Parent())
	}
}

// TestTimeClusterUntimedNodes tests the two policies for untimestamped nodes.
func TestTimeClusterUntimedNodes(t *testing.T) {
	build := func() (*schema.Graph, *schema.Node) {
		g := schema.NewGraph()
		for i := 0; i < 12; i++ {
			g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("f%d", i)), float64(i+1), float64(i+1))
		}
		untimed := g.AddNode(g.AddObject(schema.ArtifactObject, "untimed"), schema.NoTime, schema.NoTime)
		return g, untimed
	}

	t.Run("skipped by default", func(t *testing.T) {
		g, untimed := build()
		s := &TimeClusterSummarizer{MinNodes: 2, MaxNodes: 5}
		require.NoError(t, s.Summarize(context.Background(), g, nil))
		assert.Equal(t, g.Root(), untimed.Parent())
	})

	t.Run("sorted last when kept", func(t *testing.T) {
		g, untimed := build()
		s := &TimeClusterSummarizer{MinNodes: 2, MaxNodes: 5, UntimedLater: true}
		require.NoError(t, s.Summarize(context.Background(), g, nil))
		require.NotEqual(t, g.Root(), untimed.Parent())
		// The untimed node lands in the final cluster.
		nodes := untimed.Parent().Nodes()
		assert.Equal(t, untimed, nodes[len(nodes)-1])
	})
}
