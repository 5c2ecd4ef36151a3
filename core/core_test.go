package core

import (
	"context"
	"fmt"
	"testing"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func defaultTestConfig() *contract.Config {
	return &contract.Config{
		ExtensionThreshold: contract.DefaultExtensionThreshold,
		ExtensionSameIO:    true,
		UniqueThreshold:    contract.DefaultUniqueThreshold,
		ClusterMin:         contract.DefaultClusterMin,
		ClusterMax:         contract.DefaultClusterMax,
		SmallNodes:         contract.DefaultSmallNodes,
		SmallEdges:         contract.DefaultSmallEdges,
		RankIterations:     contract.DefaultRankIterations,
	}
}

// TestNewSummarizer tests the strategy factory.
func TestNewSummarizer(t *testing.T) {
	cfg := defaultTestConfig()

	tests := []struct {
		name     string
		strategy string
		expected string
	}{
		{"extension", StrategyExtension, StrategyExtension},
		{"uniqueio", StrategyUniqueIO, StrategyUniqueIO},
		{"timecluster", StrategyTimeCluster, StrategyTimeCluster},
		{"timecluster for processes", StrategyProcCluster, StrategyProcCluster},
		{"smallgroups", StrategySmallGroups, StrategySmallGroups},
		{"proctree", StrategyProcessTree, StrategyProcessTree},
		{"neighbors", StrategyNeighbors, "equivalence"},
		{"regex", "regex:.*\\.log", "equivalence"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewSummarizer(tt.strategy, cfg)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, s.Name())
		})
	}

	t.Run("unknown strategy", func(t *testing.T) {
		_, err := NewSummarizer("bogus", cfg)
		assert.ErrorContains(t, err, "unknown strategy")
	})

	t.Run("invalid regex", func(t *testing.T) {
		_, err := NewSummarizer("regex:([", cfg)
		assert.ErrorContains(t, err, "invalid regex strategy")
	})
}

// TestSummarizeBracket tests that the transaction bracket fires exactly once
// around all strategies, including on cancellation.
func TestSummarizeBracket(t *testing.T) {
	mkGraph := func() (*schema.Graph, *[]string) {
		g := schema.NewGraph()
		for i := 0; i < 6; i++ {
			g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("f%d.log", i)), float64(i+1), float64(i+1))
		}
		var calls []string
		g.OnSummarize(&bracketRecorder{calls: &calls})
		return g, &calls
	}

	t.Run("single bracket around multiple strategies", func(t *testing.T) {
		g, calls := mkGraph()
		strategies := []Summarizer{
			&ExtensionSummarizer{Threshold: 4},
			&SmallGroupsSummarizer{NodeThreshold: 100, EdgeThreshold: 100},
		}
		_, err := Summarize(context.Background(), g, strategies, false, nil)
		require.NoError(t, err)
		assert.Equal(t, []string{"begin", "end"}, *calls)
	})

	t.Run("end fires on cancellation", func(t *testing.T) {
		g, calls := mkGraph()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := Summarize(ctx, g, []Summarizer{&ExtensionSummarizer{}}, false, nil)
		assert.ErrorIs(t, err, context.Canceled)
		assert.Equal(t, []string{"begin", "end"}, *calls)
	})
}

type bracketRecorder struct {
	calls *[]string
}

func (r *bracketRecorder) SummarizeBegan(*schema.Graph) { *r.calls = append(*r.calls, "begin") }
func (r *bracketRecorder) SummarizeEnded(*schema.Graph) { *r.calls = append(*r.calls, "end") }

// TestSummarizeCreatedCount tests the net group count bookkeeping.
func TestSummarizeCreatedCount(t *testing.T) {
	g := schema.NewGraph()
	writer := g.AddNode(g.AddObject(schema.ProcessObject, "logd"), 1, 1)
	for i := 0; i < 4; i++ {
		ln := g.AddNode(g.AddObject(schema.ArtifactObject, fmt.Sprintf("%d.log", i)), float64(i+2), float64(i+2))
		g.AddEdge(schema.DataEdge, writer, ln)
	}

	created, err := Summarize(context.Background(), g,
		[]Summarizer{&ExtensionSummarizer{Threshold: 4, RequireSameIO: true}}, false, nil)
	require.NoError(t, err)
	assert.Equal(t, 1, created)
}

// TestSummarizeCleanup tests that the cleanup flag runs orphan assignment and
// singleton collapse after the strategies.
func TestSummarizeCleanup(t *testing.T) {
	g := schema.NewGraph()
	grp := g.NewGroup("work")
	require.NoError(t, g.Root().Adopt(grp))
	p := g.AddNode(g.AddObject(schema.ProcessObject, "sh"), 1, 1)
	q := g.AddNode(g.AddObject(schema.ProcessObject, "awk"), 2, 2)
	require.NoError(t, grp.Adopt(p))
	require.NoError(t, grp.Adopt(q))

	// A connected orphan and a singleton wrapper to collapse.
	orphan := g.AddNode(g.AddObject(schema.ArtifactObject, "out.txt"), 3, 3)
	g.AddEdge(schema.DataEdge, p, orphan)
	single := g.NewGroup("single")
	require.NoError(t, g.Root().Adopt(single))
	lone := g.AddNode(g.AddObject(schema.ArtifactObject, "lone"), 4, 4)
	require.NoError(t, single.Adopt(lone))

	_, err := Summarize(context.Background(), g, nil, true, nil)
	require.NoError(t, err)

	assert.Equal(t, grp, orphan.Parent())
	assert.Equal(t, g.Root(), lone.Parent())
	assert.Nil(t, single.Parent())
}

// TestSummarizeInvalidGraph tests the invalid-input guard.
func TestSummarizeInvalidGraph(t *testing.T) {
	_, err := Summarize(context.Background(), nil, nil, false, nil)
	assert.ErrorIs(t, err, ErrInvalidGraph)
}
