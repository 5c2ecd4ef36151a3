package core

import (
	"context"
	"sort"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
)

// Rank computes a per-node importance score by fixed-point iteration: a
// random-walk stationary-distribution approximation without a damping
// factor. Sink nodes redistribute their entire score evenly across all
// nodes each round; every other node adds its full current score into each
// successor's aux slot. Scores are renormalized to sum to 1 after every
// round to guard against numerical drift.
//
// The undamped formula and the sink handling are part of the observable
// contract; do not "fix" them toward classic damped PageRank.
//
// Cancellation is polled at iteration boundaries only.
func Rank(ctx context.Context, g *schema.Graph, iterations int, mon contract.ProgressMonitor) error {
	if err := validateGraph(g); err != nil {
		return err
	}
	nodes := g.Nodes()
	if len(nodes) == 0 {
		return nil
	}
	if iterations <= 0 {
		iterations = contract.DefaultRankIterations
	}

	total := float64(len(nodes))
	for _, n := range nodes {
		n.Score = 1 / total
		n.Aux = 0
	}

	contract.StartProgress(mon, iterations)
	for it := 0; it < iterations; it++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		shared := 0.0
		for _, n := range nodes {
			if len(n.Out) == 0 {
				shared += n.Score / total
				continue
			}
			for _, e := range n.Out {
				e.Dst.Aux += n.Score
			}
		}

		sum := 0.0
		for _, n := range nodes {
			n.Score = shared + n.Aux
			n.Aux = 0
			sum += n.Score
		}
		if sum > 0 {
			for _, n := range nodes {
				n.Score /= sum
			}
		}

		if mon != nil {
			mon.SetProgress(it + 1)
		}
	}

	g.HasRanking = true
	g.RefreshRankStats(iterations)
	return nil
}

// RankNodes returns the top limit nodes by importance score in descending
// order. Ties are broken by node identity for determinism.
func RankNodes(g *schema.Graph, limit int) []*schema.Node {
	nodes := append([]*schema.Node(nil), g.Nodes()...)
	sort.Slice(nodes, func(i, j int) bool {
		if nodes[i].Score != nodes[j].Score {
			return nodes[i].Score > nodes[j].Score
		}
		return nodes[i].ID < nodes[j].ID
	})
	if len(nodes) > limit {
		return nodes[:limit]
	}
	return nodes
}
