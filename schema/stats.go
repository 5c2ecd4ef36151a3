package schema

// RankStats summarizes the distribution of node importance scores. It is
// refreshed by the ranking engine after the final normalization pass.
type RankStats struct {
	Min        float64 // Smallest node score
	Max        float64 // Largest node score
	Mean       float64 // Arithmetic mean of node scores
	Histogram  []int   // Score counts across HistogramBins equal-width bins
	BinWidth   float64 // Width of each histogram bin
	NodeCount  int     // Number of nodes ranked
	Iterations int     // Iteration count used to produce the scores
}

// HistogramBins is the number of buckets in the rank score histogram.
const HistogramBins = 10

// RefreshRankStats recomputes the graph's cached ranking statistics from the
// current node scores.
func (g *Graph) RefreshRankStats(iterations int) {
	stats := RankStats{Iterations: iterations, NodeCount: len(g.nodes)}
	if len(g.nodes) == 0 {
		g.RankStats = stats
		return
	}
	stats.Min = g.nodes[0].Score
	stats.Max = g.nodes[0].Score
	sum := 0.0
	for _, n := range g.nodes {
		if n.Score < stats.Min {
			stats.Min = n.Score
		}
		if n.Score > stats.Max {
			stats.Max = n.Score
		}
		sum += n.Score
	}
	stats.Mean = sum / float64(len(g.nodes))

	stats.Histogram = make([]int, HistogramBins)
	span := stats.Max - stats.Min
	if span <= 0 {
		stats.Histogram[0] = len(g.nodes)
		g.RankStats = stats
		return
	}
	stats.BinWidth = span / HistogramBins
	for _, n := range g.nodes {
		bin := int((n.Score - stats.Min) / stats.BinWidth)
		if bin >= HistogramBins {
			bin = HistogramBins - 1
		}
		stats.Histogram[bin]++
	}
	g.RankStats = stats
}

// GraphStats holds coarse counts for the stats command and the MCP
// graph_stats tool.
type GraphStats struct {
	Nodes     int `json:"nodes"`
	Edges     int `json:"edges"`
	Objects   int `json:"objects"`
	Processes int `json:"processes"`
	Artifacts int `json:"artifacts"`
	Visible   int `json:"visible"`
	Groups    int `json:"groups"`
}

// Stats computes coarse graph statistics.
func (g *Graph) Stats() GraphStats {
	s := GraphStats{Nodes: len(g.nodes), Edges: len(g.edges), Objects: len(g.objects)}
	for _, o := range g.objects {
		if o.Kind == ProcessObject {
			s.Processes++
		} else {
			s.Artifacts++
		}
	}
	for _, n := range g.nodes {
		if n.Visible {
			s.Visible++
		}
	}
	var walk func(grp *Group)
	walk = func(grp *Group) {
		s.Groups++
		for _, c := range grp.Children() {
			if sub, ok := c.(*Group); ok {
				walk(sub)
			}
		}
	}
	walk(g.root)
	return s
}
