package schema

// SummaryRow is one group in the flattened containment tree, as presented
// to output writers.
type SummaryRow struct {
	GroupID   int    `json:"group_id"`
	Depth     int    `json:"depth"`
	Label     string `json:"label"`
	Nodes     int    `json:"nodes"`     // Visible direct children
	Edges     int    `json:"edges"`     // Edges internal to the subtree
	Subgroups int    `json:"subgroups"` // Direct child groups
}

// RankResult is one ranked node, as presented to output writers.
type RankResult struct {
	NodeID    int     `json:"node_id"`
	Name      string  `json:"name"`
	Kind      string  `json:"kind"`
	Version   int     `json:"version"`
	Score     float64 `json:"score"`
	InDegree  int     `json:"in_degree"`
	OutDegree int     `json:"out_degree"`
	Group     string  `json:"group"` // Label of the owning group
}
