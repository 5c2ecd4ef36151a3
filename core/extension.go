package core

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/provscope/provscope/internal/contract"
	"github.com/provscope/provscope/schema"
)

// ExtensionSummarizer groups artifact nodes by file extension. Within each
// extension bucket, when RequireSameIO is set, only maximal subsets sharing
// exactly the same incoming-node and outgoing-node sets are merged. Buckets
// smaller than Threshold are left unsummarized.
type ExtensionSummarizer struct {
	Threshold     int  // Minimum bucket size to materialize, default 4
	RequireSameIO bool // Require identical I/O relationships within a bucket
}

// Name implements Summarizer.
func (s *ExtensionSummarizer) Name() string { return StrategyExtension }

// Summarize implements Summarizer. Cancellation is polled once per group.
func (s *ExtensionSummarizer) Summarize(ctx context.Context, g *schema.Graph, mon contract.ProgressMonitor) error {
	if err := validateGraph(g); err != nil {
		return err
	}
	threshold := s.Threshold
	if threshold <= 0 {
		threshold = contract.DefaultExtensionThreshold
	}
	groups := CollectGroups(g.Root())
	contract.StartProgress(mon, len(groups))
	for i, grp := range groups {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.summarizeGroup(g, grp, threshold); err != nil {
			return err
		}
		if mon != nil {
			mon.SetProgress(i + 1)
		}
	}
	return nil
}

func (s *ExtensionSummarizer) summarizeGroup(g *schema.Graph, grp *schema.Group, threshold int) error {
	buckets := make(map[string][]*schema.Node)
	for _, n := range directVisibleNodes(grp) {
		if n.Object == nil || n.Object.Kind != schema.ArtifactObject {
			continue
		}
		ext := extensionOf(n.Object.Name)
		if ext == "" {
			continue
		}
		buckets[ext] = append(buckets[ext], n)
	}

	exts := make([]string, 0, len(buckets))
	for ext := range buckets {
		exts = append(exts, ext)
	}
	sort.Strings(exts)

	for _, ext := range exts {
		subsets := [][]*schema.Node{buckets[ext]}
		if s.RequireSameIO {
			subsets = splitBySameIO(buckets[ext])
		}
		for _, set := range subsets {
			if len(set) < threshold {
				continue
			}
			sub := g.NewGroup("*." + ext)
			if err := grp.Adopt(sub); err != nil {
				return err
			}
			for _, n := range set {
				if err := MoveFromParent(n, grp, sub); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// extensionOf extracts the file extension from an artifact name. Shared
// library names containing ".so." map to "so" before the generic parser
// runs; names without an extension yield "".
func extensionOf(name string) string {
	if name == "" {
		return ""
	}
	if strings.Contains(name, ".so.") {
		return "so"
	}
	base := name
	if idx := strings.LastIndexByte(base, '/'); idx >= 0 {
		base = base[idx+1:]
	}
	dot := strings.LastIndexByte(base, '.')
	if dot <= 0 || dot == len(base)-1 {
		return ""
	}
	return base[dot+1:]
}

// splitBySameIO partitions nodes into maximal subsets sharing exactly the
// same incoming-node set and outgoing-node set, order-independent.
func splitBySameIO(nodes []*schema.Node) [][]*schema.Node {
	byKey := make(map[string][]*schema.Node)
	var keys []string
	for _, n := range nodes {
		key := ioKey(n)
		if _, ok := byKey[key]; !ok {
			keys = append(keys, key)
		}
		byKey[key] = append(byKey[key], n)
	}
	out := make([][]*schema.Node, 0, len(keys))
	for _, key := range keys {
		out = append(out, byKey[key])
	}
	return out
}

// ioKey builds an order-independent fingerprint of a node's visible
// incoming and outgoing neighbor sets.
func ioKey(n *schema.Node) string {
	ins := make([]int, 0, len(n.In))
	for nb := range inNeighbors(n) {
		ins = append(ins, nb.ID)
	}
	outs := make([]int, 0, len(n.Out))
	for nb := range outNeighbors(n) {
		outs = append(outs, nb.ID)
	}
	sort.Ints(ins)
	sort.Ints(outs)
	return fmt.Sprintf("in:%v|out:%v", ins, outs)
}
