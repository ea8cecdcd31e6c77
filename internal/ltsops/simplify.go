package ltsops

import (
	"fmt"
	"sort"

	"github.com/dekarrin/ltsc/internal/lts"
)

// Simplify minimises g under strong bisimulation by iterative partition
// refinement ("colouring") over node signatures: nodes that
// are behaviourally indistinguishable are merged into one. The result is
// trimmed and has its duplicate edges collapsed.
func Simplify(g *lts.LTS, alloc *lts.IDAllocator) *lts.LTS {
	out := g.Clone()
	colour := colourGraph(out)

	groups := map[int][]int{}
	for id, c := range colour {
		groups[c] = append(groups[c], id)
	}

	for _, ids := range groups {
		if len(ids) < 2 {
			continue
		}
		sorted := lts.SortedIDs(toSet(ids))
		out.MergeNodes(sorted)
	}

	out.RemoveDuplicateEdges()
	out.Trim()
	return out
}

// Equivalent reports whether every graph in graphs is strongly bisimilar to
// every other: their disjoint union is coloured together and their roots
// must all land in the same colour class.
func Equivalent(graphs ...*lts.LTS) bool {
	if len(graphs) < 2 {
		return true
	}

	union := lts.New()
	roots := make([]int, 0, len(graphs))
	for _, g := range graphs {
		for _, n := range g.Nodes() {
			union.AddNode(n)
		}
		for _, e := range g.Edges() {
			union.AddEdge(e)
		}
		if r, ok := g.Root(); ok {
			roots = append(roots, r)
		}
	}

	colour := colourGraph(union)
	if len(roots) == 0 {
		return true
	}
	first := colour[roots[0]]
	for _, r := range roots[1:] {
		if colour[r] != first {
			return false
		}
	}
	return true
}

// colourGraph assigns every node a colour (an opaque int) such that two
// nodes share a colour iff they are strongly bisimilar, via partition
// refinement: every node starts at colour 0, except a node that is the
// target of any δ edge, which starts at colour -1; each round then refines
// on the signature of (own colour, target-colour for every outgoing edge,
// plus a marker if the node has an incoming δ) until no refinement changes
// the number of distinct colours.
func colourGraph(g *lts.LTS) map[int]int {
	nodes := g.Nodes()

	hasIncomingDelta := make(map[int]bool, len(nodes))
	for _, e := range g.Edges() {
		if e.Label.IsDelta() {
			hasIncomingDelta[e.To] = true
		}
	}

	colour := make(map[int]int, len(nodes))
	for _, n := range nodes {
		if hasIncomingDelta[n.ID] {
			colour[n.ID] = -1
		} else {
			colour[n.ID] = 0
		}
	}

	// Partition refinement only ever splits classes further, so the number
	// of distinct colours is non-decreasing; the fixed point is reached
	// when a refinement pass leaves that count unchanged. Comparing raw
	// colour numbers instead would be unsound: the numbering is reassigned
	// from scratch each pass in map-iteration order, so the same partition
	// can get different numbers from one pass to the next.
	classCount := len(distinctValues(colour))

	for {
		sig := make(map[int]string, len(nodes))
		for _, n := range nodes {
			edges := g.EdgesFrom(n.ID)
			parts := make([]string, len(edges))
			for i, e := range edges {
				parts[i] = fmt.Sprintf("%s->%d", e.Label.String(), colour[e.To])
			}
			if hasIncomingDelta[n.ID] {
				parts = append(parts, "-1-><deltaIn>")
			}
			sort.Strings(parts)
			sig[n.ID] = fmt.Sprintf("%d|%v", colour[n.ID], parts)
		}

		next := make(map[string]int)
		newColour := make(map[int]int, len(nodes))
		for _, n := range nodes {
			s := sig[n.ID]
			c, ok := next[s]
			if !ok {
				c = len(next)
				next[s] = c
			}
			newColour[n.ID] = c
		}

		colour = newColour
		if len(next) == classCount {
			break
		}
		classCount = len(next)
	}

	return colour
}

func distinctValues(m map[int]int) map[int]bool {
	out := make(map[int]bool, len(m))
	for _, v := range m {
		out[v] = true
	}
	return out
}

func toSet(ids []int) map[int]bool {
	out := make(map[int]bool, len(ids))
	for _, id := range ids {
		out[id] = true
	}
	return out
}
