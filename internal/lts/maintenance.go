package lts

import (
	"fmt"
	"sort"
)

// MergeNodes fuses all of ids into ids[0]. Out-edges and
// in-edges of the other ids are retargeted onto the survivor, metadata is
// unioned (later values overwrite earlier on conflict, via Metadata.Merge),
// and root identity is preserved if any merged node was the root.
func (g *LTS) MergeNodes(ids []int) error {
	if len(ids) == 0 {
		return nil
	}
	survivor := ids[0]
	if !g.HasNode(survivor) {
		return fmt.Errorf("merge-nodes: survivor %d not present", survivor)
	}

	survivorWasRoot := g.hasRoot && g.root == survivor
	rootMerged := survivorWasRoot
	meta := g.nodes[survivor].Metadata

	for _, id := range ids[1:] {
		n, ok := g.nodes[id]
		if !ok {
			continue
		}
		meta = meta.Merge(n.Metadata)

		if g.hasRoot && g.root == id {
			rootMerged = true
		}

		for eid, e := range g.edges {
			changed := e
			if e.From == id {
				changed.From = survivor
			}
			if e.To == id {
				changed.To = survivor
			}
			g.edges[eid] = changed
		}

		delete(g.nodes, id)
	}

	survivorNode := g.nodes[survivor]
	survivorNode.Metadata = meta
	g.nodes[survivor] = survivorNode

	if rootMerged {
		g.root, g.hasRoot = survivor, true
	}

	return nil
}

// RemoveDuplicateEdges collapses any two edges sharing a (from, to, label)
// triple, keeping the earliest-inserted (lowest ID). Idempotent.
func (g *LTS) RemoveDuplicateEdges() {
	edges := g.Edges()
	seen := make(map[string]bool, len(edges))

	for _, e := range edges {
		key := fmt.Sprintf("%d|%d|%s", e.From, e.To, e.Label.String())
		if seen[key] {
			delete(g.edges, e.ID)
			continue
		}
		seen[key] = true
	}
}

// Trim removes every node not reachable from the root via a BFS over
// outgoing edges.
func (g *LTS) Trim() {
	root, ok := g.Root()
	if !ok {
		return
	}

	reachable := map[int]bool{root: true}
	queue := []int{root}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.EdgesFrom(cur) {
			if !reachable[e.To] {
				reachable[e.To] = true
				queue = append(queue, e.To)
			}
		}
	}

	for id := range g.nodes {
		if !reachable[id] {
			delete(g.nodes, id)
		}
	}
	for eid, e := range g.edges {
		if !reachable[e.From] || !reachable[e.To] {
			delete(g.edges, eid)
		}
	}
}

// CombineWith unions other's node and edge sets into g, keyed by ID;
// collisions (same ID already present in g) are silently skipped. The root
// is left unchanged; callers that need the other graph's root should read
// it before combining.
func (g *LTS) CombineWith(other *LTS) {
	for _, n := range other.Nodes() {
		if !g.HasNode(n.ID) {
			g.nodes[n.ID] = n
		}
	}
	for _, e := range other.Edges() {
		if _, exists := g.edges[e.ID]; !exists {
			g.edges[e.ID] = e
		}
	}
}

// SortedIDs is a small helper used by callers that need a deterministic
// merge order (e.g. simplification, merging onto the lowest-numbered ID).
func SortedIDs(ids map[int]bool) []int {
	out := make([]int, 0, len(ids))
	for id := range ids {
		out = append(out, id)
	}
	sort.Ints(out)
	return out
}
