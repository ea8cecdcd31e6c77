package ltsops

import (
	"strconv"

	"github.com/dekarrin/ltsc/internal/lts"
	"github.com/dekarrin/ltsc/internal/util"
)

// pairNode tracks the product construction's frontier: which (left, right)
// node pairs have already been allocated a node ID in the output graph.
type pairKey struct{ l, r int }

// Parallel computes the parallel composition g1 || g2: the
// product of the two node sets, with transitions on actions shared by both
// alphabets synchronised (both sides must offer the same visible action
// simultaneously) and all other transitions, including every τ and δ move,
// taken independently by whichever side offers them. τ and δ never
// participate in synchronisation, matching LTS.Alphabet's exclusion of them.
func Parallel(g1, g2 *lts.LTS, alloc *lts.IDAllocator) *lts.LTS {
	out := lts.New()

	shared := util.NewStringSet(g1.Alphabet()).Intersection(util.NewStringSet(g2.Alphabet()))

	ids := make(map[pairKey]int)
	nodeOf := func(l, r int) int {
		key := pairKey{l, r}
		if id, ok := ids[key]; ok {
			return id
		}
		id := alloc.NextNodeID()
		ids[key] = id

		ln, _ := g1.Node(l)
		rn, _ := g2.Node(r)
		meta := lts.Metadata{
			Start: ln.Metadata.Start && rn.Metadata.Start,
		}
		if ln.Metadata.Terminal == lts.TerminalStop && rn.Metadata.Terminal == lts.TerminalStop {
			meta.Terminal = lts.TerminalStop
		}
		out.AddNode(lts.Node{ID: id, Label: productLabel(ln, rn), Metadata: meta})
		return id
	}

	root1, ok1 := g1.Root()
	root2, ok2 := g2.Root()
	if !ok1 || !ok2 {
		return out
	}

	rootID := nodeOf(root1, root2)
	out.SetRoot(rootID)

	queue := []pairKey{{root1, root2}}
	visited := map[pairKey]bool{{root1, root2}: true}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		fromID := nodeOf(cur.l, cur.r)

		for _, e := range g1.EdgesFrom(cur.l) {
			if !e.Label.IsTau() && !e.Label.IsDelta() && shared.Has(e.Label.Bare()) {
				continue
			}
			next := pairKey{e.To, cur.r}
			toID := nodeOf(next.l, next.r)
			out.AddEdge(lts.Edge{ID: alloc.NextEdgeID(), From: fromID, To: toID, Label: e.Label})
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}

		for _, e := range g2.EdgesFrom(cur.r) {
			if !e.Label.IsTau() && !e.Label.IsDelta() && shared.Has(e.Label.Bare()) {
				continue
			}
			next := pairKey{cur.l, e.To}
			toID := nodeOf(next.l, next.r)
			out.AddEdge(lts.Edge{ID: alloc.NextEdgeID(), From: fromID, To: toID, Label: e.Label})
			if !visited[next] {
				visited[next] = true
				queue = append(queue, next)
			}
		}

		for _, e1 := range g1.EdgesFrom(cur.l) {
			if e1.Label.IsTau() || e1.Label.IsDelta() || !shared.Has(e1.Label.Bare()) {
				continue
			}
			for _, e2 := range g2.EdgesFrom(cur.r) {
				if !e1.Label.Equal(e2.Label) {
					continue
				}
				next := pairKey{e1.To, e2.To}
				toID := nodeOf(next.l, next.r)
				out.AddEdge(lts.Edge{ID: alloc.NextEdgeID(), From: fromID, To: toID, Label: e1.Label})
				if !visited[next] {
					visited[next] = true
					queue = append(queue, next)
				}
			}
		}
	}

	return out
}

// productLabel builds a product node's display label "l1.l2" out of its two
// components' own display labels, falling back to a component's node ID
// wherever that component's label is empty.
func productLabel(ln, rn lts.Node) string {
	l1, l2 := ln.Label, rn.Label
	if l1 == "" {
		l1 = strconv.Itoa(ln.ID)
	}
	if l2 == "" {
		l2 = strconv.Itoa(rn.ID)
	}
	return l1 + "." + l2
}
