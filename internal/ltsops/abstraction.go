package ltsops

import (
	"github.com/dekarrin/ltsc/internal/lts"
	"github.com/dekarrin/ltsc/internal/util"
)

// FairAbstraction computes weak abstraction over g, assuming
// fairness: every τ-cycle is assumed to eventually be left, so cycles
// collapse away entirely once bypassed.
func FairAbstraction(g *lts.LTS, alloc *lts.IDAllocator) *lts.LTS {
	return abstraction(g, alloc, true)
}

// UnfairAbstraction computes weak abstraction over g without
// the fairness assumption: a τ-cycle is not guaranteed to be left, so it is
// preserved as a synthesized error-sink reachable by δ rather than silently
// collapsed away.
func UnfairAbstraction(g *lts.LTS, alloc *lts.IDAllocator) *lts.LTS {
	return abstraction(g, alloc, false)
}

func abstraction(g *lts.LTS, alloc *lts.IDAllocator, fair bool) *lts.LTS {
	out := g.Clone()

	var originalTau []lts.Edge
	for _, e := range g.Edges() {
		if e.Label.IsTau() {
			originalTau = append(originalTau, e)
		}
	}

	cycleNodes := util.NewKeySet[int]()

	for _, te := range originalTau {
		closure, cycle := tauClosure(g, te.To)
		if cycle {
			cycleNodes.Add(te.From)
		}
		if closure[te.From] {
			cycleNodes.Add(te.From)
		}

		for w := range closure {
			for _, e2 := range g.EdgesFrom(w) {
				if e2.Label.IsTau() {
					continue
				}
				if !out.HasEdge(te.From, e2.To, e2.Label) {
					out.AddEdge(lts.Edge{ID: alloc.NextEdgeID(), From: te.From, To: e2.To, Label: e2.Label})
				}
			}
		}
	}

	for _, te := range originalTau {
		out.RemoveEdge(te.ID)
	}

	for _, n := range cycleNodes.Elements() {
		if !out.HasEdge(n, n, lts.TauLabel()) {
			out.AddEdge(lts.Edge{ID: alloc.NextEdgeID(), From: n, To: n, Label: lts.TauLabel()})
		}
	}

	if fair {
		for _, e := range out.Edges() {
			if e.Label.IsTau() {
				out.RemoveEdge(e.ID)
			}
		}
	} else {
		for _, e := range out.Edges() {
			if !e.Label.IsTau() || e.From != e.To {
				continue
			}
			out.RemoveEdge(e.ID)

			sink := alloc.NextNodeID()
			out.AddNode(lts.Node{ID: sink, Metadata: lts.Metadata{Terminal: lts.TerminalError}})
			out.AddEdge(lts.Edge{ID: alloc.NextEdgeID(), From: sink, To: sink, Label: lts.DeltaLabel()})
			out.AddEdge(lts.Edge{ID: alloc.NextEdgeID(), From: e.From, To: sink, Label: lts.DeltaLabel()})
		}
	}

	retagTerminals(out)
	out.Trim()

	return out
}

// retagTerminals tags every node left with no outgoing edges and no prior
// isTerminal value as isTerminal="stop", now that abstraction may have
// stripped a node's only outgoing edges away.
func retagTerminals(g *lts.LTS) {
	for _, n := range g.Nodes() {
		if n.Metadata.Terminal != lts.TerminalNone {
			continue
		}
		if len(g.EdgesFrom(n.ID)) == 0 {
			n.Metadata.Terminal = lts.TerminalStop
			g.UpdateNode(n)
		}
	}
}

// tauClosure returns the set of nodes reachable from start via zero or more
// τ edges of g (including start), and whether the walk ever revisited an
// already-visited node, signalling a τ-cycle.
func tauClosure(g *lts.LTS, start int) (map[int]bool, bool) {
	visited := map[int]bool{start: true}
	cycle := false
	queue := []int{start}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, e := range g.EdgesFrom(cur) {
			if !e.Label.IsTau() {
				continue
			}
			if visited[e.To] {
				cycle = true
				continue
			}
			visited[e.To] = true
			queue = append(queue, e.To)
		}
	}

	return visited, cycle
}
