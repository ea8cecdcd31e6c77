// Package ltsops implements the LTS operations library: hiding, abstraction,
// parallel composition, the maintenance-adjacent simplification
// (bisimulation minimisation), and behavioural equivalence.
package ltsops

import "github.com/dekarrin/ltsc/internal/lts"

// Hide returns a clone of g in which every edge whose bare action name is in
// actions has been relabelled to τ. Node identities and edge
// identities are preserved; only labels change.
func Hide(g *lts.LTS, actions []string) *lts.LTS {
	set := make(map[string]bool, len(actions))
	for _, a := range actions {
		set[a] = true
	}

	out := g.Clone()
	for _, e := range out.Edges() {
		if e.Label.IsTau() || e.Label.IsDelta() {
			continue
		}
		if set[e.Label.Bare()] {
			out.RelabelEdge(e.ID, lts.TauLabel())
		}
	}

	return out
}
