// Package lts implements the labelled-transition-system data model: nodes,
// edges, labels, and the graph container that owns them, along with
// maintenance operations over that graph.
package lts

import "sort"

// LTS is a rooted, directed, labelled multigraph. The zero value is not
// ready for use; call New.
type LTS struct {
	nodes   map[int]Node
	edges   map[int]Edge
	root    int
	hasRoot bool
}

// New returns an empty LTS with no root.
func New() *LTS {
	return &LTS{
		nodes: make(map[int]Node),
		edges: make(map[int]Edge),
	}
}

func (g *LTS) AddNode(n Node) {
	g.nodes[n.ID] = n
}

func (g *LTS) UpdateNode(n Node) {
	g.nodes[n.ID] = n
}

// RemoveNode removes a node and any edges that reference it.
func (g *LTS) RemoveNode(id int) {
	delete(g.nodes, id)
	for eid, e := range g.edges {
		if e.From == id || e.To == id {
			delete(g.edges, eid)
		}
	}
	if g.hasRoot && g.root == id {
		g.hasRoot = false
	}
}

func (g *LTS) Node(id int) (Node, bool) {
	n, ok := g.nodes[id]
	return n, ok
}

func (g *LTS) HasNode(id int) bool {
	_, ok := g.nodes[id]
	return ok
}

// Nodes returns all nodes, ordered by ID for deterministic iteration.
func (g *LTS) Nodes() []Node {
	out := make([]Node, 0, len(g.nodes))
	for _, n := range g.nodes {
		out = append(out, n)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (g *LTS) NodeCount() int {
	return len(g.nodes)
}

func (g *LTS) AddEdge(e Edge) {
	g.edges[e.ID] = e
}

func (g *LTS) RemoveEdge(id int) {
	delete(g.edges, id)
}

func (g *LTS) Edge(id int) (Edge, bool) {
	e, ok := g.edges[id]
	return e, ok
}

// Edges returns all edges, ordered by ID for deterministic iteration.
func (g *LTS) Edges() []Edge {
	out := make([]Edge, 0, len(g.edges))
	for _, e := range g.edges {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (g *LTS) EdgeCount() int {
	return len(g.edges)
}

// EdgesFrom returns, in ID order, every edge whose From is id.
func (g *LTS) EdgesFrom(id int) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.From == id {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// EdgesTo returns, in ID order, every edge whose To is id.
func (g *LTS) EdgesTo(id int) []Edge {
	var out []Edge
	for _, e := range g.edges {
		if e.To == id {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// HasEdge reports whether an edge with the given (from, to, label) triple
// is already present, the test used before adding a new edge during
// abstraction and hiding so duplicates are never introduced gratuitously.
func (g *LTS) HasEdge(from, to int, label Label) bool {
	for _, e := range g.edges {
		if e.From == from && e.To == to && e.Label.Equal(label) {
			return true
		}
	}
	return false
}

func (g *LTS) Root() (int, bool) {
	return g.root, g.hasRoot
}

// SetRoot reassigns the root; the target node must already be present.
func (g *LTS) SetRoot(id int) bool {
	if !g.HasNode(id) {
		return false
	}
	g.root, g.hasRoot = id, true
	return true
}

// ClearRoot removes the root designation without removing any node.
func (g *LTS) ClearRoot() {
	g.hasRoot = false
}

// RelabelEdge is the sanctioned mutation point for changing an edge's
// label after construction, used by hide.
func (g *LTS) RelabelEdge(id int, label Label) {
	e, ok := g.edges[id]
	if !ok {
		return
	}
	e.Label = label
	g.edges[id] = e
}

// Alphabet returns the set of bare visible-action names appearing on
// edges of the LTS. τ and δ are deliberately excluded: they are not
// ordinary actions and never participate in the Σ₁∩Σ₂ synchronisation
// test. Use AllLabels for the literal set of labels appearing on edges.
func (g *LTS) Alphabet() map[string]bool {
	out := map[string]bool{}
	for _, e := range g.edges {
		if !e.Label.IsTau() && !e.Label.IsDelta() {
			out[e.Label.Bare()] = true
		}
	}
	return out
}

// AllLabels returns every distinct label appearing on an edge, including τ
// and δ.
func (g *LTS) AllLabels() []Label {
	seen := map[string]Label{}
	for _, e := range g.edges {
		seen[e.Label.String()] = e.Label
	}
	out := make([]Label, 0, len(seen))
	for _, l := range seen {
		out = append(out, l)
	}
	return out
}

// Clone returns a deep copy of the LTS that preserves node and edge IDs.
// Mutating the clone never affects the original.
func (g *LTS) Clone() *LTS {
	out := New()
	for id, n := range g.nodes {
		out.nodes[id] = n
	}
	for id, e := range g.edges {
		out.edges[id] = e
	}
	out.root, out.hasRoot = g.root, g.hasRoot
	return out
}

// CloneFreshIDs returns a deep copy of the LTS with every node and edge
// given a fresh identifier from alloc, used by the interpreter whenever a
// Name reference is resolved so that later mutation of one copy never
// aliases another.
func (g *LTS) CloneFreshIDs(alloc *IDAllocator) *LTS {
	out := New()
	idMap := make(map[int]int, len(g.nodes))

	for _, n := range g.Nodes() {
		newID := alloc.NextNodeID()
		idMap[n.ID] = newID
		n.ID = newID
		out.nodes[newID] = n
	}

	for _, e := range g.Edges() {
		e.ID = alloc.NextEdgeID()
		e.From = idMap[e.From]
		e.To = idMap[e.To]
		out.edges[e.ID] = e
	}

	if g.hasRoot {
		out.root, out.hasRoot = idMap[g.root], true
	}

	return out
}
