package ltsops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ltsc/internal/lts"
)

// 0 --tau--> 1 --a--> 2(STOP)
func tauThenAction(action string) *lts.LTS {
	g := lts.New()
	g.AddNode(lts.Node{ID: 0})
	g.AddNode(lts.Node{ID: 1})
	g.AddNode(lts.Node{ID: 2, Metadata: lts.Metadata{Terminal: lts.TerminalStop}})
	g.AddEdge(lts.Edge{ID: 0, From: 0, To: 1, Label: lts.TauLabel()})
	g.AddEdge(lts.Edge{ID: 1, From: 1, To: 2, Label: lts.VisibleLabel(action, false, false)})
	g.SetRoot(0)
	return g
}

func TestFairAbstractionBypassesTau(t *testing.T) {
	alloc := lts.NewIDAllocator()
	g := tauThenAction("a")

	out := FairAbstraction(g, alloc)

	root, ok := out.Root()
	require.True(t, ok)

	for _, e := range out.EdgesFrom(root) {
		assert.False(t, e.Label.IsTau())
	}

	found := false
	for _, e := range out.EdgesFrom(root) {
		if e.Label.Bare() == "a" {
			found = true
		}
	}
	assert.True(t, found, "visible action beyond the tau edge must be reachable directly from root")
}

// 0 --tau--> 0 (a tau self loop, the simplest tau-cycle)
func tauCycle() *lts.LTS {
	g := lts.New()
	g.AddNode(lts.Node{ID: 0})
	g.AddEdge(lts.Edge{ID: 0, From: 0, To: 0, Label: lts.TauLabel()})
	g.SetRoot(0)
	return g
}

func TestFairAbstractionDropsTauCycle(t *testing.T) {
	alloc := lts.NewIDAllocator()
	out := FairAbstraction(tauCycle(), alloc)

	root, _ := out.Root()
	for _, e := range out.Edges() {
		assert.False(t, e.Label.IsTau())
		_ = root
	}
}

// 0 --tau--> 1, where 1 has no outgoing edges and no prior terminal tag.
func tauIntoDeadEnd() *lts.LTS {
	g := lts.New()
	g.AddNode(lts.Node{ID: 0})
	g.AddNode(lts.Node{ID: 1})
	g.AddEdge(lts.Edge{ID: 0, From: 0, To: 1, Label: lts.TauLabel()})
	g.SetRoot(0)
	return g
}

func TestFairAbstractionRetagsAndTrimsDeadEnd(t *testing.T) {
	alloc := lts.NewIDAllocator()
	out := FairAbstraction(tauIntoDeadEnd(), alloc)

	assert.Len(t, out.Nodes(), 1, "the dead-end node carries no new information once its only inbound tau is gone")

	root, ok := out.Root()
	require.True(t, ok)

	n, ok := out.Node(root)
	require.True(t, ok)
	assert.Equal(t, lts.TerminalStop, n.Metadata.Terminal)
	assert.Empty(t, out.EdgesFrom(root))
}

func TestUnfairAbstractionSynthesizesErrorSink(t *testing.T) {
	alloc := lts.NewIDAllocator()
	out := UnfairAbstraction(tauCycle(), alloc)

	root, ok := out.Root()
	require.True(t, ok)

	var sawDelta bool
	for _, e := range out.EdgesFrom(root) {
		if e.Label.IsDelta() {
			sawDelta = true
			sink, ok := out.Node(e.To)
			require.True(t, ok)
			assert.Equal(t, lts.TerminalError, sink.Metadata.Terminal)
		}
	}
	assert.True(t, sawDelta, "an unfair tau-cycle must be witnessed by a delta edge to an error sink")
}
