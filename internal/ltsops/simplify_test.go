package ltsops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ltsc/internal/lts"
)

// Two bisimilar branches of a choice: 0 --a--> 1(STOP), 0 --a--> 2(STOP).
// Nodes 1 and 2 are indistinguishable and should collapse into one.
func redundantChoice() *lts.LTS {
	g := lts.New()
	g.AddNode(lts.Node{ID: 0})
	g.AddNode(lts.Node{ID: 1, Metadata: lts.Metadata{Terminal: lts.TerminalStop}})
	g.AddNode(lts.Node{ID: 2, Metadata: lts.Metadata{Terminal: lts.TerminalStop}})
	g.AddEdge(lts.Edge{ID: 0, From: 0, To: 1, Label: lts.VisibleLabel("a", false, false)})
	g.AddEdge(lts.Edge{ID: 1, From: 0, To: 2, Label: lts.VisibleLabel("a", false, false)})
	g.SetRoot(0)
	return g
}

func TestSimplifyCollapsesBisimilarNodes(t *testing.T) {
	alloc := lts.NewIDAllocator()
	alloc.NextNodeID()
	alloc.NextNodeID()
	alloc.NextNodeID()

	out := Simplify(redundantChoice(), alloc)

	assert.Equal(t, 2, out.NodeCount())
	assert.Equal(t, 1, out.EdgeCount())
}

func TestSimplifyDistinguishesDifferentTerminals(t *testing.T) {
	alloc := lts.NewIDAllocator()
	g := lts.New()
	g.AddNode(lts.Node{ID: 0})
	g.AddNode(lts.Node{ID: 1, Metadata: lts.Metadata{Terminal: lts.TerminalStop}})
	g.AddNode(lts.Node{ID: 2, Metadata: lts.Metadata{Terminal: lts.TerminalError}})
	g.AddEdge(lts.Edge{ID: 0, From: 0, To: 1, Label: lts.VisibleLabel("a", false, false)})
	g.AddEdge(lts.Edge{ID: 1, From: 0, To: 2, Label: lts.VisibleLabel("a", false, false)})
	g.SetRoot(0)

	out := Simplify(g, alloc)

	assert.Equal(t, 3, out.NodeCount())
	assert.Equal(t, 2, out.EdgeCount())
}

func TestEquivalentDetectsBisimilarGraphs(t *testing.T) {
	g1 := chain("a")
	g2 := chain("a")
	assert.True(t, Equivalent(g1, g2))
}

func TestEquivalentRejectsDifferentAlphabets(t *testing.T) {
	g1 := chain("a")
	g2 := chain("b")
	assert.False(t, Equivalent(g1, g2))
}

func TestSimplifyIsIdempotent(t *testing.T) {
	alloc := lts.NewIDAllocator()
	once := Simplify(redundantChoice(), alloc)
	twice := Simplify(once, alloc)
	require.Equal(t, once.NodeCount(), twice.NodeCount())
	require.Equal(t, once.EdgeCount(), twice.EdgeCount())
}
