package lts

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCloneIsIndependent(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 0})
	g.AddNode(Node{ID: 1, Metadata: Metadata{Terminal: TerminalStop}})
	g.AddEdge(Edge{ID: 0, From: 0, To: 1, Label: VisibleLabel("a", false, false)})
	g.SetRoot(0)

	clone := g.Clone()
	clone.RemoveNode(1)
	clone.RemoveEdge(0)

	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
	assert.Equal(t, 0, clone.NodeCount())
}

func TestCloneFreshIDsRemapsEverything(t *testing.T) {
	alloc := NewIDAllocator()
	alloc.NextNodeID()
	alloc.NextNodeID()

	g := New()
	g.AddNode(Node{ID: 0})
	g.AddNode(Node{ID: 1})
	g.AddEdge(Edge{ID: 0, From: 0, To: 1, Label: TauLabel()})
	g.SetRoot(0)

	fresh := g.CloneFreshIDs(alloc)

	root, ok := fresh.Root()
	require.True(t, ok)
	assert.NotEqual(t, 0, root)
	assert.Equal(t, 2, fresh.NodeCount())
	assert.Equal(t, 1, fresh.EdgeCount())

	for _, e := range fresh.Edges() {
		assert.True(t, fresh.HasNode(e.From))
		assert.True(t, fresh.HasNode(e.To))
	}
}

func TestTrimRemovesUnreachable(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 0})
	g.AddNode(Node{ID: 1})
	g.AddNode(Node{ID: 2}) // unreachable
	g.AddEdge(Edge{ID: 0, From: 0, To: 1, Label: VisibleLabel("a", false, false)})
	g.SetRoot(0)

	g.Trim()

	assert.Equal(t, 2, g.NodeCount())
	assert.False(t, g.HasNode(2))
}

func TestRemoveDuplicateEdgesIsIdempotent(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 0})
	g.AddNode(Node{ID: 1})
	g.AddEdge(Edge{ID: 0, From: 0, To: 1, Label: VisibleLabel("a", false, false)})
	g.AddEdge(Edge{ID: 1, From: 0, To: 1, Label: VisibleLabel("a", false, false)})
	g.SetRoot(0)

	g.RemoveDuplicateEdges()
	assert.Equal(t, 1, g.EdgeCount())

	g.RemoveDuplicateEdges()
	assert.Equal(t, 1, g.EdgeCount())
}

func TestMergeNodesPreservesRootAndMetadata(t *testing.T) {
	g := New()
	g.AddNode(Node{ID: 0, Metadata: Metadata{Start: true}})
	g.AddNode(Node{ID: 1, Metadata: Metadata{Terminal: TerminalStop}})
	g.AddEdge(Edge{ID: 0, From: 2, To: 1, Label: VisibleLabel("a", false, false)})
	g.AddNode(Node{ID: 2})
	g.SetRoot(1)

	err := g.MergeNodes([]int{0, 1})
	require.NoError(t, err)

	root, ok := g.Root()
	require.True(t, ok)
	assert.Equal(t, 0, root)

	survivor, _ := g.Node(0)
	assert.True(t, survivor.Metadata.Start)
	assert.Equal(t, TerminalStop, survivor.Metadata.Terminal)

	for _, e := range g.Edges() {
		assert.Equal(t, 0, e.To)
	}
}

func TestCombineWithSkipsCollisions(t *testing.T) {
	a := New()
	a.AddNode(Node{ID: 0, Label: "keep-mine"})

	b := New()
	b.AddNode(Node{ID: 0, Label: "not-this-one"})
	b.AddNode(Node{ID: 1, Label: "new"})

	a.CombineWith(b)

	n0, _ := a.Node(0)
	assert.Equal(t, "keep-mine", n0.Label)
	assert.True(t, a.HasNode(1))
}
