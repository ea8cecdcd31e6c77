package ltsops

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ltsc/internal/lts"
)

// a -> STOP
func chain(action string) *lts.LTS {
	g := lts.New()
	g.AddNode(lts.Node{ID: 0})
	g.AddNode(lts.Node{ID: 1, Metadata: lts.Metadata{Terminal: lts.TerminalStop}})
	g.AddEdge(lts.Edge{ID: 0, From: 0, To: 1, Label: lts.VisibleLabel(action, false, false)})
	g.SetRoot(0)
	return g
}

func TestParallelIndependentActionsInterleave(t *testing.T) {
	alloc := lts.NewIDAllocator()
	left := chain("a")
	right := chain("b")

	out := Parallel(left, right, alloc)

	root, ok := out.Root()
	require.True(t, ok)

	labels := map[string]bool{}
	for _, e := range out.EdgesFrom(root) {
		labels[e.Label.Bare()] = true
	}
	assert.True(t, labels["a"])
	assert.True(t, labels["b"])
}

// a -> STOP, but b -> c -> STOP: right side needs two steps to reach STOP.
func twoStepChain(first, second string) *lts.LTS {
	g := lts.New()
	g.AddNode(lts.Node{ID: 0})
	g.AddNode(lts.Node{ID: 1})
	g.AddNode(lts.Node{ID: 2, Metadata: lts.Metadata{Terminal: lts.TerminalStop}})
	g.AddEdge(lts.Edge{ID: 0, From: 0, To: 1, Label: lts.VisibleLabel(first, false, false)})
	g.AddEdge(lts.Edge{ID: 1, From: 1, To: 2, Label: lts.VisibleLabel(second, false, false)})
	g.SetRoot(0)
	return g
}

func TestParallelTerminalTaggedOnlyWhenBothComponentsStop(t *testing.T) {
	alloc := lts.NewIDAllocator()
	left := chain("a")
	right := twoStepChain("b", "c")

	out := Parallel(left, right, alloc)

	root, ok := out.Root()
	require.True(t, ok)

	n, ok := out.Node(root)
	require.True(t, ok)
	assert.NotEqual(t, lts.TerminalStop, n.Metadata.Terminal, "right component has not reached STOP yet")
	assert.NotEmpty(t, out.EdgesFrom(root), "a node tagged as having outgoing edges must not be STOP")
}

func TestParallelProductLabel(t *testing.T) {
	alloc := lts.NewIDAllocator()
	left := chain("a")
	right := chain("b")

	left.UpdateNode(lts.Node{ID: 0, Label: "L0"})
	right.UpdateNode(lts.Node{ID: 0, Label: "R0"})

	out := Parallel(left, right, alloc)

	root, ok := out.Root()
	require.True(t, ok)

	n, ok := out.Node(root)
	require.True(t, ok)
	assert.Equal(t, "L0.R0", n.Label)
}

func TestParallelSharedActionSynchronises(t *testing.T) {
	alloc := lts.NewIDAllocator()
	left := chain("a")
	right := chain("a")

	out := Parallel(left, right, alloc)

	root, ok := out.Root()
	require.True(t, ok)

	fromRoot := out.EdgesFrom(root)
	require.Len(t, fromRoot, 1, "shared action must synchronise into a single joint transition")
	assert.Equal(t, "a", fromRoot[0].Label.Bare())
}
