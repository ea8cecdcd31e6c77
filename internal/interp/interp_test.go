package interp

import (
	"testing"

	"github.com/dekarrin/ltsc/internal/lts"
	"github.com/dekarrin/ltsc/internal/parser"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func run(t *testing.T, src string) Result {
	t.Helper()
	file, err := parser.Parse(src)
	require.NoError(t, err)

	ip := New(lts.NewIDAllocator())
	res, err := ip.Run(file)
	require.NoError(t, err)
	return res
}

func TestRunSequenceProducesTwoNodeGraph(t *testing.T) {
	res := run(t, `P = a -> STOP.`)

	g := res.Automata["P"]
	require.NotNil(t, g)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 1, g.EdgeCount())
}

func TestRunChoiceFusesRoots(t *testing.T) {
	res := run(t, `P = a -> STOP | b -> STOP.`)

	g := res.Automata["P"]
	root, ok := g.Root()
	require.True(t, ok)
	assert.Len(t, g.EdgesFrom(root), 2)
}

func TestRunNameReferenceClonesFreshIDs(t *testing.T) {
	res := run(t, `Q = a -> STOP. P = b -> Q || b -> Q.`)

	assert.Contains(t, res.Automata, "Q")
	assert.Contains(t, res.Automata, "P")
}

func TestRunSelfReferenceIsRejected(t *testing.T) {
	file, err := parser.Parse(`P = a -> P.`)
	require.NoError(t, err)

	ip := New(lts.NewIDAllocator())
	_, err = ip.Run(file)
	assert.Error(t, err)
}

func TestRunDuplicateDefinitionIsRejected(t *testing.T) {
	file, err := parser.Parse(`P = STOP, P = STOP.`)
	require.NoError(t, err)

	ip := New(lts.NewIDAllocator())
	_, err = ip.Run(file)
	assert.Error(t, err)
}

func TestRunHideRelabelsToTau(t *testing.T) {
	res := run(t, `P = a -> STOP \ {a}.`)

	g := res.Automata["P"]
	root, ok := g.Root()
	require.True(t, ok)
	edges := g.EdgesFrom(root)
	require.Len(t, edges, 1)
	assert.True(t, edges[0].Label.IsTau())
}
