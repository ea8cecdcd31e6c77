package ltsc

import (
	"testing"

	"github.com/dekarrin/ltsc/internal/lts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompileReturnsNamedAutomata(t *testing.T) {
	res, err := Compile(`P = a -> STOP.`, true, false)
	require.NoError(t, err)

	require.Len(t, res.Automata, 1)
	assert.Equal(t, "P", res.Automata[0].Name)
	assert.NotEmpty(t, res.Operations)
}

func TestCompileSyntaxError(t *testing.T) {
	_, err := Compile(`P = a ->.`, true, false)
	require.Error(t, err)

	_, ok := AsSyntaxError(err)
	assert.True(t, ok)
}

func TestCompileInterpreterException(t *testing.T) {
	_, err := Compile(`P = a -> Q.`, true, false)
	require.Error(t, err)

	_, ok := AsInterpreterException(err)
	assert.True(t, ok)
}

func TestAbstractAppliesFairVariant(t *testing.T) {
	res, err := Compile(`P = a -> Q, Q = b -> P \ {a, b}.`, true, true)
	require.NoError(t, err)

	alloc := lts.NewIDAllocator()
	reduced := Abstract(res.Automata[0].LTS, alloc, true)
	for _, e := range reduced.Edges() {
		assert.False(t, e.Label.IsTau())
	}
}
