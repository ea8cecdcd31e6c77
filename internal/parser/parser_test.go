package parser

import (
	"testing"

	"github.com/dekarrin/ltsc/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseSimpleSequence(t *testing.T) {
	file, err := Parse(`P = a -> STOP.`)
	require.NoError(t, err)

	require.Len(t, file.Models, 1)
	require.Len(t, file.Models[0].Definitions, 1)

	def := file.Models[0].Definitions[0]
	assert.Equal(t, "P", def.Name)
	assert.Equal(t, "a -> STOP", ast.String(def.Body))
}

func TestParseChoiceIsRightAssociative(t *testing.T) {
	file, err := Parse(`P = a -> STOP | b -> STOP | c -> STOP.`)
	require.NoError(t, err)

	body := file.Models[0].Definitions[0].Body
	assert.Equal(t, "(a -> STOP | (b -> STOP | c -> STOP))", ast.String(body))
}

func TestParseParallelWithName(t *testing.T) {
	file, err := Parse(`Q = STOP. P = a -> STOP || Q.`)
	require.NoError(t, err)

	require.Len(t, file.Models, 2)
	body := file.Models[1].Definitions[0].Body
	assert.Equal(t, "(a -> STOP || Q)", ast.String(body))
}

func TestParseMultipleDefinitionsAndHideSet(t *testing.T) {
	file, err := Parse(`P = a -> STOP, Q = b -> P \ {a}.`)
	require.NoError(t, err)

	m := file.Models[0]
	require.Len(t, m.Definitions, 2)
	assert.True(t, m.HasHide)
	assert.Equal(t, []string{"a"}, m.Hide)
}

func TestParseBroadcastAndListenActions(t *testing.T) {
	file, err := Parse(`P = !a -> ?b -> STOP.`)
	require.NoError(t, err)

	seq, ok := file.Models[0].Definitions[0].Body.(*ast.Sequence)
	require.True(t, ok)
	assert.True(t, seq.Action.Broadcast)

	cont, ok := seq.Continuation.(*ast.Sequence)
	require.True(t, ok)
	assert.True(t, cont.Action.Listen)
}

func TestParseErrorOnUnexpectedToken(t *testing.T) {
	_, err := Parse(`P = a -> .`)
	assert.Error(t, err)
}

func TestParseParenthesizedProcess(t *testing.T) {
	file, err := Parse(`P = (a -> STOP).`)
	require.NoError(t, err)

	body := file.Models[0].Definitions[0].Body
	assert.Equal(t, "a -> STOP", ast.String(body))
}
