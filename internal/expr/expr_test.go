package expr

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dekarrin/ltsc/internal/compileerr"
)

func eval(t *testing.T, src string, env Env) int32 {
	t.Helper()
	e, err := Parse(src)
	require.NoError(t, err)
	v, err := e.Eval(env)
	require.NoError(t, err)
	return v
}

func TestPrecedenceMulBeforeAdd(t *testing.T) {
	assert.Equal(t, int32(14), eval(t, "2 + 3 * 4", nil))
}

func TestParenthesesOverridePrecedence(t *testing.T) {
	assert.Equal(t, int32(20), eval(t, "(2 + 3) * 4", nil))
}

func TestVariableLookup(t *testing.T) {
	env := MapEnv{"x": 7}
	assert.Equal(t, int32(8), eval(t, "x + 1", env))
}

func TestUnknownVariableErrors(t *testing.T) {
	e, err := Parse("y")
	require.NoError(t, err)

	_, err = e.Eval(MapEnv{})
	var expErr *compileerr.ExpressionError
	require.ErrorAs(t, err, &expErr)
}

func TestDivisionByZero(t *testing.T) {
	e, err := Parse("1 / 0")
	require.NoError(t, err)

	_, err = e.Eval(nil)
	var expErr *compileerr.ExpressionError
	require.ErrorAs(t, err, &expErr)
}

func TestModuloByZero(t *testing.T) {
	e, err := Parse("1 % 0")
	require.NoError(t, err)

	_, err = e.Eval(nil)
	require.Error(t, err)
}

func TestLogicalAndOrCoercion(t *testing.T) {
	assert.Equal(t, int32(1), eval(t, "5 && 2", nil))
	assert.Equal(t, int32(0), eval(t, "0 || 0", nil))
	assert.Equal(t, int32(1), eval(t, "0 || 3", nil))
}

func TestShiftAndBitwise(t *testing.T) {
	assert.Equal(t, int32(8), eval(t, "1 << 3", nil))
	assert.Equal(t, int32(1), eval(t, "8 >> 3", nil))
	assert.Equal(t, int32(6), eval(t, "2 ^ 4", nil))
	assert.Equal(t, int32(2), eval(t, "3 & 2", nil))
	assert.Equal(t, int32(3), eval(t, "1 | 2", nil))
}

func TestRelationalAndEquality(t *testing.T) {
	assert.Equal(t, int32(1), eval(t, "3 < 5", nil))
	assert.Equal(t, int32(0), eval(t, "5 == 3", nil))
	assert.Equal(t, int32(1), eval(t, "5 != 3", nil))
}
