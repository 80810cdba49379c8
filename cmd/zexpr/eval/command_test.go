package eval

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate(t *testing.T) {
	v, err := Evaluate("a + b", "", []string{"a=1", "b=2.5"})
	require.NoError(t, err)
	assert.Equal(t, 3.5, v)

	v, err = Evaluate("flow rate * 2", "", []string{"flow rate=3"})
	require.NoError(t, err)
	assert.Equal(t, 6.0, v)

	v, err = Evaluate("my pump.temp - temp", "my pump", []string{"temp=4"})
	require.NoError(t, err)
	assert.Equal(t, 0.0, v)

	v, err = Evaluate("log(x)", "", []string{"x=-1"})
	require.NoError(t, err)
	assert.True(t, math.IsNaN(v))

	v, err = Evaluate("pi", "", nil)
	require.NoError(t, err)
	assert.Equal(t, math.Pi, v)
}

func TestEvaluateErrors(t *testing.T) {
	_, err := Evaluate("a", "", []string{"a"})
	assert.EqualError(t, err, `"a": assignment must have the form name=value`)
	_, err = Evaluate("a", "", []string{"a=x"})
	assert.ErrorContains(t, err, "invalid syntax")
	_, err = Evaluate("a +", "", []string{"a=1"})
	assert.Error(t, err)
	_, err = Evaluate("b", "", []string{"a=1"})
	assert.ErrorContains(t, err, `undefined symbol "b"`)
}
