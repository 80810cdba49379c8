package zexpr_test

import (
	"math"
	"testing"

	"github.com/brimdata/zexpr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValueAsFloat(t *testing.T) {
	f, ok := zexpr.NewInt(1000).AsFloat()
	require.True(t, ok)
	assert.Equal(t, 1000.0, f)
	f, ok = zexpr.NewFloat(2.5).AsFloat()
	require.True(t, ok)
	assert.Equal(t, 2.5, f)
	for _, v := range []zexpr.Value{zexpr.NewString("1"), zexpr.NewBool(true), zexpr.Null, zexpr.NewJSON([]byte("[1]"))} {
		assert.False(t, v.IsNumeric(), v.String())
		f, ok := v.AsFloat()
		assert.False(t, ok)
		assert.True(t, math.IsNaN(f))
	}
}

func TestFormatFloat(t *testing.T) {
	assert.Equal(t, "1050.0", zexpr.FormatFloat(1050))
	assert.Equal(t, "0.25", zexpr.FormatFloat(0.25))
	assert.Equal(t, "1e+21", zexpr.FormatFloat(1e21))
	assert.Equal(t, "NaN", zexpr.FormatFloat(math.NaN()))
	assert.Equal(t, "-Inf", zexpr.FormatFloat(math.Inf(-1)))
}

func TestReadingAppendCopy(t *testing.T) {
	r := zexpr.NewReading("test", zexpr.Datapoint{Name: "a", Value: zexpr.NewInt(1)})
	c := r.Copy()
	r.Append("b", zexpr.NewFloat(2))
	assert.Equal(t, 2, r.Len())
	assert.Equal(t, 1, c.Len())
	v, ok := r.Lookup("b")
	require.True(t, ok)
	assert.Equal(t, zexpr.KindFloat, v.Kind())
	_, ok = c.Lookup("b")
	assert.False(t, ok)
}
