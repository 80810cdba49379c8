package binding

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableDeclare(t *testing.T) {
	table := NewTable(4)
	a, err := table.Declare("a")
	require.NoError(t, err)
	assert.True(t, math.IsNaN(a.Value()))
	gen := table.Generation()

	again, err := table.Declare("a")
	require.NoError(t, err)
	assert.Same(t, a, again)
	assert.Equal(t, gen, table.Generation())

	_, err = table.Declare("test.a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "test.a"}, table.Names())
	assert.Equal(t, 2, table.Room())
	assert.NotEqual(t, gen, table.Generation())
}

func TestTableCapacity(t *testing.T) {
	table := NewTable(2)
	_, err := table.Declare("a")
	require.NoError(t, err)
	_, err = table.Declare("b")
	require.NoError(t, err)
	_, err = table.Declare("c")
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, 0, table.Room())
	// Existing names can still be declared when full.
	_, err = table.Declare("a")
	assert.NoError(t, err)
}

func TestTableSlotsDoNotMove(t *testing.T) {
	table := NewTable(0)
	assert.Equal(t, DefaultMaxVars, table.Max())
	first, err := table.Declare("first")
	require.NoError(t, err)
	ptr, ok := table.Resolve("first")
	require.True(t, ok)
	for i := 0; i < 100; i++ {
		_, err := table.Declare(Sanitize(string(rune('a'+i%26))) + string(rune('A'+i/26)))
		require.NoError(t, err)
	}
	first.Set(42)
	assert.Equal(t, 42.0, *ptr)
	again, ok := table.Resolve("first")
	require.True(t, ok)
	assert.Same(t, ptr, again)
}

func TestTableUndefineReset(t *testing.T) {
	table := NewTable(8)
	a, _ := table.Declare("a")
	a.Set(1)
	table.Undefine()
	assert.True(t, math.IsNaN(a.Value()))

	gen := table.Generation()
	table.Reset()
	assert.Equal(t, 0, table.Len())
	_, ok := table.Lookup("a")
	assert.False(t, ok)
	assert.NotEqual(t, gen, table.Generation())
}
