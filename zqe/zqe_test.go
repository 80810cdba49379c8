package zqe

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorString(t *testing.T) {
	assert.Equal(t, "invalid operation: bad name", E(Invalid, "bad name").Error())
	assert.Equal(t, "bad name", E("bad name").Error())
	assert.Equal(t, "item does not exist", E(NotFound).Error())
	assert.Equal(t, "bad name", E(Invalid, "bad name").(*Error).Message())
	assert.Equal(t, "conflict with pending operation", E(Conflict).(*Error).Message())
	assert.Equal(t, "unknown error kind", Kind(42).String())
	assert.Contains(t, E(Invalid, 3.5).Error(), "zqe.E: unexpected float64 argument 3.5")
}

func TestKindOf(t *testing.T) {
	base := errors.New("boom")
	err := fmt.Errorf("config: %w", E(Invalid, base))
	assert.True(t, IsInvalid(err))
	assert.False(t, IsNotFound(err))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, Other, KindOf(base))
}

func TestRecoverError(t *testing.T) {
	base := errors.New("boom")
	err := RecoverError(base)
	require.ErrorIs(t, err, base)
	assert.Equal(t, "panic: boom", err.Error())
	assert.Equal(t, "panic: 12", RecoverError(12).Error())
}
