package zbuf

import (
	"errors"
	"testing"

	"github.com/brimdata/zexpr"
	"github.com/brimdata/zexpr/zio"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readings(n int) []*zexpr.Reading {
	var out []*zexpr.Reading
	for i := 0; i < n; i++ {
		out = append(out, zexpr.NewReading("a", zexpr.Datapoint{Name: "x", Value: zexpr.NewInt(int64(i))}))
	}
	return out
}

func TestReadBatch(t *testing.T) {
	r := zio.NewArray(readings(5))
	b, err := ReadBatch(r, 2)
	require.NoError(t, err)
	assert.Len(t, b, 2)
	b, err = ReadBatch(r, 2)
	require.NoError(t, err)
	assert.Len(t, b, 2)
	b, err = ReadBatch(r, 2)
	require.NoError(t, err)
	assert.Len(t, b, 1)
	b, err = ReadBatch(r, 2)
	require.NoError(t, err)
	assert.Nil(t, b)
}

type failReader struct {
	zio.Reader
	after int
}

func (f *failReader) Read() (*zexpr.Reading, error) {
	if f.after == 0 {
		return nil, errors.New("boom")
	}
	f.after--
	return f.Reader.Read()
}

func TestReadBatchError(t *testing.T) {
	r := &failReader{Reader: zio.NewArray(readings(5)), after: 3}
	b, err := ReadBatch(r, 10)
	assert.EqualError(t, err, "boom")
	assert.Len(t, b, 3)
}

func TestProgress(t *testing.T) {
	var p Progress
	p.Add(Progress{Batches: 1, Readings: 3, Results: 2})
	p.Add(Progress{Batches: 1, Readings: 1})
	assert.Equal(t, Progress{Batches: 2, Readings: 4, Results: 2}, p.Copy())
}
