// Package zbuf groups readings into the batches handed to the filter.
package zbuf

import (
	"sync/atomic"

	"github.com/brimdata/zexpr"
	"github.com/brimdata/zexpr/zio"
)

// ReadBatch reads up to n readings from zr.  At end of stream it returns
// a nil batch and nil error.  If an error is encountered, it returns the
// readings read before the error along with the error.
func ReadBatch(zr zio.Reader, n int) ([]*zexpr.Reading, error) {
	if n <= 0 {
		n = 1
	}
	batch := make([]*zexpr.Reading, 0, n)
	for len(batch) < n {
		r, err := zr.Read()
		if err != nil {
			return batch, err
		}
		if r == nil {
			break
		}
		batch = append(batch, r)
	}
	if len(batch) == 0 {
		return nil, nil
	}
	return batch, nil
}

// Progress counts the batches and readings that flowed through a pipeline
// and the readings that received a result.
type Progress struct {
	Batches  int64 `json:"batches"`
	Readings int64 `json:"readings"`
	Results  int64 `json:"results"`
}

// Copy returns a snapshot of p that is safe to read while p is updated.
func (p *Progress) Copy() Progress {
	return Progress{
		Batches:  atomic.LoadInt64(&p.Batches),
		Readings: atomic.LoadInt64(&p.Readings),
		Results:  atomic.LoadInt64(&p.Results),
	}
}

func (p *Progress) Add(delta Progress) {
	atomic.AddInt64(&p.Batches, delta.Batches)
	atomic.AddInt64(&p.Readings, delta.Readings)
	atomic.AddInt64(&p.Results, delta.Results)
}
