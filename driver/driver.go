// Package driver moves readings from a source through a filter and into a
// sink one batch at a time.
package driver

import (
	"context"

	"github.com/brimdata/zexpr"
	"github.com/brimdata/zexpr/zbuf"
	"github.com/brimdata/zexpr/zio"
	"github.com/brimdata/zexpr/zqe"
)

const DefaultBatchSize = 100

// Processor transforms a batch of readings in place.  *filter.Filter
// implements Processor.
type Processor interface {
	Process([]*zexpr.Reading)
}

type result struct {
	batch []*zexpr.Reading
	err   error
}

// Run reads batches of up to batchSize readings from r, passes each to p,
// and writes the processed readings to w.  Reading the next batch overlaps
// processing of the current one.  Cancellation of ctx is observed between
// batches.
func Run(ctx context.Context, p Processor, r zio.Reader, w zio.Writer, batchSize int) error {
	return RunWithProgress(ctx, p, r, w, batchSize, nil)
}

// RunWithProgress is like Run but also accumulates counts into progress
// when progress is non-nil.
func RunWithProgress(ctx context.Context, p Processor, r zio.Reader, w zio.Writer, batchSize int, progress *zbuf.Progress) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if progress == nil {
		progress = &zbuf.Progress{}
	}
	ctx, cancel := context.WithCancel(ctx)
	resultCh := make(chan result)
	go func() {
		defer close(resultCh)
		for {
			batch, err := safeRead(r, batchSize)
			select {
			case resultCh <- result{batch, err}:
			case <-ctx.Done():
				return
			}
			if batch == nil || err != nil {
				return
			}
		}
	}()
	defer func() {
		cancel()
		// Drain resultCh so the reader goroutine can exit.
		for range resultCh {
		}
	}()
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case res, ok := <-resultCh:
			if !ok {
				return ctx.Err()
			}
			if len(res.batch) > 0 {
				if err := processBatch(p, w, res.batch, progress); err != nil {
					return err
				}
			}
			if res.batch == nil || res.err != nil {
				return res.err
			}
		}
	}
}

func processBatch(p Processor, w zio.Writer, batch []*zexpr.Reading, progress *zbuf.Progress) error {
	lens := make([]int, len(batch))
	for i, r := range batch {
		lens[i] = r.Len()
	}
	p.Process(batch)
	delta := zbuf.Progress{Batches: 1, Readings: int64(len(batch))}
	for i, r := range batch {
		if r.Len() > lens[i] {
			delta.Results++
		}
		if err := w.Write(r); err != nil {
			return err
		}
	}
	progress.Add(delta)
	return nil
}

func safeRead(r zio.Reader, n int) (batch []*zexpr.Reading, err error) {
	defer func() {
		if r := recover(); r != nil {
			batch, err = nil, zqe.RecoverError(r)
		}
	}()
	return zbuf.ReadBatch(r, n)
}
