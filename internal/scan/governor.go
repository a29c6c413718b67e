package scan

import (
	"context"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// Governor caps the number of probes in flight. Callers must pair every
// successful Acquire with exactly one Release.
type Governor struct {
	sem   *semaphore.Weighted
	limit int

	inFlight atomic.Int64
	peak     atomic.Int64
}

func NewGovernor(limit int) *Governor {
	if limit < 1 {
		limit = 1
	}
	return &Governor{
		sem:   semaphore.NewWeighted(int64(limit)),
		limit: limit,
	}
}

// Acquire blocks until a slot frees or ctx is done.
func (g *Governor) Acquire(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := g.sem.Acquire(ctx, 1); err != nil {
		return err
	}

	n := g.inFlight.Add(1)
	for {
		p := g.peak.Load()
		if n <= p || g.peak.CompareAndSwap(p, n) {
			break
		}
	}
	return nil
}

func (g *Governor) Release() {
	g.inFlight.Add(-1)
	g.sem.Release(1)
}

func (g *Governor) Limit() int {
	return g.limit
}

func (g *Governor) InFlight() int {
	return int(g.inFlight.Load())
}

// Peak is the highest number of slots held at once since creation.
func (g *Governor) Peak() int {
	return int(g.peak.Load())
}
