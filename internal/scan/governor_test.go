package scan

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestGovernorBlocksWhenSaturated(t *testing.T) {
	g := NewGovernor(2)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if err := g.Acquire(ctx); err != nil {
			t.Fatalf("acquire %d: %v", i, err)
		}
	}
	if g.InFlight() != 2 || g.Peak() != 2 {
		t.Fatalf("expected 2 in flight, got %d (peak %d)", g.InFlight(), g.Peak())
	}

	short, cancel := context.WithTimeout(ctx, 20*time.Millisecond)
	defer cancel()
	if err := g.Acquire(short); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected saturated governor to block until deadline, got %v", err)
	}

	g.Release()
	if err := g.Acquire(ctx); err != nil {
		t.Fatalf("acquire after release: %v", err)
	}
	g.Release()
	g.Release()

	if g.InFlight() != 0 {
		t.Fatalf("expected no slots held, got %d", g.InFlight())
	}
	if g.Peak() != 2 {
		t.Fatalf("peak must not exceed limit, got %d", g.Peak())
	}
}

func TestGovernorWakesWaiter(t *testing.T) {
	g := NewGovernor(1)
	if err := g.Acquire(context.Background()); err != nil {
		t.Fatalf("acquire: %v", err)
	}

	acquired := make(chan struct{})
	go func() {
		if err := g.Acquire(context.Background()); err == nil {
			close(acquired)
		}
	}()

	select {
	case <-acquired:
		t.Fatal("second acquire must wait for a release")
	case <-time.After(20 * time.Millisecond):
	}

	g.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("waiter was not woken by release")
	}
	g.Release()
}

func TestGovernorCancelledContext(t *testing.T) {
	g := NewGovernor(4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := g.Acquire(ctx); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if g.InFlight() != 0 {
		t.Fatal("failed acquire must not hold a slot")
	}
}

func TestGovernorMinimumLimit(t *testing.T) {
	if got := NewGovernor(0).Limit(); got != 1 {
		t.Fatalf("expected limit clamped to 1, got %d", got)
	}
}
