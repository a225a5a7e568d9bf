package gate_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"

	"todo/internal/gate"
	"todo/internal/session"
)

// settleAfter returns a settle func that completes after d of simulated time.
func settleAfter(clock clockwork.Clock, d time.Duration, result session.Status) func(context.Context) session.Status {
	return func(context.Context) session.Status {
		<-clock.After(d)
		return result
	}
}

func expectClosed(t *testing.T, ch <-chan session.Status) {
	t.Helper()
	select {
	case v, ok := <-ch:
		if ok {
			t.Fatalf("gate opened early with %v", v)
		}
		t.Fatal("gate closed unexpectedly")
	case <-time.After(50 * time.Millisecond):
	}
}

func expectOpen(t *testing.T, ch <-chan session.Status) session.Status {
	t.Helper()
	select {
	case v, ok := <-ch:
		if !ok {
			t.Fatal("gate closed without a value")
		}
		return v
	case <-time.After(2 * time.Second):
		t.Fatal("gate did not open")
	}
	return session.Unknown
}

func TestGate_FastValidationWaitsForMinimum(t *testing.T) {
	fc := clockwork.NewFakeClock()
	start := fc.Now()
	g := gate.New[session.Status](fc, gate.MinimumDuration)

	ch := g.Open(context.Background(), settleAfter(fc, 500*time.Millisecond, session.Authenticated))
	fc.BlockUntil(2) // timer + validation

	fc.Advance(500 * time.Millisecond)
	expectClosed(t, ch)

	fc.Advance(2000 * time.Millisecond)
	expectClosed(t, ch)

	fc.Advance(500 * time.Millisecond)
	got := expectOpen(t, ch)

	if got != session.Authenticated {
		t.Errorf("expected authenticated, got %v", got)
	}
	if elapsed := fc.Since(start); elapsed != 3000*time.Millisecond {
		t.Errorf("expected gate to open at 3000ms, opened at %v", elapsed)
	}
}

func TestGate_SlowValidationHoldsGate(t *testing.T) {
	fc := clockwork.NewFakeClock()
	start := fc.Now()
	g := gate.New[session.Status](fc, gate.MinimumDuration)

	ch := g.Open(context.Background(), settleAfter(fc, 4000*time.Millisecond, session.Unauthenticated))
	fc.BlockUntil(2)

	fc.Advance(3000 * time.Millisecond)
	expectClosed(t, ch)

	fc.Advance(999 * time.Millisecond)
	expectClosed(t, ch)

	fc.Advance(1 * time.Millisecond)
	got := expectOpen(t, ch)

	if got != session.Unauthenticated {
		t.Errorf("expected unauthenticated, got %v", got)
	}
	if elapsed := fc.Since(start); elapsed != 4000*time.Millisecond {
		t.Errorf("expected gate to open at 4000ms, opened at %v", elapsed)
	}
}

func TestGate_OpensExactlyOnce(t *testing.T) {
	fc := clockwork.NewFakeClock()
	g := gate.New[session.Status](fc, gate.MinimumDuration)

	var calls atomic.Int32
	ch := g.Open(context.Background(), func(context.Context) session.Status {
		calls.Add(1)
		return session.Authenticated
	})
	fc.BlockUntil(1)
	fc.Advance(gate.MinimumDuration)

	expectOpen(t, ch)

	select {
	case v, ok := <-ch:
		if ok {
			t.Errorf("gate delivered a second value: %v", v)
		}
	case <-time.After(time.Second):
		t.Error("gate channel was not closed after opening")
	}
	if calls.Load() != 1 {
		t.Errorf("expected settle to run once, ran %d times", calls.Load())
	}
}

func TestGate_ContextCancelled(t *testing.T) {
	fc := clockwork.NewFakeClock()
	g := gate.New[session.Status](fc, gate.MinimumDuration)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := g.Wait(ctx, func(context.Context) session.Status { return session.Authenticated })
	if err == nil {
		t.Error("expected error from cancelled wait")
	}
}

func TestGate_RealClockZeroMinimum(t *testing.T) {
	g := gate.New[string](nil, 0)

	got, err := g.Wait(context.Background(), func(context.Context) string { return "ready" })
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ready" {
		t.Errorf("expected ready, got %q", got)
	}
}
