// Package gate composes a minimum display duration with an asynchronous
// readiness signal into a single one-shot "ready" transition.
package gate

import (
	"context"
	"time"

	"github.com/jonboulle/clockwork"
)

// MinimumDuration is how long the startup screen stays up at the least.
const MinimumDuration = 3000 * time.Millisecond

// Gate opens once both the minimum duration has elapsed and the settle
// function has returned. It opens exactly once, carrying the settled value.
type Gate[T any] struct {
	clock   clockwork.Clock
	minimum time.Duration
}

// New creates a gate. A nil clock uses the real clock.
func New[T any](clock clockwork.Clock, minimum time.Duration) *Gate[T] {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Gate[T]{clock: clock, minimum: minimum}
}

// Open starts the timer and settle concurrently and returns a channel that
// receives the settled value once, no earlier than max(minimum, settle latency),
// and is then closed. If ctx ends first the channel is closed without a value;
// settle itself keeps running to completion.
func (g *Gate[T]) Open(ctx context.Context, settle func(context.Context) T) <-chan T {
	elapsed := g.clock.After(g.minimum)
	settled := make(chan T, 1)
	out := make(chan T, 1)

	go func() {
		settled <- settle(ctx)
	}()

	go func(elapsed <-chan time.Time, settled <-chan T) {
		defer close(out)

		var (
			result     T
			haveResult bool
			timerDone  bool
		)
		for !haveResult || !timerDone {
			select {
			case result = <-settled:
				haveResult = true
				settled = nil
			case <-elapsed:
				timerDone = true
				elapsed = nil
			case <-ctx.Done():
				return
			}
		}
		out <- result
	}(elapsed, settled)

	return out
}

// Wait is Open followed by a blocking receive.
func (g *Gate[T]) Wait(ctx context.Context, settle func(context.Context) T) (T, error) {
	v, ok := <-g.Open(ctx, settle)
	if !ok {
		var zero T
		return zero, ctx.Err()
	}
	return v, nil
}
