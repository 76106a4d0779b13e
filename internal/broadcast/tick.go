package broadcast

import (
	"context"
	"time"
)

// tickOutcome tells the tick loop what to do after one poll.
type tickOutcome int

const (
	// tickContinue keeps the stream polling.
	tickContinue tickOutcome = iota
	// tickStop ends the stream.
	tickStop
)

// runTicks drives a stream: one immediate evaluation, then one per interval,
// until the tick asks to stop, the context is cancelled, or maxLifetime
// elapses. Returns true when the lifetime cap was the reason for stopping.
func runTicks(
	ctx context.Context,
	interval time.Duration,
	maxLifetime time.Duration,
	tick func(ctx context.Context) tickOutcome,
) (expired bool) {
	deadline := time.NewTimer(maxLifetime)
	defer deadline.Stop()

	if tick(ctx) == tickStop {
		return false
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return false
		case <-deadline.C:
			return true
		case <-ticker.C:
			if tick(ctx) == tickStop {
				return false
			}
		}
	}
}
