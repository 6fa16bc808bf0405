// Package poll provides a fixed-interval polling loop with an attempt
// cap and context cancellation. A loop is owned by exactly one caller;
// once Run returns, no further attempts are made, so a cancelled or
// exhausted loop can never apply a late result.
package poll

import (
	"context"
	"errors"
	"time"
)

// ErrAttemptsExhausted is returned when the attempt cap is reached
// without the callback reporting completion.
var ErrAttemptsExhausted = errors.New("poll attempts exhausted")

// Func is invoked once per attempt. Returning done=true stops the
// loop. A non-nil error does not stop the loop; transient failures are
// retried on the next tick and the last error is reported only if the
// loop exhausts its attempts.
type Func func(ctx context.Context, attempt int) (done bool, err error)

// Poller runs a Func at a fixed interval.
type Poller struct {
	Interval    time.Duration
	MaxAttempts int
}

// Run executes fn immediately, then once per interval, until fn
// reports done, MaxAttempts is reached, or ctx is cancelled.
//
// It returns the number of attempts made and nil on completion,
// ErrAttemptsExhausted (wrapping the last attempt error, if any) on
// exhaustion, or ctx.Err() on cancellation.
func (p Poller) Run(ctx context.Context, fn Func) (int, error) {
	interval := p.Interval
	if interval <= 0 {
		interval = time.Second
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts <= 0 {
		maxAttempts = 1
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	var lastErr error
	for attempt := 1; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return attempt - 1, err
		}

		done, err := fn(ctx, attempt)
		if done {
			return attempt, nil
		}
		if err != nil {
			lastErr = err
		}

		if attempt >= maxAttempts {
			if lastErr != nil {
				return attempt, errors.Join(ErrAttemptsExhausted, lastErr)
			}
			return attempt, ErrAttemptsExhausted
		}

		select {
		case <-ctx.Done():
			return attempt, ctx.Err()
		case <-ticker.C:
		}
	}
}
