package exa

import (
	"context"
	"time"
)

// PollConfig parameterizes one [Poll] loop. The three wait helpers in the
// websets and research subpackages differ only in this configuration; the
// loop itself is implemented once.
type PollConfig[T any] struct {
	// Fetch retrieves the current state of the watched resource.
	Fetch func(ctx context.Context) (T, error)

	// Done reports whether the observed state is terminal. Whether a
	// "failed" terminal state resolves or rejects is a use-site decision:
	// a Done that returns true for failed records resolves with them.
	Done func(T) bool

	// Interval is the sleep between status fetches.
	Interval time.Duration

	// Timeout bounds the whole session. It is evaluated only after a fetch,
	// so at least one fetch happens even when Timeout is zero.
	Timeout time.Duration

	// OnPoll, when set, observes every fetched state. Side effects only; it
	// cannot influence the loop.
	OnPoll func(T)
}

// Poll fetches the state of the resource identified by resourceID until Done
// reports a terminal state, the timeout elapses, or ctx is canceled. On
// timeout it returns a *TimeoutError carrying the resource id and elapsed
// time. Fetch errors abort the session as-is; they are not retried here.
func Poll[T any](ctx context.Context, resourceID string, cfg PollConfig[T]) (T, error) {
	var zero T
	start := time.Now()
	var timer *time.Timer

	for {
		state, err := cfg.Fetch(ctx)
		if err != nil {
			return zero, err
		}
		if cfg.OnPoll != nil {
			cfg.OnPoll(state)
		}
		if cfg.Done(state) {
			return state, nil
		}

		if elapsed := time.Since(start); elapsed >= cfg.Timeout {
			return zero, &TimeoutError{ResourceID: resourceID, Elapsed: elapsed}
		}

		if timer == nil {
			timer = time.NewTimer(cfg.Interval)
			defer timer.Stop()
		} else {
			// The previous tick was consumed below, so Reset is safe.
			timer.Reset(cfg.Interval)
		}
		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}
