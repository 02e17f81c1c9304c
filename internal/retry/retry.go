// SPDX-License-Identifier: Apache-2.0

// Package retry implements the exponential-backoff executor that wraps
// every remote provider call.
package retry

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/modelkeep/modelkeep/internal/providers"
)

// Options controls one retry run. The zero value is not usable; start from
// [DefaultOptions].
type Options struct {
	// MaxRetries is the number of retries after the first attempt, so the
	// operation runs at most MaxRetries+1 times. Always finite; zero
	// means a single attempt with no retry.
	MaxRetries int

	// InitialDelay is the backoff before the first retry.
	InitialDelay time.Duration

	// MaxDelay caps the computed backoff (jitter is added after the cap).
	MaxDelay time.Duration

	// Multiplier grows the delay per attempt: delay_n = InitialDelay ·
	// Multiplier^n.
	Multiplier float64

	// Predicate decides whether the observed error is worth retrying.
	// When nil, [providers.IsRetryable] is used.
	Predicate func(error) bool
}

// DefaultOptions returns the retry configuration used for provider calls:
// 3 retries, 1s initial delay doubling up to 30s, retryability decided by
// the error taxonomy.
func DefaultOptions() Options {
	return Options{
		MaxRetries:   3,
		InitialDelay: time.Second,
		MaxDelay:     30 * time.Second,
		Multiplier:   2,
		Predicate:    providers.IsRetryable,
	}
}

// Do runs op until it succeeds, the retry budget is exhausted, the
// predicate rejects the error, or ctx is canceled. The error returned
// after exhaustion is the last one observed, not the first.
//
// Cancellation is checked before every attempt and for the whole duration
// of every backoff wait, so an aborted caller never sits out an extra
// delay.
func Do[T any](ctx context.Context, op func(ctx context.Context) (T, error), opts Options) (T, error) {
	var zero T

	predicate := opts.Predicate
	if predicate == nil {
		predicate = providers.IsRetryable
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			if lastErr != nil {
				return zero, lastErr
			}
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt >= opts.MaxRetries || !predicate(err) {
			return zero, lastErr
		}

		if err := wait(ctx, backoffDelay(opts, attempt)); err != nil {
			return zero, lastErr
		}
	}
}

// backoffDelay computes min(initial·multiplier^attempt, max) plus random
// jitter of up to 10% of that value. Jitter desynchronizes callers that
// fail at the same moment.
func backoffDelay(opts Options, attempt int) time.Duration {
	delay := float64(opts.InitialDelay)
	for i := 0; i < attempt; i++ {
		delay *= opts.Multiplier
	}
	if max := float64(opts.MaxDelay); opts.MaxDelay > 0 && delay > max {
		delay = max
	}
	jitter := rand.Float64() * 0.1 * delay
	return time.Duration(delay + jitter)
}

func wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
