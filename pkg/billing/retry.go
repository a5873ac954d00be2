package billing

import (
	"context"
	"math"
	"time"
)

// BackoffStrategy computes the delay before a retry attempt. Attempt starts
// at 1 for the first retry.
type BackoffStrategy interface {
	NextInterval(attempt int) time.Duration
}

// ExponentialBackoff doubles the delay on each attempt up to a cap. The
// zero value uses the defaults: 1s initial, x2, capped at 10s.
type ExponentialBackoff struct {
	InitialInterval time.Duration
	MaxInterval     time.Duration
	Multiplier      float64
}

func (e ExponentialBackoff) NextInterval(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}

	initial := e.InitialInterval
	if initial == 0 {
		initial = time.Second
	}
	maxInterval := e.MaxInterval
	if maxInterval == 0 {
		maxInterval = 10 * time.Second
	}
	multiplier := e.Multiplier
	if multiplier == 0 {
		multiplier = 2
	}

	interval := float64(initial) * math.Pow(multiplier, float64(attempt-1))
	if interval > float64(maxInterval) {
		interval = float64(maxInterval)
	}
	return time.Duration(interval)
}

// DefaultBackoff returns the backoff used for billing calls.
func DefaultBackoff() BackoffStrategy {
	return ExponentialBackoff{}
}

// RetryOptions bounds a retried operation.
type RetryOptions struct {
	// MaxAttempts is the total number of attempts, not retries. Values
	// below 1 are treated as 1. Purchase calls use 1 to avoid duplicate
	// charges.
	MaxAttempts int

	// Backoff defaults to DefaultBackoff.
	Backoff BackoffStrategy

	// Sleep is the delay function, injectable for tests. Defaults to a
	// context-aware timer sleep.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Retry runs op until it succeeds, a non-retryable error occurs, or the
// attempt budget is exhausted. The returned error is always classified; a
// non-retryable error aborts immediately without consuming the remaining
// budget or sleeping.
func Retry(ctx context.Context, opts RetryOptions, op func(ctx context.Context) error) error {
	attempts := max(1, opts.MaxAttempts)
	backoff := opts.Backoff
	if backoff == nil {
		backoff = DefaultBackoff()
	}
	sleep := opts.Sleep
	if sleep == nil {
		sleep = sleepContext
	}

	var last *Error
	for attempt := 1; attempt <= attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}

		last = Classify(err)
		if !last.Retryable() {
			return last
		}
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, backoff.NextInterval(attempt)); err != nil {
			return Classify(err)
		}
	}
	return last
}

func sleepContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
