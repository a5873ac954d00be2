package billing_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalabs/oxakit/pkg/billing"
)

func TestExponentialBackoff(t *testing.T) {
	t.Parallel()

	t.Run("zero value defaults", func(t *testing.T) {
		t.Parallel()

		b := billing.ExponentialBackoff{}
		assert.Equal(t, time.Second, b.NextInterval(1))
		assert.Equal(t, 2*time.Second, b.NextInterval(2))
		assert.Equal(t, 4*time.Second, b.NextInterval(3))
		assert.Equal(t, 8*time.Second, b.NextInterval(4))
		assert.Equal(t, 10*time.Second, b.NextInterval(5), "capped at max interval")
		assert.Equal(t, 10*time.Second, b.NextInterval(10))
	})

	t.Run("non positive attempts", func(t *testing.T) {
		t.Parallel()

		b := billing.ExponentialBackoff{}
		assert.Equal(t, time.Duration(0), b.NextInterval(0))
		assert.Equal(t, time.Duration(0), b.NextInterval(-1))
	})
}

func TestRetry(t *testing.T) {
	t.Parallel()

	noSleep := func(ctx context.Context, d time.Duration) error { return nil }

	t.Run("succeeds first try", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := billing.Retry(context.Background(), billing.RetryOptions{MaxAttempts: 3, Sleep: noSleep}, func(ctx context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries transient failures up to the budget", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := billing.Retry(context.Background(), billing.RetryOptions{MaxAttempts: 3, Sleep: noSleep}, func(ctx context.Context) error {
			calls++
			return billing.NewError(billing.CodeNetwork, errors.New("timeout"))
		})

		assert.Equal(t, 3, calls)
		var berr *billing.Error
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, billing.CodeNetwork, berr.Code)
	})

	t.Run("recovers mid budget", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := billing.Retry(context.Background(), billing.RetryOptions{MaxAttempts: 3, Sleep: noSleep}, func(ctx context.Context) error {
			calls++
			if calls < 2 {
				return billing.NewError(billing.CodeBackendError, errors.New("503"))
			}
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 2, calls)
	})

	t.Run("non retryable aborts immediately without sleeping", func(t *testing.T) {
		t.Parallel()

		calls, sleeps := 0, 0
		err := billing.Retry(context.Background(), billing.RetryOptions{
			MaxAttempts: 5,
			Sleep: func(ctx context.Context, d time.Duration) error {
				sleeps++
				return nil
			},
		}, func(ctx context.Context) error {
			calls++
			return billing.NewError(billing.CodePurchaseCancelled, nil)
		})

		assert.Equal(t, 1, calls)
		assert.Equal(t, 0, sleeps)
		var berr *billing.Error
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, billing.CodePurchaseCancelled, berr.Code)
	})

	t.Run("delays grow between attempts", func(t *testing.T) {
		t.Parallel()

		var delays []time.Duration
		_ = billing.Retry(context.Background(), billing.RetryOptions{
			MaxAttempts: 4,
			Sleep: func(ctx context.Context, d time.Duration) error {
				delays = append(delays, d)
				return nil
			},
		}, func(ctx context.Context) error {
			return billing.NewError(billing.CodeNetwork, nil)
		})

		require.Len(t, delays, 3, "no sleep after the final attempt")
		for i := 1; i < len(delays); i++ {
			assert.GreaterOrEqual(t, delays[i], delays[i-1])
		}
	})

	t.Run("cancellation during sleep stops retrying", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		err := billing.Retry(ctx, billing.RetryOptions{
			MaxAttempts: 5,
			Sleep: func(ctx context.Context, d time.Duration) error {
				cancel()
				return ctx.Err()
			},
		}, func(ctx context.Context) error {
			calls++
			return billing.NewError(billing.CodeNetwork, nil)
		})

		assert.Equal(t, 1, calls)
		var berr *billing.Error
		require.ErrorAs(t, err, &berr)
		assert.Equal(t, billing.CodePurchaseCancelled, berr.Code)
	})

	t.Run("attempt budget below one still runs once", func(t *testing.T) {
		t.Parallel()

		calls := 0
		err := billing.Retry(context.Background(), billing.RetryOptions{MaxAttempts: 0, Sleep: noSleep}, func(ctx context.Context) error {
			calls++
			return nil
		})
		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})
}
