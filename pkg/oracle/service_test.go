package oracle_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalabs/oxakit/pkg/entitlement"
	"github.com/oxalabs/oxakit/pkg/kv"
	"github.com/oxalabs/oxakit/pkg/oracle"
	"github.com/oxalabs/oxakit/pkg/quota"
)

type stubAsker struct {
	answer string
	err    error
	calls  int
}

func (a *stubAsker) Ask(_ context.Context, _ string) (string, error) {
	a.calls++
	if a.err != nil {
		return "", a.err
	}
	return a.answer, nil
}

type oracleHarness struct {
	service *oracle.Service
	asker   *stubAsker
	status  entitlement.Status
	now     time.Time
}

func newOracleHarness(t *testing.T) *oracleHarness {
	t.Helper()

	h := &oracleHarness{
		asker:  &stubAsker{answer: "Yes."},
		status: entitlement.StatusFree,
		now:    time.Date(2025, time.March, 10, 12, 0, 0, 0, time.UTC),
	}

	engine := quota.NewEngine(kv.NewMemoryStore(),
		func() entitlement.Status { return h.status },
		quota.WithClock(func() time.Time { return h.now }))

	h.service = oracle.NewService(h.asker, engine)
	return h
}

func TestService_Ask(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("free tier monthly allowance", func(t *testing.T) {
		t.Parallel()

		h := newOracleHarness(t)
		require.True(t, h.service.CanAsk())
		assert.Equal(t, quota.FreeOracleMonthly, h.service.Remaining())

		for range quota.FreeOracleMonthly {
			answer, ok, err := h.service.Ask(ctx, "Is spinach high?")
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, "Yes.", answer)
		}

		_, ok, err := h.service.Ask(ctx, "one more")
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Equal(t, quota.FreeOracleMonthly, h.asker.calls,
			"denied question must not reach the endpoint")

		// A new month restores the allowance.
		h.now = time.Date(2025, time.April, 1, 9, 0, 0, 0, time.UTC)
		_, ok, err = h.service.Ask(ctx, "again")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("premium daily allowance", func(t *testing.T) {
		t.Parallel()

		h := newOracleHarness(t)
		h.status = entitlement.StatusPremium
		assert.Equal(t, quota.PremiumOracleDaily, h.service.Remaining())

		for range quota.PremiumOracleDaily {
			_, ok, err := h.service.Ask(ctx, "q")
			require.NoError(t, err)
			require.True(t, ok)
		}

		_, ok, err := h.service.Ask(ctx, "over")
		require.NoError(t, err)
		assert.False(t, ok)

		h.now = h.now.Add(24 * time.Hour)
		_, ok, err = h.service.Ask(ctx, "next day")
		require.NoError(t, err)
		assert.True(t, ok)
	})

	t.Run("upstream failure surfaces", func(t *testing.T) {
		t.Parallel()

		h := newOracleHarness(t)
		h.asker.err = errors.New("upstream down")

		_, ok, err := h.service.Ask(ctx, "q")
		assert.Error(t, err)
		assert.False(t, ok)
	})
}

func TestNewService(t *testing.T) {
	t.Parallel()

	engine := quota.NewEngine(kv.NewMemoryStore(), func() entitlement.Status { return entitlement.StatusFree })

	assert.Panics(t, func() { oracle.NewService(nil, engine) })
	assert.Panics(t, func() { oracle.NewService(&stubAsker{}, nil) })
}
