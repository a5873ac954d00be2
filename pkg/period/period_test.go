package period_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalabs/oxakit/pkg/period"
)

func TestStamps(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 14, 15, 9, 26, 0, time.UTC)

	assert.Equal(t, "2025-03-14", period.DayStamp(now))
	assert.Equal(t, "2025-03", period.MonthStamp(now))
}

func TestIsToday(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 14, 23, 59, 0, 0, time.UTC)

	assert.True(t, period.IsToday("2025-03-14", now))
	assert.False(t, period.IsToday("2025-03-13", now))
	assert.False(t, period.IsToday("", now))
	assert.False(t, period.IsToday("garbage", now))
}

func TestIsCurrentMonth(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC)

	assert.True(t, period.IsCurrentMonth("2025-03", now))
	assert.False(t, period.IsCurrentMonth("2025-02", now))
	assert.False(t, period.IsCurrentMonth("", now))
}

func TestDaysSince(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		stamp string
		now   time.Time
		want  int
	}{
		{
			name:  "same day counts as day one",
			stamp: "2025-03-14",
			now:   time.Date(2025, time.March, 14, 18, 0, 0, 0, time.UTC),
			want:  1,
		},
		{
			name:  "next day is day two",
			stamp: "2025-03-14",
			now:   time.Date(2025, time.March, 15, 0, 30, 0, 0, time.UTC),
			want:  2,
		},
		{
			name:  "three days later is day four",
			stamp: "2025-03-14",
			now:   time.Date(2025, time.March, 17, 9, 0, 0, 0, time.UTC),
			want:  4,
		},
		{
			name:  "month boundary",
			stamp: "2025-02-27",
			now:   time.Date(2025, time.March, 1, 12, 0, 0, 0, time.UTC),
			want:  3,
		},
		{
			name:  "future start date clamps to one",
			stamp: "2025-04-01",
			now:   time.Date(2025, time.March, 14, 12, 0, 0, 0, time.UTC),
			want:  1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got, err := period.DaysSince(tt.stamp, tt.now)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("malformed stamp", func(t *testing.T) {
		t.Parallel()
		_, err := period.DaysSince("not-a-date", time.Now())
		require.ErrorIs(t, err, period.ErrInvalidStamp)
	})
}
