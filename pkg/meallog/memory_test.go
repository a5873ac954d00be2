package meallog_test

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oxalabs/oxakit/pkg/meallog"
)

func TestMemoryStore(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("list is ordered by logged time", func(t *testing.T) {
		t.Parallel()

		store := meallog.NewMemoryStore()
		base := time.Date(2025, time.March, 10, 8, 0, 0, 0, time.UTC)

		require.NoError(t, store.Add(ctx, meallog.Entry{ID: "b", Day: "2025-03-10", LoggedAt: base.Add(time.Hour)}))
		require.NoError(t, store.Add(ctx, meallog.Entry{ID: "a", Day: "2025-03-10", LoggedAt: base}))
		require.NoError(t, store.Add(ctx, meallog.Entry{ID: "c", Day: "2025-03-11", LoggedAt: base}))

		entries, err := store.ListDay(ctx, "2025-03-10")
		require.NoError(t, err)
		require.Len(t, entries, 2)
		assert.Equal(t, "a", entries[0].ID)
		assert.Equal(t, "b", entries[1].ID)
	})

	t.Run("remove missing entry", func(t *testing.T) {
		t.Parallel()

		store := meallog.NewMemoryStore()
		assert.ErrorIs(t, store.Remove(ctx, "nope"), meallog.ErrEntryNotFound)
	})

	t.Run("concurrent access", func(t *testing.T) {
		t.Parallel()

		store := meallog.NewMemoryStore()
		var wg sync.WaitGroup
		for i := range 50 {
			wg.Add(1)
			go func() {
				defer wg.Done()
				id := fmt.Sprintf("entry-%d", i)
				_ = store.Add(ctx, meallog.Entry{ID: id, Day: "2025-03-10"})
				_, _ = store.ListDay(ctx, "2025-03-10")
			}()
		}
		wg.Wait()

		entries, err := store.ListDay(ctx, "2025-03-10")
		require.NoError(t, err)
		assert.Len(t, entries, 50)
	})
}
