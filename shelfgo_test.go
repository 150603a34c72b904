package shelfgo

import (
	"context"
	"testing"
	"time"

	"github.com/hupe1980/shelfgo/blobstore"
	"github.com/hupe1980/shelfgo/codec"
	"github.com/hupe1980/shelfgo/itemstore"
	"github.com/hupe1980/shelfgo/query"
	"github.com/hupe1980/shelfgo/resource"
	"github.com/stretchr/testify/require"
)

func newTestShelf(t *testing.T, optFns ...Option) *Shelf {
	t.Helper()
	opts := append([]Option{WithPollInterval(-1)}, optFns...)
	shelf, err := New(blobstore.NewMemoryStore(), opts...)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, shelf.Close()) })
	return shelf
}

func TestCreateItem(t *testing.T) {
	ctx := context.Background()

	t.Run("creates with assigned ids", func(t *testing.T) {
		shelf := newTestShelf(t)

		first, err := shelf.CreateItem(ctx, ItemInput{Name: "Laptop", Category: "Electronics", Price: 999.99})
		require.NoError(t, err)
		require.EqualValues(t, 1, first.ID)
		require.Equal(t, "Laptop", first.Name)

		second, err := shelf.CreateItem(ctx, ItemInput{Name: "Chair", Category: "Furniture", Price: 49.5})
		require.NoError(t, err)
		require.EqualValues(t, 2, second.ID)
	})

	t.Run("trims whitespace", func(t *testing.T) {
		shelf := newTestShelf(t)

		item, err := shelf.CreateItem(ctx, ItemInput{Name: "  Desk  ", Category: " Furniture ", Price: 120})
		require.NoError(t, err)
		require.Equal(t, "Desk", item.Name)
		require.Equal(t, "Furniture", item.Category)
	})

	t.Run("validation", func(t *testing.T) {
		shelf := newTestShelf(t)

		tests := []struct {
			name  string
			input ItemInput
			field string
		}{
			{"empty name", ItemInput{Category: "X", Price: 1}, "name"},
			{"blank name", ItemInput{Name: "   ", Category: "X", Price: 1}, "name"},
			{"empty category", ItemInput{Name: "A", Price: 1}, "category"},
			{"negative price", ItemInput{Name: "A", Category: "X", Price: -0.01}, "price"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := shelf.CreateItem(ctx, tt.input)

				var verr *ValidationError
				require.ErrorAs(t, err, &verr)
				require.Equal(t, tt.field, verr.Field)
			})
		}

		// A zero price is allowed.
		_, err := shelf.CreateItem(ctx, ItemInput{Name: "Freebie", Category: "Promo", Price: 0})
		require.NoError(t, err)

		// Rejected inputs never reached the store.
		items, _, err := shelf.ListItems(ctx, query.ListOptions{})
		require.NoError(t, err)
		require.Len(t, items, 1)
	})
}

func TestGetItem(t *testing.T) {
	ctx := context.Background()
	shelf := newTestShelf(t)

	created, err := shelf.CreateItem(ctx, ItemInput{Name: "Laptop", Category: "Electronics", Price: 999.99})
	require.NoError(t, err)

	got, err := shelf.GetItem(ctx, created.ID)
	require.NoError(t, err)
	require.Equal(t, created, got)

	_, err = shelf.GetItem(ctx, 9999)
	require.ErrorIs(t, err, ErrNotFound)
	require.ErrorIs(t, err, query.ErrNotFound)
}

func TestListItems(t *testing.T) {
	ctx := context.Background()
	shelf := newTestShelf(t)

	names := []string{"Laptop", "Chair", "Desk Lamp"}
	for i, name := range names {
		_, err := shelf.CreateItem(ctx, ItemInput{Name: name, Category: "Misc", Price: float64(i + 1)})
		require.NoError(t, err)
	}

	items, info, err := shelf.ListItems(ctx, query.ListOptions{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, items, 2)
	require.Equal(t, 3, info.TotalItems)
	require.True(t, info.HasNextPage)

	filtered, _, err := shelf.ListItems(ctx, query.ListOptions{Search: "lamp"})
	require.NoError(t, err)
	require.Len(t, filtered, 1)
	require.Equal(t, "Desk Lamp", filtered[0].Name)
}

func TestStatistics(t *testing.T) {
	ctx := context.Background()

	t.Run("served from cache until the collection changes", func(t *testing.T) {
		metrics := &BasicMetricsCollector{}
		shelf := newTestShelf(t, WithMetricsCollector(metrics))

		_, err := shelf.CreateItem(ctx, ItemInput{Name: "A", Category: "X", Price: 10})
		require.NoError(t, err)
		_, err = shelf.CreateItem(ctx, ItemInput{Name: "B", Category: "Y", Price: 20})
		require.NoError(t, err)

		first, err := shelf.Statistics(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, first.Total)
		require.Equal(t, 15.0, first.AveragePrice)
		require.Equal(t, map[string]int{"X": 1, "Y": 1}, first.Categories)

		second, err := shelf.Statistics(ctx)
		require.NoError(t, err)
		require.Equal(t, first, second)

		counters := shelf.CacheCounters()
		require.EqualValues(t, 1, counters.Hits)
		require.EqualValues(t, 1, counters.Recomputes)
		require.EqualValues(t, 1, metrics.StatsHits.Load())
		require.EqualValues(t, 1, metrics.StatsMisses.Load())
	})

	t.Run("create invalidates the derived view", func(t *testing.T) {
		shelf := newTestShelf(t)

		_, err := shelf.CreateItem(ctx, ItemInput{Name: "A", Category: "X", Price: 10})
		require.NoError(t, err)

		before, err := shelf.Statistics(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, before.Total)

		_, err = shelf.CreateItem(ctx, ItemInput{Name: "B", Category: "X", Price: 30})
		require.NoError(t, err)

		after, err := shelf.Statistics(ctx)
		require.NoError(t, err)
		require.Equal(t, 2, after.Total)
		require.Equal(t, 20.0, after.AveragePrice)
	})

	t.Run("missing blob errors like any other read", func(t *testing.T) {
		// No item was ever created, so there is no blob to stat.
		shelf := newTestShelf(t)

		_, err := shelf.Statistics(ctx)
		require.ErrorIs(t, err, itemstore.ErrUnreadable)
	})

	t.Run("empty collection yields the all-zero result", func(t *testing.T) {
		blobs := blobstore.NewMemoryStore()
		shelf, err := New(blobs, WithPollInterval(-1))
		require.NoError(t, err)
		defer shelf.Close()

		// The blob exists but holds no items, as after an external writer
		// initialized it.
		require.NoError(t, blobs.Put(ctx, "items.json", []byte("[]")))

		stats, err := shelf.Statistics(ctx)
		require.NoError(t, err)
		require.Zero(t, stats.Total)
		require.Zero(t, stats.AveragePrice)
		require.Zero(t, stats.PriceRange.Min)
		require.Zero(t, stats.PriceRange.Max)
		require.NotNil(t, stats.Categories)
		require.Empty(t, stats.Categories)

		// The zero result is cached like any other.
		again, err := shelf.Statistics(ctx)
		require.NoError(t, err)
		require.Equal(t, stats, again)
		require.EqualValues(t, 1, shelf.CacheCounters().Hits)
	})
}

func TestShelfOptions(t *testing.T) {
	ctx := context.Background()

	t.Run("custom blob name and codec", func(t *testing.T) {
		blobs := blobstore.NewMemoryStore()
		shelf, err := New(blobs,
			WithPollInterval(-1),
			WithBlobName("catalog.json"),
			WithCodec(codec.JSON{}),
		)
		require.NoError(t, err)
		defer shelf.Close()

		_, err = shelf.CreateItem(ctx, ItemInput{Name: "A", Category: "X", Price: 1})
		require.NoError(t, err)

		names, err := blobs.List(ctx, "")
		require.NoError(t, err)
		require.Equal(t, []string{"catalog.json"}, names)
	})

	t.Run("disabled poller", func(t *testing.T) {
		shelf := newTestShelf(t)
		require.Nil(t, shelf.poller)
	})

	t.Run("background poller picks up external writes", func(t *testing.T) {
		blobs := blobstore.NewMemoryStore()
		shelf, err := New(blobs, WithPollInterval(5*time.Millisecond))
		require.NoError(t, err)
		defer shelf.Close()

		_, err = shelf.CreateItem(ctx, ItemInput{Name: "A", Category: "X", Price: 10})
		require.NoError(t, err)

		stats, err := shelf.Statistics(ctx)
		require.NoError(t, err)
		require.Equal(t, 1, stats.Total)

		// Another process rewrites the blob out of band.
		require.NoError(t, blobs.Put(ctx, "items.json",
			[]byte(`[{"id":1,"name":"A","category":"X","price":10},{"id":2,"name":"B","category":"X","price":30}]`)))

		require.Eventually(t, func() bool {
			stats, err := shelf.Statistics(ctx)
			return err == nil && stats.Total == 2
		}, time.Second, 10*time.Millisecond)
	})

	t.Run("resource controller is honored", func(t *testing.T) {
		shelf := newTestShelf(t, WithResources(resource.NewController(resource.Config{MaxConcurrentReads: 1})))

		_, err := shelf.CreateItem(ctx, ItemInput{Name: "A", Category: "X", Price: 1})
		require.NoError(t, err)

		// Sequential reads acquire and release the single slot cleanly.
		for range 3 {
			_, _, err := shelf.ListItems(ctx, query.ListOptions{})
			require.NoError(t, err)
		}
	})

	t.Run("read timeout surfaces as timeout", func(t *testing.T) {
		shelf := newTestShelf(t, WithReadTimeout(time.Nanosecond))

		_, err := shelf.CreateItem(ctx, ItemInput{Name: "A", Category: "X", Price: 1})
		// With a nanosecond budget even the append's read can expire; either
		// outcome is acceptable as long as a timeout is reported as such.
		if err != nil {
			require.ErrorIs(t, err, itemstore.ErrTimeout)
		}
	})
}

func TestValidationErrorMessage(t *testing.T) {
	err := &ValidationError{Field: "price", Reason: "must be a non-negative number"}
	require.Equal(t, "invalid price: must be a non-negative number", err.Error())
}
