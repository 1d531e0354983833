package listview

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memCache is an in-memory ports.Cache for tests. TTLs are ignored;
// fetcher tests only care about hit/miss/invalidate behavior.
type memCache struct {
	mu sync.Mutex
	m  map[string][]byte
}

func newMemCache() *memCache { return &memCache{m: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[key], nil
}

func (c *memCache) Set(_ context.Context, key string, value []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.m[key]
	delete(c.m, key)
	return ok, nil
}

type row struct {
	ID string `json:"id"`
}

func pageOf(total int, ids ...string) model.Page[row] {
	items := make([]row, 0, len(ids))
	for _, id := range ids {
		items = append(items, row{ID: id})
	}
	return model.NewPage(items, total)
}

func TestFetcher_LogicallyEqualStatesFetchOnce(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	f := NewFetcher(FetcherOptions[row, kvFilter]{
		Resource: "employees",
		Cache:    newMemCache(),
		Fetch: func(_ context.Context, _ State[kvFilter]) (model.Page[row], error) {
			calls.Add(1)
			return pageOf(1, "e1"), nil
		},
	})

	ctx := context.Background()
	a := State[kvFilter]{Base: BaseOne, PageIndex: 1, PageSize: 10, Filters: kvFilter{"a": "1", "b": ""}}
	b := State[kvFilter]{Base: BaseOne, PageIndex: 1, PageSize: 10, Filters: kvFilter{"a": "1"}}

	r1 := f.Fetch(ctx, a)
	r2 := f.Fetch(ctx, b)

	require.NoError(t, r1.Err)
	require.NoError(t, r2.Err)
	assert.Equal(t, r1.Items, r2.Items)
	assert.Equal(t, int32(1), calls.Load(), "normalized-equal states must share one fetch")
}

func TestFetcher_ErrorYieldsEmptyItems(t *testing.T) {
	t.Parallel()

	wantErr := errors.New("backend unavailable")
	f := NewFetcher(FetcherOptions[row, NoFilter]{
		Resource: "documents",
		Fetch: func(_ context.Context, _ State[NoFilter]) (model.Page[row], error) {
			return model.Page[row]{}, wantErr
		},
	})

	res := f.Fetch(context.Background(), State[NoFilter]{Base: BaseOne, PageIndex: 1})

	require.Error(t, res.Err)
	assert.ErrorIs(t, res.Err, wantErr)
	assert.NotNil(t, res.Items, "presentation code must never null-check items")
	assert.Empty(t, res.Items)
	assert.Zero(t, res.Total)
}

func TestFetcher_MutateRefetches(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	f := NewFetcher(FetcherOptions[row, NoFilter]{
		Resource: "announcements",
		Cache:    newMemCache(),
		Fetch: func(_ context.Context, _ State[NoFilter]) (model.Page[row], error) {
			n := calls.Add(1)
			if n == 1 {
				return pageOf(1, "a1"), nil
			}
			return pageOf(2, "a1", "a2"), nil
		},
	})

	ctx := context.Background()
	st := State[NoFilter]{Base: BaseZero, PageIndex: 0, PageSize: 10}

	first := f.Fetch(ctx, st)
	require.NoError(t, first.Err)
	assert.Len(t, first.Items, 1)

	// A cached re-read does not hit the store.
	again := f.Fetch(ctx, st)
	require.NoError(t, again.Err)
	assert.Equal(t, int32(1), calls.Load())

	// After a write, Mutate invalidates and refetches.
	refreshed := f.Mutate(ctx, st)
	require.NoError(t, refreshed.Err)
	assert.Len(t, refreshed.Items, 2)
	assert.Equal(t, 2, refreshed.Total)
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetcher_DistinctKeysDoNotShareCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	f := NewFetcher(FetcherOptions[row, NoFilter]{
		Resource: "news",
		Cache:    newMemCache(),
		Fetch: func(_ context.Context, st State[NoFilter]) (model.Page[row], error) {
			calls.Add(1)
			if st.PageIndex == 0 {
				return pageOf(25, "n1", "n2", "n3", "n4", "n5", "n6", "n7", "n8", "n9", "n10"), nil
			}
			return pageOf(25, "n21", "n22", "n23", "n24", "n25"), nil
		},
	})

	ctx := context.Background()
	page1 := f.Fetch(ctx, State[NoFilter]{Base: BaseZero, PageIndex: 0, PageSize: 10})
	page3 := f.Fetch(ctx, State[NoFilter]{Base: BaseZero, PageIndex: 2, PageSize: 10})

	require.NoError(t, page1.Err)
	require.NoError(t, page3.Err)
	assert.Len(t, page1.Items, 10)
	assert.Len(t, page3.Items, 5)
	assert.Equal(t, 25, page1.Total)
	assert.Equal(t, 3, model.PageCount(page1.Total, 10))
	assert.Equal(t, int32(2), calls.Load())
}

func TestFetcher_WorksWithoutCache(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	f := NewFetcher(FetcherOptions[row, NoFilter]{
		Resource: "galleries",
		Fetch: func(_ context.Context, _ State[NoFilter]) (model.Page[row], error) {
			calls.Add(1)
			return pageOf(1, "g1"), nil
		},
	})

	ctx := context.Background()
	st := State[NoFilter]{Base: BaseZero, PageSize: 10}

	require.NoError(t, f.Fetch(ctx, st).Err)
	require.NoError(t, f.Fetch(ctx, st).Err)
	assert.Equal(t, int32(2), calls.Load(), "no cache means every fetch hits the store")
}
