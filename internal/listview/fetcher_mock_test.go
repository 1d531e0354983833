package listview

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/mocks"
)

func TestFetcher_CacheErrorsDegradeToStoreFetch(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)
	cache.EXPECT().Get(gomock.Any(), gomock.Any()).Return(nil, errors.New("redis down"))
	cache.EXPECT().Set(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("redis down"))

	f := NewFetcher(FetcherOptions[row, NoFilter]{
		Resource: "rows",
		Cache:    cache,
		Fetch: func(_ context.Context, _ State[NoFilter]) (model.Page[row], error) {
			return pageOf(1, "a"), nil
		},
	})

	res := f.Fetch(context.Background(), State[NoFilter]{PageSize: 10})
	require.NoError(t, res.Err)
	assert.Equal(t, 1, res.Total)
	assert.Len(t, res.Items, 1)
}

func TestFetcher_MutateDeletesCachedKey(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	cache := mocks.NewMockCache(ctrl)

	st := State[NoFilter]{PageSize: 10}
	key := st.RequestKey("rows")

	gomock.InOrder(
		cache.EXPECT().Delete(gomock.Any(), key).Return(true, nil),
		cache.EXPECT().Get(gomock.Any(), key).Return(nil, nil),
		cache.EXPECT().Set(gomock.Any(), key, gomock.Any(), DefaultTTL).Return(nil),
	)

	f := NewFetcher(FetcherOptions[row, NoFilter]{
		Resource: "rows",
		Cache:    cache,
		TTL:      DefaultTTL,
		Fetch: func(_ context.Context, _ State[NoFilter]) (model.Page[row], error) {
			return pageOf(2, "a", "b"), nil
		},
	})

	res := f.Mutate(context.Background(), st)
	require.NoError(t, res.Err)
	assert.Equal(t, 2, res.Total)
}
