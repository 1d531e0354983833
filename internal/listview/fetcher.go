package listview

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/ports"
	"golang.org/x/sync/singleflight"
)

// DefaultTTL is how long a fetched page stays cached before the next
// request refetches it. Mutations invalidate eagerly, so the TTL only
// bounds staleness from out-of-band writes.
const DefaultTTL = 30 * time.Second

// FetchFunc loads one page for the given state from the backing store.
type FetchFunc[T any, F FilterSet] func(ctx context.Context, st State[F]) (model.Page[T], error)

// Result is what presentation code consumes. Items is never nil and
// Err never propagates as a panic or thrown error: a failed fetch
// yields an empty page plus the error for display.
type Result[T any] struct {
	Items []T
	Total int
	Err   error
}

// FetcherOptions groups dependencies for NewFetcher.
type FetcherOptions[T any, F FilterSet] struct {
	// Resource names the endpoint family; it prefixes every request key.
	Resource string
	Fetch    FetchFunc[T, F]
	// Cache is optional; without it every Fetch goes to the store
	// (deduplication still applies).
	Cache  ports.Cache
	TTL    time.Duration
	Logger *slog.Logger
}

// Fetcher is the shared data path behind a list screen: it derives the
// request key from the state, collapses concurrent identical fetches,
// caches pages, and exposes Mutate for refresh-after-write.
type Fetcher[T any, F FilterSet] struct {
	resource string
	fetch    FetchFunc[T, F]
	cache    ports.Cache
	ttl      time.Duration
	group    singleflight.Group
	logger   *slog.Logger
}

// NewFetcher constructs a Fetcher.
func NewFetcher[T any, F FilterSet](opts FetcherOptions[T, F]) *Fetcher[T, F] {
	ttl := opts.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher[T, F]{
		resource: opts.Resource,
		fetch:    opts.Fetch,
		cache:    opts.Cache,
		ttl:      ttl,
		logger:   logger,
	}
}

// Fetch returns the page for the state. Concurrent calls with
// logically equal states share one in-flight fetch; the newest key
// wins, so a stale response for an abandoned key never lands on the
// current one. Errors are logged and surfaced in Result.Err with an
// empty item list.
func (f *Fetcher[T, F]) Fetch(ctx context.Context, st State[F]) Result[T] {
	key := st.RequestKey(f.resource)

	if page, ok := f.cached(ctx, key); ok {
		return Result[T]{Items: page.Items, Total: page.TotalItems}
	}

	v, err, _ := f.group.Do(key, func() (any, error) {
		page, fetchErr := f.fetch(ctx, st)
		if fetchErr != nil {
			return model.Page[T]{}, fetchErr
		}
		page = model.NewPage(page.Items, page.TotalItems)
		f.store(ctx, key, page)
		return page, nil
	})
	if err != nil {
		f.logger.ErrorContext(ctx, "list fetch failed",
			slog.String("resource", f.resource),
			slog.String("key", key),
			slog.Any("error", err),
		)
		return Result[T]{Items: []T{}, Err: err}
	}

	page, ok := v.(model.Page[T])
	if !ok {
		// Only reachable if a caller shares a singleflight key across
		// item types, which RequestKey's resource prefix prevents.
		return Result[T]{Items: []T{}}
	}
	return Result[T]{Items: page.Items, Total: page.TotalItems}
}

// Mutate invalidates the cached page for the state and refetches it.
// Handlers call this after any create/update/delete succeeds so the
// list reflects server state rather than an optimistic guess.
func (f *Fetcher[T, F]) Mutate(ctx context.Context, st State[F]) Result[T] {
	key := st.RequestKey(f.resource)
	f.Invalidate(ctx, key)
	return f.Fetch(ctx, st)
}

// Invalidate drops the cached entry and any in-flight dedup slot for
// the key.
func (f *Fetcher[T, F]) Invalidate(ctx context.Context, key string) {
	f.group.Forget(key)
	if f.cache == nil {
		return
	}
	if _, err := f.cache.Delete(ctx, key); err != nil {
		f.logger.WarnContext(ctx, "cache invalidate failed",
			slog.String("key", key), slog.Any("error", err))
	}
}

func (f *Fetcher[T, F]) cached(ctx context.Context, key string) (model.Page[T], bool) {
	if f.cache == nil {
		return model.Page[T]{}, false
	}
	raw, err := f.cache.Get(ctx, key)
	if err != nil {
		f.logger.WarnContext(ctx, "cache get failed",
			slog.String("key", key), slog.Any("error", err))
		return model.Page[T]{}, false
	}
	if raw == nil {
		return model.Page[T]{}, false
	}
	var page model.Page[T]
	if err := json.Unmarshal(raw, &page); err != nil {
		// A corrupt entry is treated as a miss and overwritten.
		return model.Page[T]{}, false
	}
	return model.NewPage(page.Items, page.TotalItems), true
}

func (f *Fetcher[T, F]) store(ctx context.Context, key string, page model.Page[T]) {
	if f.cache == nil {
		return
	}
	raw, err := json.Marshal(page)
	if err != nil {
		return
	}
	if err := f.cache.Set(ctx, key, raw, f.ttl); err != nil {
		f.logger.WarnContext(ctx, "cache set failed",
			slog.String("key", key), slog.Any("error", err))
	}
}
