package httpx

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/listview"
	"github.com/corpintra/portal-ui-api/internal/ports"
)

// Store is the persistence surface every CRUD resource handler needs.
// All data-layer repos satisfy it; T is the row type, C and U the
// create/update request types, O the list options type.
type Store[T, C, U, O any] interface {
	Create(ctx context.Context, req *C) (*T, error)
	GetByID(ctx context.Context, id string) (*T, error)
	List(ctx context.Context, opts O) (model.Page[T], error)
	Update(ctx context.Context, id string, req U) (*T, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// ResourceDeps groups the shared dependencies of every resource
// constructor so each stays within the ≤3 params guideline.
type ResourceDeps struct {
	Cache  ports.Cache
	TTL    time.Duration
	Logger *slog.Logger
}

// ResourceOptions configures one CRUD resource.
type ResourceOptions[T, C, U, O any, F listview.FilterSet] struct {
	// Name is the singular resource name used in error codes.
	Name string
	// Plural keys the list cache and names the endpoint family.
	Plural string
	Store  Store[T, C, U, O]
	// Base and Params pin the resource's page-index convention.
	Base         int
	Params       ListParamNames
	ParseFilters func(url.Values) F
	// BuildOptions translates normalized view state into the store's
	// list options.
	BuildOptions func(st listview.State[F]) O
	Deps         ResourceDeps
}

// Resource serves the five CRUD routes of one list screen. Writes go
// straight to the store; reads of the list route go through the cached,
// deduplicated fetcher.
type Resource[T, C, U, O any, F listview.FilterSet] struct {
	name  string
	store Store[T, C, U, O]
	list  *ListEndpoint[T, F]
}

// NewResource constructs a Resource and its list endpoint.
func NewResource[T, C, U, O any, F listview.FilterSet](
	opts ResourceOptions[T, C, U, O, F],
) *Resource[T, C, U, O, F] {
	fetch := func(ctx context.Context, st listview.State[F]) (model.Page[T], error) {
		return opts.Store.List(ctx, opts.BuildOptions(st))
	}
	endpoint := &ListEndpoint[T, F]{
		Base:         opts.Base,
		Params:       opts.Params,
		ParseFilters: opts.ParseFilters,
		Fetcher: listview.NewFetcher(listview.FetcherOptions[T, F]{
			Resource: opts.Plural,
			Fetch:    fetch,
			Cache:    opts.Deps.Cache,
			TTL:      opts.Deps.TTL,
			Logger:   opts.Deps.Logger,
		}),
	}
	return &Resource[T, C, U, O, F]{name: opts.Name, store: opts.Store, list: endpoint}
}

// List handles GET on the collection route.
func (res *Resource[T, C, U, O, F]) List(w http.ResponseWriter, r *http.Request) {
	res.list.ServeList(w, r)
}

// Get handles GET on the item route.
func (res *Resource[T, C, U, O, F]) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := res.store.GetByID(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, item)
}

// Create handles POST on the collection route.
func (res *Resource[T, C, U, O, F]) Create(w http.ResponseWriter, r *http.Request) {
	var req C
	if !DecodeJSON(w, r, &req) {
		return
	}
	item, err := res.store.Create(r.Context(), &req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	res.list.Refresh(r)
	WriteJSON(w, http.StatusCreated, item)
}

// Update handles PUT on the item route.
func (res *Resource[T, C, U, O, F]) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req U
	if !DecodeJSON(w, r, &req) {
		return
	}
	item, err := res.store.Update(r.Context(), id, req)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	res.list.Refresh(r)
	WriteJSON(w, http.StatusOK, item)
}

// Delete handles DELETE on the item route.
func (res *Resource[T, C, U, O, F]) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	deleted, err := res.store.Delete(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	if !deleted {
		WriteError(w, ErrorParams{
			Code:    http.StatusNotFound,
			ErrCode: res.name + "_not_found",
			Err:     errors.New(res.name + " not found"),
		})
		return
	}
	res.list.Refresh(r)
	WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

// Endpoint exposes the underlying list endpoint for handlers that need
// to refresh the list after out-of-band writes.
func (res *Resource[T, C, U, O, F]) Endpoint() *ListEndpoint[T, F] { return res.list }

// pathID extracts the {id} path value, writing a 400 when it is empty.
func pathID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.PathValue("id")
	if id == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("missing id in path"),
		})
		return "", false
	}
	return id, true
}

// sortParams unpacks the optional sort instruction.
func sortParams[F listview.FilterSet](st listview.State[F]) (string, string) {
	if st.Sort == nil {
		return "", ""
	}
	return st.Sort.Key, st.Sort.Order
}

// optStr returns a pointer to the trimmed string, or nil when blank.
// Repos treat nil as "no filter" and an empty string would
// over-constrain the query.
func optStr(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// optTime parses a date or RFC 3339 timestamp parameter, nil when blank
// or malformed. Malformed dates fall back to "no filter" rather than a
// request error, matching how the list endpoints treat bad page params.
func optTime(s string) *time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return &t
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t
	}
	return nil
}
