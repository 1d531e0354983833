package httpx

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/corpintra/portal-ui-api/internal/listview"
)

// ListParamNames names the query parameters of one endpoint family.
// The employee-style family capitalizes its params and counts pages
// from 1; the announcement-style family uses camelCase and counts
// from 0. The split is preserved per resource, never unified.
type ListParamNames struct {
	Page   string
	Size   string
	Search string
}

// OneBasedParams is the employee-style family: PageNumber/PageSize/Keyword.
func OneBasedParams() ListParamNames {
	return ListParamNames{Page: "PageNumber", Size: "PageSize", Search: "Keyword"}
}

// ZeroBasedParams is the announcement-style family: pageIndex/pageSize/search.
func ZeroBasedParams() ListParamNames {
	return ListParamNames{Page: "pageIndex", Size: "pageSize", Search: "search"}
}

// ListResponse is the wire shape of every list endpoint.
type ListResponse[T any] struct {
	Items      []T `json:"items"`
	TotalItems int `json:"totalItems"`
}

// ListEndpoint ties a listview fetcher to one resource's query-param
// conventions and serves its list route.
type ListEndpoint[T any, F listview.FilterSet] struct {
	Base         int
	Params       ListParamNames
	ParseFilters func(url.Values) F
	Fetcher      *listview.Fetcher[T, F]
}

// StateFromQuery builds the list-view state for an incoming request.
// A missing page param resolves to the resource's first page.
func (e *ListEndpoint[T, F]) StateFromQuery(q url.Values) listview.State[F] {
	st := listview.State[F]{
		Base:      e.Base,
		PageIndex: intParam(q, e.Params.Page, e.Base),
		PageSize:  intParam(q, e.Params.Size, listview.DefaultPageSize),
		Search:    strings.TrimSpace(q.Get(e.Params.Search)),
	}
	if key, dir := ParseSortParam(q, "sort", "dir"); key != "" {
		st.Sort = &listview.Sort{Key: key, Order: dir}
	}
	if e.ParseFilters != nil {
		st.Filters = e.ParseFilters(q)
	}
	return st
}

// ServeList handles the GET list route: parse state, fetch through the
// deduped cache, respond. Fetch failures surface as 500s with the list
// machinery's own error; items are never null in a success body.
func (e *ListEndpoint[T, F]) ServeList(w http.ResponseWriter, r *http.Request) {
	st := e.StateFromQuery(r.URL.Query())
	res := e.Fetcher.Fetch(r.Context(), st)
	if res.Err != nil {
		WriteAppError(w, res.Err)
		return
	}
	WriteJSON(w, http.StatusOK, ListResponse[T]{Items: res.Items, TotalItems: res.Total})
}

// Refresh invalidates and refetches the page the request was looking
// at. Handlers call it after any create/update/delete succeeds so the
// next list read reflects server state; remaining cached pages age out
// on TTL.
func (e *ListEndpoint[T, F]) Refresh(r *http.Request) {
	st := e.StateFromQuery(r.URL.Query())
	e.Fetcher.Mutate(r.Context(), st)
}

func intParam(q url.Values, key string, def int) int {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return def
	}
	return n
}
