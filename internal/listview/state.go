// Package listview implements the generic list-view pattern shared by
// every admin list screen: page/filter/sort state, a normalized
// request key, a deduplicated cached fetcher, and row selection.
package listview

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
)

// Page-index conventions. The backend endpoint families disagree on
// the base (some count pages from 0, some from 1); each resource keeps
// its own documented convention instead of a silently unified one.
const (
	BaseZero = 0
	BaseOne  = 1
)

const (
	// DefaultPageSize applies when the client sends no page size.
	DefaultPageSize = 10
	// MaxPageSize caps the page size a client may request.
	MaxPageSize = 100
)

// Sort is an optional sort instruction.
type Sort struct {
	Key   string
	Order string // "asc" or "desc"
}

// FilterSet emits a resource's structured filter fields as query
// values. Implementations must omit absent/empty fields entirely;
// an empty string over-constrains server-side queries.
type FilterSet interface {
	Params() url.Values
}

// NoFilter is the FilterSet for screens without structured filters.
type NoFilter struct{}

// Params implements FilterSet.
func (NoFilter) Params() url.Values { return url.Values{} }

// State holds the user-adjustable view state of one list screen.
// It is created when the screen mounts and discarded on unmount; it is
// never shared between screens.
type State[F FilterSet] struct {
	// Base is the page-index convention of this resource (0 or 1).
	Base      int
	PageIndex int
	PageSize  int
	Search    string
	Sort      *Sort
	Filters   F
}

// Limit returns the effective page size.
func (s State[F]) Limit() int {
	switch {
	case s.PageSize <= 0:
		return DefaultPageSize
	case s.PageSize > MaxPageSize:
		return MaxPageSize
	default:
		return s.PageSize
	}
}

// Offset converts the page index to a row offset, honoring the
// resource's base. Indexes before the first page clamp to zero.
func (s State[F]) Offset() int {
	page := s.PageIndex - s.Base
	if page < 0 {
		page = 0
	}
	return page * s.Limit()
}

// Params returns the normalized outgoing request parameters: page
// bounds, search, sort, and the filter fields, with absent/empty
// values stripped.
func (s State[F]) Params() url.Values {
	v := url.Values{}
	v.Set("page", strconv.Itoa(s.PageIndex))
	v.Set("size", strconv.Itoa(s.Limit()))
	if q := strings.TrimSpace(s.Search); q != "" {
		v.Set("search", q)
	}
	if s.Sort != nil && s.Sort.Key != "" {
		v.Set("sort", s.Sort.Key)
		if s.Sort.Order != "" {
			v.Set("dir", s.Sort.Order)
		}
	}
	for key, vals := range s.Filters.Params() {
		for _, val := range vals {
			if strings.TrimSpace(val) != "" {
				v.Add(key, val)
			}
		}
	}
	return Normalize(v)
}

// RequestKey derives the cache/dedup key for the state: a pure,
// order-independent function of the normalized parameters. Two states
// with logically equal parameters always collapse to the same key.
func (s State[F]) RequestKey(resource string) string {
	return resource + "?" + CanonicalQuery(s.Params())
}

// Normalize strips empty values and empty keys from a values set.
func Normalize(v url.Values) url.Values {
	out := url.Values{}
	for key, vals := range v {
		if key == "" {
			continue
		}
		for _, val := range vals {
			if strings.TrimSpace(val) != "" {
				out.Add(key, val)
			}
		}
	}
	return out
}

// CanonicalQuery encodes values with sorted keys and sorted repeated
// values, so construction order never changes the result.
func CanonicalQuery(v url.Values) string {
	keys := make([]string, 0, len(v))
	for k := range v {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		vals := append([]string(nil), v[k]...)
		sort.Strings(vals)
		for _, val := range vals {
			if b.Len() > 0 {
				b.WriteByte('&')
			}
			b.WriteString(url.QueryEscape(k))
			b.WriteByte('=')
			b.WriteString(url.QueryEscape(val))
		}
	}
	return b.String()
}
