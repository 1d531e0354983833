package httpx

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/listview"
)

// NewsStore extends the CRUD surface with slug lookup for pretty URLs.
type NewsStore interface {
	Store[model.NewsArticle, model.CreateNewsRequest, model.UpdateNewsRequest, model.NewsListOptions]
	GetBySlug(ctx context.Context, slug string) (*model.NewsArticle, error)
}

// NewsFilters are the structured filters of the news list.
type NewsFilters struct {
	Published string
}

// Params implements listview.FilterSet.
func (f NewsFilters) Params() url.Values {
	v := url.Values{}
	if f.Published != "" {
		v.Set("published", f.Published)
	}
	return v
}

func parseNewsFilters(q url.Values) NewsFilters {
	return NewsFilters{Published: strings.TrimSpace(q.Get("published"))}
}

// NewsHandlers serves the news CRUD routes plus slug lookup.
type NewsHandlers struct {
	*Resource[
		model.NewsArticle,
		model.CreateNewsRequest,
		model.UpdateNewsRequest,
		model.NewsListOptions,
		NewsFilters,
	]
	store NewsStore
}

// NewNewsHandlers wires the news resource. Pages count from 0; the
// published filter accepts "true"/"false".
func NewNewsHandlers(store NewsStore, deps ResourceDeps) *NewsHandlers {
	res := NewResource(ResourceOptions[
		model.NewsArticle,
		model.CreateNewsRequest,
		model.UpdateNewsRequest,
		model.NewsListOptions,
		NewsFilters,
	]{
		Name:         "news",
		Plural:       "news",
		Store:        store,
		Base:         listview.BaseZero,
		Params:       ZeroBasedParams(),
		ParseFilters: parseNewsFilters,
		BuildOptions: func(st listview.State[NewsFilters]) model.NewsListOptions {
			sortKey, sortDir := sortParams(st)
			opts := model.NewsListOptions{
				Limit:  st.Limit(),
				Offset: st.Offset(),
				Search: optStr(st.Search),
				Sort:   sortKey,
				Dir:    sortDir,
			}
			switch strings.TrimSpace(st.Filters.Published) {
			case StrTrue:
				published := true
				opts.Published = &published
			case StrFalse:
				published := false
				opts.Published = &published
			}
			return opts
		},
		Deps: deps,
	})
	return &NewsHandlers{Resource: res, store: store}
}

// GetBySlug looks an article up by its URL slug.
// GET /api/news/slug/{slug}.
func (h *NewsHandlers) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "invalid_path",
			Err:     errors.New("missing slug in path"),
		})
		return
	}
	article, err := h.store.GetBySlug(r.Context(), slug)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, article)
}
