package httpx

import (
	"net/url"
	"strings"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/listview"
)

// DocumentFilters are the structured filters of the document library.
type DocumentFilters struct {
	CategoryID string
}

// Params implements listview.FilterSet.
func (f DocumentFilters) Params() url.Values {
	v := url.Values{}
	if f.CategoryID != "" {
		v.Set("CategoryId", f.CategoryID)
	}
	return v
}

func parseDocumentFilters(q url.Values) DocumentFilters {
	return DocumentFilters{CategoryID: strings.TrimSpace(q.Get("CategoryId"))}
}

// DocumentResource serves the document library CRUD routes.
type DocumentResource = Resource[
	model.Document,
	model.CreateDocumentRequest,
	model.UpdateDocumentRequest,
	model.DocumentsListOptions,
	DocumentFilters,
]

// NewDocumentHandlers wires the document library. Pages count from 1.
func NewDocumentHandlers(
	store Store[model.Document, model.CreateDocumentRequest, model.UpdateDocumentRequest, model.DocumentsListOptions],
	deps ResourceDeps,
) *DocumentResource {
	return NewResource(ResourceOptions[
		model.Document,
		model.CreateDocumentRequest,
		model.UpdateDocumentRequest,
		model.DocumentsListOptions,
		DocumentFilters,
	]{
		Name:         "document",
		Plural:       "documents",
		Store:        store,
		Base:         listview.BaseOne,
		Params:       OneBasedParams(),
		ParseFilters: parseDocumentFilters,
		BuildOptions: func(st listview.State[DocumentFilters]) model.DocumentsListOptions {
			sortKey, sortDir := sortParams(st)
			return model.DocumentsListOptions{
				Limit:      st.Limit(),
				Offset:     st.Offset(),
				Keyword:    optStr(st.Search),
				CategoryID: optStr(st.Filters.CategoryID),
				Sort:       sortKey,
				Dir:        sortDir,
			}
		},
		Deps: deps,
	})
}
