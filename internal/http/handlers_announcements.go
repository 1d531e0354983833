package httpx

import (
	"net/url"
	"strings"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/listview"
)

// AnnouncementFilters are the structured filters of the announcement
// board.
type AnnouncementFilters struct {
	Audience string
}

// Params implements listview.FilterSet.
func (f AnnouncementFilters) Params() url.Values {
	v := url.Values{}
	if f.Audience != "" {
		v.Set("audience", f.Audience)
	}
	return v
}

func parseAnnouncementFilters(q url.Values) AnnouncementFilters {
	return AnnouncementFilters{Audience: strings.TrimSpace(q.Get("audience"))}
}

// AnnouncementResource serves the announcement board CRUD routes.
type AnnouncementResource = Resource[
	model.Announcement,
	model.CreateAnnouncementRequest,
	model.UpdateAnnouncementRequest,
	model.AnnouncementsListOptions,
	AnnouncementFilters,
]

// NewAnnouncementHandlers wires the announcement board. The family
// counts pages from 0 with pageIndex/pageSize/search parameters.
func NewAnnouncementHandlers(
	store Store[model.Announcement, model.CreateAnnouncementRequest, model.UpdateAnnouncementRequest, model.AnnouncementsListOptions],
	deps ResourceDeps,
) *AnnouncementResource {
	return NewResource(ResourceOptions[
		model.Announcement,
		model.CreateAnnouncementRequest,
		model.UpdateAnnouncementRequest,
		model.AnnouncementsListOptions,
		AnnouncementFilters,
	]{
		Name:         "announcement",
		Plural:       "announcements",
		Store:        store,
		Base:         listview.BaseZero,
		Params:       ZeroBasedParams(),
		ParseFilters: parseAnnouncementFilters,
		BuildOptions: func(st listview.State[AnnouncementFilters]) model.AnnouncementsListOptions {
			sortKey, sortDir := sortParams(st)
			opts := model.AnnouncementsListOptions{
				Limit:  st.Limit(),
				Offset: st.Offset(),
				Search: optStr(st.Search),
				Sort:   sortKey,
				Dir:    sortDir,
			}
			if s := strings.TrimSpace(st.Filters.Audience); s != "" {
				audience := model.AnnouncementAudience(s)
				opts.Audience = &audience
			}
			return opts
		},
		Deps: deps,
	})
}
