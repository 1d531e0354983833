package httpx

import (
	"net/url"
	"strings"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/listview"
)

// ScheduleFilters are the structured filters of the shift calendar.
// Week is the Monday of the week to show, as a date string.
type ScheduleFilters struct {
	EmployeeID string
	Week       string
}

// Params implements listview.FilterSet.
func (f ScheduleFilters) Params() url.Values {
	v := url.Values{}
	if f.EmployeeID != "" {
		v.Set("employeeId", f.EmployeeID)
	}
	if f.Week != "" {
		v.Set("week", f.Week)
	}
	return v
}

func parseScheduleFilters(q url.Values) ScheduleFilters {
	return ScheduleFilters{
		EmployeeID: strings.TrimSpace(q.Get("employeeId")),
		Week:       strings.TrimSpace(q.Get("week")),
	}
}

// ScheduleResource serves the shift calendar CRUD routes.
type ScheduleResource = Resource[
	model.Schedule,
	model.CreateScheduleRequest,
	model.UpdateScheduleRequest,
	model.SchedulesListOptions,
	ScheduleFilters,
]

// NewScheduleHandlers wires the shift calendar. Pages count from 0.
func NewScheduleHandlers(
	store Store[model.Schedule, model.CreateScheduleRequest, model.UpdateScheduleRequest, model.SchedulesListOptions],
	deps ResourceDeps,
) *ScheduleResource {
	return NewResource(ResourceOptions[
		model.Schedule,
		model.CreateScheduleRequest,
		model.UpdateScheduleRequest,
		model.SchedulesListOptions,
		ScheduleFilters,
	]{
		Name:         "schedule",
		Plural:       "schedules",
		Store:        store,
		Base:         listview.BaseZero,
		Params:       ZeroBasedParams(),
		ParseFilters: parseScheduleFilters,
		BuildOptions: func(st listview.State[ScheduleFilters]) model.SchedulesListOptions {
			sortKey, sortDir := sortParams(st)
			return model.SchedulesListOptions{
				Limit:      st.Limit(),
				Offset:     st.Offset(),
				EmployeeID: optStr(st.Filters.EmployeeID),
				WeekStart:  optTime(st.Filters.Week),
				Sort:       sortKey,
				Dir:        sortDir,
			}
		},
		Deps: deps,
	})
}
