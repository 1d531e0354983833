package httpx

import (
	"net/url"
	"strings"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/listview"
)

// EmployeeFilters are the structured filters of the employee directory.
type EmployeeFilters struct {
	DepartmentID string
	Status       string
}

// Params implements listview.FilterSet.
func (f EmployeeFilters) Params() url.Values {
	v := url.Values{}
	if f.DepartmentID != "" {
		v.Set("DepartmentId", f.DepartmentID)
	}
	if f.Status != "" {
		v.Set("Status", f.Status)
	}
	return v
}

func parseEmployeeFilters(q url.Values) EmployeeFilters {
	return EmployeeFilters{
		DepartmentID: strings.TrimSpace(q.Get("DepartmentId")),
		Status:       strings.TrimSpace(q.Get("Status")),
	}
}

// EmployeeResource serves the employee directory CRUD routes.
type EmployeeResource = Resource[
	model.Employee,
	model.CreateEmployeeRequest,
	model.UpdateEmployeeRequest,
	model.EmployeesListOptions,
	EmployeeFilters,
]

// NewEmployeeHandlers wires the employee directory. The family counts
// pages from 1 with PageNumber/PageSize/Keyword parameters.
func NewEmployeeHandlers(
	store Store[model.Employee, model.CreateEmployeeRequest, model.UpdateEmployeeRequest, model.EmployeesListOptions],
	deps ResourceDeps,
) *EmployeeResource {
	return NewResource(ResourceOptions[
		model.Employee,
		model.CreateEmployeeRequest,
		model.UpdateEmployeeRequest,
		model.EmployeesListOptions,
		EmployeeFilters,
	]{
		Name:         "employee",
		Plural:       "employees",
		Store:        store,
		Base:         listview.BaseOne,
		Params:       OneBasedParams(),
		ParseFilters: parseEmployeeFilters,
		BuildOptions: func(st listview.State[EmployeeFilters]) model.EmployeesListOptions {
			sortKey, sortDir := sortParams(st)
			opts := model.EmployeesListOptions{
				Limit:        st.Limit(),
				Offset:       st.Offset(),
				Keyword:      optStr(st.Search),
				DepartmentID: optStr(st.Filters.DepartmentID),
				Sort:         sortKey,
				Dir:          sortDir,
			}
			if s := strings.TrimSpace(st.Filters.Status); s != "" {
				status := model.EmployeeStatus(s)
				opts.Status = &status
			}
			return opts
		},
		Deps: deps,
	})
}
