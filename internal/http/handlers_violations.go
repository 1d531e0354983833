package httpx

import (
	"context"
	"net/http"
	"net/url"
	"strings"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/listview"
)

// ViolationStore extends the CRUD surface with the outstanding-points
// aggregate used by the employee detail screen.
type ViolationStore interface {
	Store[model.Violation, model.CreateViolationRequest, model.UpdateViolationRequest, model.ViolationsListOptions]
	OutstandingPoints(ctx context.Context, employeeID string) (int, error)
}

// ViolationFilters are the structured filters of the violation list.
type ViolationFilters struct {
	EmployeeID string
	Severity   string
	FromDate   string
	ToDate     string
}

// Params implements listview.FilterSet.
func (f ViolationFilters) Params() url.Values {
	v := url.Values{}
	if f.EmployeeID != "" {
		v.Set("EmployeeId", f.EmployeeID)
	}
	if f.Severity != "" {
		v.Set("Severity", f.Severity)
	}
	if f.FromDate != "" {
		v.Set("FromDate", f.FromDate)
	}
	if f.ToDate != "" {
		v.Set("ToDate", f.ToDate)
	}
	return v
}

func parseViolationFilters(q url.Values) ViolationFilters {
	return ViolationFilters{
		EmployeeID: strings.TrimSpace(q.Get("EmployeeId")),
		Severity:   strings.TrimSpace(q.Get("Severity")),
		FromDate:   strings.TrimSpace(q.Get("FromDate")),
		ToDate:     strings.TrimSpace(q.Get("ToDate")),
	}
}

// ViolationHandlers serves the violation CRUD routes plus the
// per-employee outstanding points aggregate.
type ViolationHandlers struct {
	*Resource[
		model.Violation,
		model.CreateViolationRequest,
		model.UpdateViolationRequest,
		model.ViolationsListOptions,
		ViolationFilters,
	]
	store ViolationStore
}

// NewViolationHandlers wires the violation resource. The family counts
// pages from 1 and has no free-text search; it filters by employee,
// severity, and occurrence date range instead.
func NewViolationHandlers(store ViolationStore, deps ResourceDeps) *ViolationHandlers {
	res := NewResource(ResourceOptions[
		model.Violation,
		model.CreateViolationRequest,
		model.UpdateViolationRequest,
		model.ViolationsListOptions,
		ViolationFilters,
	]{
		Name:         "violation",
		Plural:       "violations",
		Store:        store,
		Base:         listview.BaseOne,
		Params:       OneBasedParams(),
		ParseFilters: parseViolationFilters,
		BuildOptions: func(st listview.State[ViolationFilters]) model.ViolationsListOptions {
			sortKey, sortDir := sortParams(st)
			opts := model.ViolationsListOptions{
				Limit:      st.Limit(),
				Offset:     st.Offset(),
				EmployeeID: optStr(st.Filters.EmployeeID),
				FromDate:   optTime(st.Filters.FromDate),
				ToDate:     optTime(st.Filters.ToDate),
				Sort:       sortKey,
				Dir:        sortDir,
			}
			if s := strings.TrimSpace(st.Filters.Severity); s != "" {
				severity := model.ViolationSeverity(s)
				opts.Severity = &severity
			}
			return opts
		},
		Deps: deps,
	})
	return &ViolationHandlers{Resource: res, store: store}
}

// OutstandingPoints returns the unresolved point total for one
// employee. GET /api/employees/{id}/violation-points.
func (h *ViolationHandlers) OutstandingPoints(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	points, err := h.store.OutstandingPoints(r.Context(), id)
	if err != nil {
		WriteAppError(w, err)
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"employeeId": id, "outstandingPoints": points})
}
