package httpx

import (
	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/listview"
)

// RoleResource serves the role administration CRUD routes.
type RoleResource = Resource[
	model.RoleRecord,
	model.CreateRoleRequest,
	model.UpdateRoleRequest,
	model.RolesListOptions,
	listview.NoFilter,
]

// NewRoleHandlers wires role administration. Pages count from 0; no
// structured filters beyond search.
func NewRoleHandlers(
	store Store[model.RoleRecord, model.CreateRoleRequest, model.UpdateRoleRequest, model.RolesListOptions],
	deps ResourceDeps,
) *RoleResource {
	return NewResource(ResourceOptions[
		model.RoleRecord,
		model.CreateRoleRequest,
		model.UpdateRoleRequest,
		model.RolesListOptions,
		listview.NoFilter,
	]{
		Name:   "role",
		Plural: "roles",
		Store:  store,
		Base:   listview.BaseZero,
		Params: ZeroBasedParams(),
		BuildOptions: func(st listview.State[listview.NoFilter]) model.RolesListOptions {
			sortKey, sortDir := sortParams(st)
			return model.RolesListOptions{
				Limit:  st.Limit(),
				Offset: st.Offset(),
				Search: optStr(st.Search),
				Sort:   sortKey,
				Dir:    sortDir,
			}
		},
		Deps: deps,
	})
}
