package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/corpintra/portal-ui-api/internal/data/database"
	"github.com/corpintra/portal-ui-api/internal/domain/model"
	apperrors "github.com/corpintra/portal-ui-api/internal/errors"
)

// RoleRepo provides database operations for portal roles.
type RoleRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewRoleRepo creates a new RoleRepo with the real clock.
func NewRoleRepo(db *sql.DB) *RoleRepo {
	return &RoleRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewRoleRepoWithTimeProvider creates a RoleRepo with a custom clock.
func NewRoleRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *RoleRepo {
	return &RoleRepo{DB: db, timeProvider: tp}
}

const (
	roleColumnList = `id, name, description, permissions, created_at, updated_at`

	roleGetByIDQuery = `
		SELECT ` + roleColumnList + `
		FROM roles
		WHERE id = $1`

	roleGetByNameQuery = `
		SELECT ` + roleColumnList + `
		FROM roles
		WHERE name = $1`
)

func roleColumns() []string {
	return []string{"id", "name", "description", "permissions", "created_at", "updated_at"}
}

// Create inserts a role. The name is stored normalized lower-case.
func (r *RoleRepo) Create(ctx context.Context, req *model.CreateRoleRequest) (*model.RoleRecord, error) {
	if req == nil {
		return nil, errors.New("create role request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	perms := req.Permissions
	if perms == nil {
		perms = []string{}
	}

	now := r.timeProvider.Now().UTC()
	out, err := queryOne[model.RoleRecord](ctx, r.DB, `
		INSERT INTO roles (name, description, permissions, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $4)
		RETURNING `+roleColumnList,
		req.NormalizedName(),
		req.Description,
		perms,
		now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a role by ID.
func (r *RoleRepo) GetByID(ctx context.Context, id string) (*model.RoleRecord, error) {
	out, err := queryOne[model.RoleRecord](ctx, r.DB, roleGetByIDQuery, id)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByName retrieves a role by its normalized name.
func (r *RoleRepo) GetByName(ctx context.Context, name string) (*model.RoleRecord, error) {
	out, err := queryOne[model.RoleRecord](ctx, r.DB, roleGetByNameQuery,
		strings.ToLower(strings.TrimSpace(name)))
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves a page of roles plus the total matching count.
func (r *RoleRepo) List(ctx context.Context, opts model.RolesListOptions) (model.Page[model.RoleRecord], error) {
	limit, offset := normalizeLimitOffset(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(roleColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("name", database.ILike, "%"+strings.TrimSpace(*opts.Search)+"%"),
		))
	}

	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"name":       "name",
		"created_at": "created_at",
	}, "name")
	if sortCol == "name" && opts.Dir == "" {
		sortDir = sortDirAsc
	}
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	page, err := listPage[model.RoleRecord](ctx, r.DB,
		database.NewListQueryOptions("roles", queryOpts...))
	if err != nil {
		return model.Page[model.RoleRecord]{}, apperrors.MapDBError(err)
	}
	return page, nil
}

// Update updates a role's description and permissions. The name is
// immutable once created; authorization checks depend on it.
func (r *RoleRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateRoleRequest,
) (*model.RoleRecord, error) {
	setParts := make([]string, 0, 3)
	args := make([]any, 0, 3)
	nextIdx := func() int { return len(args) + 1 }

	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
		args = append(args, *req.Description)
	}
	if req.Permissions != nil {
		setParts = append(setParts, fmt.Sprintf("permissions = $%d", nextIdx()))
		args = append(args, req.Permissions)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE roles SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + roleColumnList

	out, err := queryOne[model.RoleRecord](ctx, r.DB, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete deletes a role by ID.
func (r *RoleRepo) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := execRowsAffected(ctx, r.DB, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
