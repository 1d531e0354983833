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

// EmployeeRepo provides database operations for the employee directory.
type EmployeeRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewEmployeeRepo creates a new EmployeeRepo with the real clock.
func NewEmployeeRepo(db *sql.DB) *EmployeeRepo {
	return &EmployeeRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewEmployeeRepoWithTimeProvider creates an EmployeeRepo with a custom clock (useful for tests).
func NewEmployeeRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *EmployeeRepo {
	return &EmployeeRepo{DB: db, timeProvider: tp}
}

const (
	employeeColumnList = `id, code, full_name, email, phone, avatar, department_id, position, status, joined_at, created_at, updated_at`

	employeeGetByIDQuery = `
		SELECT ` + employeeColumnList + `
		FROM employees
		WHERE id = $1`

	employeeGetByCodeQuery = `
		SELECT ` + employeeColumnList + `
		FROM employees
		WHERE code = $1`
)

func employeeColumns() []string {
	return []string{
		"id", "code", "full_name", "email", "phone", "avatar",
		"department_id", "position", "status", "joined_at",
		"created_at", "updated_at",
	}
}

// Create inserts a new employee.
func (r *EmployeeRepo) Create(ctx context.Context, req *model.CreateEmployeeRequest) (*model.Employee, error) {
	if req == nil {
		return nil, errors.New("create employee request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	status := model.EmployeeStatusActive
	if req.Status != "" {
		status, _ = model.ParseEmployeeStatus(req.Status)
	}

	now := r.timeProvider.Now().UTC()
	out, err := queryOne[model.Employee](ctx, r.DB, `
		INSERT INTO employees (
			code, full_name, email, phone, avatar, department_id, position, status, joined_at, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $10
		) RETURNING `+employeeColumnList,
		strings.TrimSpace(req.Code),
		strings.TrimSpace(req.FullName),
		strings.TrimSpace(req.Email),
		req.Phone,
		req.Avatar,
		req.DepartmentID,
		req.Position,
		status,
		req.JoinedAt,
		now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves an employee by ID.
func (r *EmployeeRepo) GetByID(ctx context.Context, id string) (*model.Employee, error) {
	out, err := queryOne[model.Employee](ctx, r.DB, employeeGetByIDQuery, id)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// FindByID satisfies the credentials adapter's employee lookup.
func (r *EmployeeRepo) FindByID(ctx context.Context, id string) (model.Employee, error) {
	out, err := r.GetByID(ctx, id)
	if err != nil {
		return model.Employee{}, err
	}
	return *out, nil
}

// GetByCode retrieves an employee by directory code.
func (r *EmployeeRepo) GetByCode(ctx context.Context, code string) (*model.Employee, error) {
	out, err := queryOne[model.Employee](ctx, r.DB, employeeGetByCodeQuery, code)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves a page of employees plus the total matching count.
func (r *EmployeeRepo) List(ctx context.Context, opts model.EmployeesListOptions) (model.Page[model.Employee], error) {
	page, err := listPage[model.Employee](ctx, r.DB, r.buildListOptions(opts))
	if err != nil {
		return model.Page[model.Employee]{}, apperrors.MapDBError(err)
	}
	return page, nil
}

func (r *EmployeeRepo) buildListOptions(opts model.EmployeesListOptions) *database.ListQueryOptions {
	limit, offset := normalizeLimitOffset(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(employeeColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Keyword != nil && strings.TrimSpace(*opts.Keyword) != "" {
		kw := "%" + strings.TrimSpace(*opts.Keyword) + "%"
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereRawCond("(full_name ILIKE $1 OR code ILIKE $1)", kw),
		))
	}
	if opts.DepartmentID != nil && strings.TrimSpace(*opts.DepartmentID) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("department_id", database.Equal, strings.TrimSpace(*opts.DepartmentID)),
		))
	}
	if opts.Status != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("status", database.Equal, string(*opts.Status)),
		))
	}

	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"full_name":  "full_name",
		"code":       "code",
		"joined_at":  "joined_at",
		"created_at": "created_at",
	}, "full_name")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	return database.NewListQueryOptions("employees", queryOpts...)
}

// Update updates fields of an employee. Nil fields are left unchanged.
func (r *EmployeeRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateEmployeeRequest,
) (*model.Employee, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setClause, args := r.buildUpdateClause(req)
	if setClause == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := "UPDATE employees SET " + setClause +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + employeeColumnList

	out, err := queryOne[model.Employee](ctx, r.DB, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

func (r *EmployeeRepo) buildUpdateClause(req model.UpdateEmployeeRequest) (string, []any) {
	setParts := make([]string, 0, 9)
	args := make([]any, 0, 9)
	nextIdx := func() int { return len(args) + 1 }

	if req.FullName != nil {
		setParts = append(setParts, fmt.Sprintf("full_name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.FullName))
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Email))
	}
	if req.Phone != nil {
		setParts = append(setParts, fmt.Sprintf("phone = $%d", nextIdx()))
		args = append(args, *req.Phone)
	}
	if req.Avatar != nil {
		setParts = append(setParts, fmt.Sprintf("avatar = $%d", nextIdx()))
		args = append(args, *req.Avatar)
	}
	if req.DepartmentID != nil {
		if strings.TrimSpace(*req.DepartmentID) == "" {
			setParts = append(setParts, "department_id = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("department_id = $%d", nextIdx()))
			args = append(args, *req.DepartmentID)
		}
	}
	if req.Position != nil {
		setParts = append(setParts, fmt.Sprintf("position = $%d", nextIdx()))
		args = append(args, *req.Position)
	}
	if req.Status != nil {
		status, _ := model.ParseEmployeeStatus(*req.Status)
		setParts = append(setParts, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, string(status))
	}
	if req.JoinedAt != nil {
		setParts = append(setParts, fmt.Sprintf("joined_at = $%d", nextIdx()))
		args = append(args, *req.JoinedAt)
	}

	if len(setParts) == 0 {
		return "", nil
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// Delete deletes an employee by ID.
func (r *EmployeeRepo) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := execRowsAffected(ctx, r.DB, `DELETE FROM employees WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
