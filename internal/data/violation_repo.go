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

// ViolationRepo provides database operations for violation records.
type ViolationRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewViolationRepo creates a new ViolationRepo with the real clock.
func NewViolationRepo(db *sql.DB) *ViolationRepo {
	return &ViolationRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewViolationRepoWithTimeProvider creates a ViolationRepo with a custom clock.
func NewViolationRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ViolationRepo {
	return &ViolationRepo{DB: db, timeProvider: tp}
}

const (
	violationColumnList = `id, employee_id, severity, reason, points, occurred_at, reported_by, resolved, created_at, updated_at`

	violationGetByIDQuery = `
		SELECT ` + violationColumnList + `
		FROM violations
		WHERE id = $1`

	violationPointsQuery = `
		SELECT COALESCE(SUM(points), 0)
		FROM violations
		WHERE employee_id = $1 AND resolved = FALSE`
)

func violationColumns() []string {
	return []string{
		"id", "employee_id", "severity", "reason", "points", "occurred_at",
		"reported_by", "resolved", "created_at", "updated_at",
	}
}

// Create records a violation.
func (r *ViolationRepo) Create(ctx context.Context, req *model.CreateViolationRequest) (*model.Violation, error) {
	if req == nil {
		return nil, errors.New("create violation request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	severity, _ := model.ParseViolationSeverity(req.Severity)

	now := r.timeProvider.Now().UTC()
	out, err := queryOne[model.Violation](ctx, r.DB, `
		INSERT INTO violations (
			employee_id, severity, reason, points, occurred_at, reported_by, resolved, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, FALSE, $7, $7
		) RETURNING `+violationColumnList,
		req.EmployeeID,
		string(severity),
		strings.TrimSpace(req.Reason),
		req.Points,
		req.OccurredAt.UTC(),
		req.ReportedBy,
		now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a violation by ID.
func (r *ViolationRepo) GetByID(ctx context.Context, id string) (*model.Violation, error) {
	out, err := queryOne[model.Violation](ctx, r.DB, violationGetByIDQuery, id)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves a page of violations plus the total matching count.
func (r *ViolationRepo) List(ctx context.Context, opts model.ViolationsListOptions) (model.Page[model.Violation], error) {
	limit, offset := normalizeLimitOffset(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(violationColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.EmployeeID != nil && strings.TrimSpace(*opts.EmployeeID) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("employee_id", database.Equal, strings.TrimSpace(*opts.EmployeeID)),
		))
	}
	if opts.Severity != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("severity", database.Equal, string(*opts.Severity)),
		))
	}
	if opts.FromDate != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("occurred_at", database.GreaterThanOrEqual, opts.FromDate.UTC()),
		))
	}
	if opts.ToDate != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("occurred_at", database.LessThanOrEqual, opts.ToDate.UTC()),
		))
	}

	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"occurred_at": "occurred_at",
		"severity":    "severity",
		"points":      "points",
		"created_at":  "created_at",
	}, "occurred_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	page, err := listPage[model.Violation](ctx, r.DB,
		database.NewListQueryOptions("violations", queryOpts...))
	if err != nil {
		return model.Page[model.Violation]{}, apperrors.MapDBError(err)
	}
	return page, nil
}

// OutstandingPoints sums unresolved violation points for an employee.
func (r *ViolationRepo) OutstandingPoints(ctx context.Context, employeeID string) (int, error) {
	points, err := queryCount(ctx, r.DB, violationPointsQuery, employeeID)
	if err != nil {
		return 0, apperrors.MapDBError(err)
	}
	return points, nil
}

// Update updates fields of a violation. Nil fields are left unchanged.
func (r *ViolationRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateViolationRequest,
) (*model.Violation, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 5)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Severity != nil {
		severity, _ := model.ParseViolationSeverity(*req.Severity)
		setParts = append(setParts, fmt.Sprintf("severity = $%d", nextIdx()))
		args = append(args, string(severity))
	}
	if req.Reason != nil {
		setParts = append(setParts, fmt.Sprintf("reason = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Reason))
	}
	if req.Points != nil {
		setParts = append(setParts, fmt.Sprintf("points = $%d", nextIdx()))
		args = append(args, *req.Points)
	}
	if req.Resolved != nil {
		setParts = append(setParts, fmt.Sprintf("resolved = $%d", nextIdx()))
		args = append(args, *req.Resolved)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE violations SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + violationColumnList

	out, err := queryOne[model.Violation](ctx, r.DB, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete deletes a violation by ID.
func (r *ViolationRepo) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := execRowsAffected(ctx, r.DB, `DELETE FROM violations WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
