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

// ScheduleRepo provides database operations for work schedules.
type ScheduleRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewScheduleRepo creates a new ScheduleRepo with the real clock.
func NewScheduleRepo(db *sql.DB) *ScheduleRepo {
	return &ScheduleRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewScheduleRepoWithTimeProvider creates a ScheduleRepo with a custom clock.
func NewScheduleRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *ScheduleRepo {
	return &ScheduleRepo{DB: db, timeProvider: tp}
}

const (
	scheduleColumnList = `id, employee_id, title, location, starts_at, ends_at, note, created_at, updated_at`

	scheduleGetByIDQuery = `
		SELECT ` + scheduleColumnList + `
		FROM schedules
		WHERE id = $1`
)

func scheduleColumns() []string {
	return []string{
		"id", "employee_id", "title", "location", "starts_at", "ends_at",
		"note", "created_at", "updated_at",
	}
}

// Create inserts a schedule entry.
func (r *ScheduleRepo) Create(ctx context.Context, req *model.CreateScheduleRequest) (*model.Schedule, error) {
	if req == nil {
		return nil, errors.New("create schedule request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	out, err := queryOne[model.Schedule](ctx, r.DB, `
		INSERT INTO schedules (
			employee_id, title, location, starts_at, ends_at, note, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $7
		) RETURNING `+scheduleColumnList,
		req.EmployeeID,
		strings.TrimSpace(req.Title),
		req.Location,
		req.StartsAt.UTC(),
		req.EndsAt.UTC(),
		req.Note,
		now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a schedule entry by ID.
func (r *ScheduleRepo) GetByID(ctx context.Context, id string) (*model.Schedule, error) {
	out, err := queryOne[model.Schedule](ctx, r.DB, scheduleGetByIDQuery, id)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves a page of schedule entries plus the total matching
// count. WeekStart bounds entries to [WeekStart, WeekStart+7d).
func (r *ScheduleRepo) List(ctx context.Context, opts model.SchedulesListOptions) (model.Page[model.Schedule], error) {
	limit, offset := normalizeLimitOffset(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(scheduleColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.EmployeeID != nil && strings.TrimSpace(*opts.EmployeeID) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("employee_id", database.Equal, strings.TrimSpace(*opts.EmployeeID)),
		))
	}
	if opts.WeekStart != nil {
		weekStart := opts.WeekStart.UTC()
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereRawCond("starts_at >= $1 AND starts_at < $2",
				weekStart, weekStart.AddDate(0, 0, 7)),
		))
	}

	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"starts_at":  "starts_at",
		"ends_at":    "ends_at",
		"title":      "title",
		"created_at": "created_at",
	}, "starts_at")
	if sortCol == "starts_at" && opts.Sort == "" {
		// Default view reads top-to-bottom through the week.
		sortDir = sortDirAsc
	}
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	page, err := listPage[model.Schedule](ctx, r.DB,
		database.NewListQueryOptions("schedules", queryOpts...))
	if err != nil {
		return model.Page[model.Schedule]{}, apperrors.MapDBError(err)
	}
	return page, nil
}

// Update updates fields of a schedule entry. Nil fields are left unchanged.
func (r *ScheduleRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateScheduleRequest,
) (*model.Schedule, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 6)
	args := make([]any, 0, 6)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.Location != nil {
		setParts = append(setParts, fmt.Sprintf("location = $%d", nextIdx()))
		args = append(args, *req.Location)
	}
	if req.StartsAt != nil {
		setParts = append(setParts, fmt.Sprintf("starts_at = $%d", nextIdx()))
		args = append(args, req.StartsAt.UTC())
	}
	if req.EndsAt != nil {
		setParts = append(setParts, fmt.Sprintf("ends_at = $%d", nextIdx()))
		args = append(args, req.EndsAt.UTC())
	}
	if req.Note != nil {
		setParts = append(setParts, fmt.Sprintf("note = $%d", nextIdx()))
		args = append(args, *req.Note)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE schedules SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + scheduleColumnList

	out, err := queryOne[model.Schedule](ctx, r.DB, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete deletes a schedule entry by ID.
func (r *ScheduleRepo) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := execRowsAffected(ctx, r.DB, `DELETE FROM schedules WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
