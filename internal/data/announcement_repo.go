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

// AnnouncementRepo provides database operations for announcements.
type AnnouncementRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAnnouncementRepo creates a new AnnouncementRepo with the real clock.
func NewAnnouncementRepo(db *sql.DB) *AnnouncementRepo {
	return &AnnouncementRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewAnnouncementRepoWithTimeProvider creates an AnnouncementRepo with a custom clock.
func NewAnnouncementRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AnnouncementRepo {
	return &AnnouncementRepo{DB: db, timeProvider: tp}
}

const (
	announcementColumnList = `id, title, body, audience, pinned, published_at, author_id, created_at, updated_at`

	announcementGetByIDQuery = `
		SELECT ` + announcementColumnList + `
		FROM announcements
		WHERE id = $1`
)

func announcementColumns() []string {
	return []string{
		"id", "title", "body", "audience", "pinned", "published_at",
		"author_id", "created_at", "updated_at",
	}
}

// Create inserts an announcement. It is published immediately.
func (r *AnnouncementRepo) Create(
	ctx context.Context,
	req *model.CreateAnnouncementRequest,
) (*model.Announcement, error) {
	if req == nil {
		return nil, errors.New("create announcement request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	audience := req.Audience
	if audience == "" {
		audience = model.AudienceAll
	}

	now := r.timeProvider.Now().UTC()
	out, err := queryOne[model.Announcement](ctx, r.DB, `
		INSERT INTO announcements (
			title, body, audience, pinned, published_at, author_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $5, $5
		) RETURNING `+announcementColumnList,
		strings.TrimSpace(req.Title),
		req.Body,
		audience,
		req.Pinned,
		now,
		req.AuthorID,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves an announcement by ID.
func (r *AnnouncementRepo) GetByID(ctx context.Context, id string) (*model.Announcement, error) {
	out, err := queryOne[model.Announcement](ctx, r.DB, announcementGetByIDQuery, id)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves a page of announcements plus the total matching count.
// Pinned notices sort above the rest regardless of the sort column.
func (r *AnnouncementRepo) List(
	ctx context.Context,
	opts model.AnnouncementsListOptions,
) (model.Page[model.Announcement], error) {
	limit, offset := normalizeLimitOffset(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(announcementColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("title", database.ILike, "%"+strings.TrimSpace(*opts.Search)+"%"),
		))
	}
	if opts.Audience != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("audience", database.Equal, string(*opts.Audience)),
		))
	}

	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"title":        "title",
		"published_at": "published_at",
		"created_at":   "created_at",
	}, "published_at")
	queryOpts = append(queryOpts,
		database.WithOrderBy("pinned", sortDirDesc),
		database.WithOrderBy(sortCol, sortDir),
	)

	page, err := listPage[model.Announcement](ctx, r.DB,
		database.NewListQueryOptions("announcements", queryOpts...))
	if err != nil {
		return model.Page[model.Announcement]{}, apperrors.MapDBError(err)
	}
	return page, nil
}

// Update updates fields of an announcement. Nil fields are left unchanged.
func (r *AnnouncementRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateAnnouncementRequest,
) (*model.Announcement, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setClause, args := r.buildUpdateClause(req)
	if setClause == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := "UPDATE announcements SET " + setClause +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + announcementColumnList

	out, err := queryOne[model.Announcement](ctx, r.DB, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

func (r *AnnouncementRepo) buildUpdateClause(req model.UpdateAnnouncementRequest) (string, []any) {
	setParts := make([]string, 0, 5)
	args := make([]any, 0, 5)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.Body != nil {
		setParts = append(setParts, fmt.Sprintf("body = $%d", nextIdx()))
		args = append(args, *req.Body)
	}
	if req.Audience != nil {
		setParts = append(setParts, fmt.Sprintf("audience = $%d", nextIdx()))
		args = append(args, string(*req.Audience))
	}
	if req.Pinned != nil {
		setParts = append(setParts, fmt.Sprintf("pinned = $%d", nextIdx()))
		args = append(args, *req.Pinned)
	}

	if len(setParts) == 0 {
		return "", nil
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	return strings.Join(setParts, ", "), args
}

// Delete deletes an announcement by ID.
func (r *AnnouncementRepo) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := execRowsAffected(ctx, r.DB, `DELETE FROM announcements WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
