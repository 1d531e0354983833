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

// NewsRepo provides database operations for news articles.
type NewsRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewNewsRepo creates a new NewsRepo with the real clock.
func NewNewsRepo(db *sql.DB) *NewsRepo {
	return &NewsRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewNewsRepoWithTimeProvider creates a NewsRepo with a custom clock.
func NewNewsRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *NewsRepo {
	return &NewsRepo{DB: db, timeProvider: tp}
}

const (
	newsColumnList = `id, title, slug, summary, body, cover_image, published, published_at, author_id, created_at, updated_at`

	newsGetByIDQuery = `
		SELECT ` + newsColumnList + `
		FROM news
		WHERE id = $1`

	newsGetBySlugQuery = `
		SELECT ` + newsColumnList + `
		FROM news
		WHERE slug = $1`
)

func newsColumns() []string {
	return []string{
		"id", "title", "slug", "summary", "body", "cover_image", "published",
		"published_at", "author_id", "created_at", "updated_at",
	}
}

// Create inserts a news article. published_at is stamped only when the
// article goes out published.
func (r *NewsRepo) Create(ctx context.Context, req *model.CreateNewsRequest) (*model.NewsArticle, error) {
	if req == nil {
		return nil, errors.New("create news request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	var publishedAt any
	if req.Published {
		publishedAt = now
	}

	out, err := queryOne[model.NewsArticle](ctx, r.DB, `
		INSERT INTO news (
			title, slug, summary, body, cover_image, published, published_at, author_id, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $9
		) RETURNING `+newsColumnList,
		strings.TrimSpace(req.Title),
		strings.TrimSpace(req.Slug),
		req.Summary,
		req.Body,
		req.CoverImage,
		req.Published,
		publishedAt,
		req.AuthorID,
		now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves an article by ID.
func (r *NewsRepo) GetByID(ctx context.Context, id string) (*model.NewsArticle, error) {
	out, err := queryOne[model.NewsArticle](ctx, r.DB, newsGetByIDQuery, id)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetBySlug retrieves an article by its URL slug.
func (r *NewsRepo) GetBySlug(ctx context.Context, slug string) (*model.NewsArticle, error) {
	out, err := queryOne[model.NewsArticle](ctx, r.DB, newsGetBySlugQuery, slug)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves a page of articles plus the total matching count.
func (r *NewsRepo) List(ctx context.Context, opts model.NewsListOptions) (model.Page[model.NewsArticle], error) {
	limit, offset := normalizeLimitOffset(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(newsColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("title", database.ILike, "%"+strings.TrimSpace(*opts.Search)+"%"),
		))
	}
	if opts.Published != nil {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("published", database.Equal, *opts.Published),
		))
	}

	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"title":        "title",
		"published_at": "published_at",
		"created_at":   "created_at",
	}, "published_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	page, err := listPage[model.NewsArticle](ctx, r.DB,
		database.NewListQueryOptions("news", queryOpts...))
	if err != nil {
		return model.Page[model.NewsArticle]{}, apperrors.MapDBError(err)
	}
	return page, nil
}

// Update updates fields of an article. Nil fields are left unchanged.
// Flipping Published to true stamps published_at; flipping it off
// clears it.
func (r *NewsRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateNewsRequest,
) (*model.NewsArticle, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 7)
	args := make([]any, 0, 7)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.Summary != nil {
		setParts = append(setParts, fmt.Sprintf("summary = $%d", nextIdx()))
		args = append(args, *req.Summary)
	}
	if req.Body != nil {
		setParts = append(setParts, fmt.Sprintf("body = $%d", nextIdx()))
		args = append(args, *req.Body)
	}
	if req.CoverImage != nil {
		setParts = append(setParts, fmt.Sprintf("cover_image = $%d", nextIdx()))
		args = append(args, *req.CoverImage)
	}
	if req.Published != nil {
		setParts = append(setParts, fmt.Sprintf("published = $%d", nextIdx()))
		args = append(args, *req.Published)
		if *req.Published {
			setParts = append(setParts, fmt.Sprintf("published_at = $%d", nextIdx()))
			args = append(args, r.timeProvider.Now().UTC())
		} else {
			setParts = append(setParts, "published_at = NULL")
		}
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE news SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + newsColumnList

	out, err := queryOne[model.NewsArticle](ctx, r.DB, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete deletes an article by ID.
func (r *NewsRepo) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := execRowsAffected(ctx, r.DB, `DELETE FROM news WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
