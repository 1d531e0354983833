package data

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/corpintra/portal-ui-api/internal/data/database"
	"github.com/corpintra/portal-ui-api/internal/data/pgxutil"
	"github.com/corpintra/portal-ui-api/internal/domain/model"
	apperrors "github.com/corpintra/portal-ui-api/internal/errors"
)

// GalleryRepo provides database operations for photo galleries.
// image_count is denormalized onto the gallery row and maintained by
// AddImage/RemoveImage.
type GalleryRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewGalleryRepo creates a new GalleryRepo with the real clock.
func NewGalleryRepo(db *sql.DB) *GalleryRepo {
	return &GalleryRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewGalleryRepoWithTimeProvider creates a GalleryRepo with a custom clock.
func NewGalleryRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *GalleryRepo {
	return &GalleryRepo{DB: db, timeProvider: tp}
}

const (
	galleryColumnList = `id, title, description, cover_image, image_count, created_by, created_at, updated_at`

	galleryGetByIDQuery = `
		SELECT ` + galleryColumnList + `
		FROM galleries
		WHERE id = $1`
)

func galleryColumns() []string {
	return []string{
		"id", "title", "description", "cover_image", "image_count",
		"created_by", "created_at", "updated_at",
	}
}

// Create inserts a gallery.
func (r *GalleryRepo) Create(ctx context.Context, req *model.CreateGalleryRequest) (*model.Gallery, error) {
	if req == nil {
		return nil, errors.New("create gallery request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	out, err := queryOne[model.Gallery](ctx, r.DB, `
		INSERT INTO galleries (
			title, description, cover_image, image_count, created_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, 0, $4, $5, $5
		) RETURNING `+galleryColumnList,
		strings.TrimSpace(req.Title),
		req.Description,
		req.CoverImage,
		req.CreatedBy,
		now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a gallery by ID.
func (r *GalleryRepo) GetByID(ctx context.Context, id string) (*model.Gallery, error) {
	out, err := queryOne[model.Gallery](ctx, r.DB, galleryGetByIDQuery, id)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves a page of galleries plus the total matching count.
func (r *GalleryRepo) List(ctx context.Context, opts model.GalleriesListOptions) (model.Page[model.Gallery], error) {
	limit, offset := normalizeLimitOffset(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(galleryColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Search != nil && strings.TrimSpace(*opts.Search) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("title", database.ILike, "%"+strings.TrimSpace(*opts.Search)+"%"),
		))
	}

	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"title":       "title",
		"image_count": "image_count",
		"created_at":  "created_at",
	}, "created_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	page, err := listPage[model.Gallery](ctx, r.DB,
		database.NewListQueryOptions("galleries", queryOpts...))
	if err != nil {
		return model.Page[model.Gallery]{}, apperrors.MapDBError(err)
	}
	return page, nil
}

// Update updates fields of a gallery. Nil fields are left unchanged.
func (r *GalleryRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateGalleryRequest,
) (*model.Gallery, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 4)
	args := make([]any, 0, 4)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.Description != nil {
		setParts = append(setParts, fmt.Sprintf("description = $%d", nextIdx()))
		args = append(args, *req.Description)
	}
	if req.CoverImage != nil {
		setParts = append(setParts, fmt.Sprintf("cover_image = $%d", nextIdx()))
		args = append(args, *req.CoverImage)
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE galleries SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + galleryColumnList

	out, err := queryOne[model.Gallery](ctx, r.DB, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// AddImage records an image in a gallery and bumps the denormalized
// count, atomically.
func (r *GalleryRepo) AddImage(ctx context.Context, galleryID, imagePath, caption string) error {
	now := r.timeProvider.Now().UTC()
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `
			INSERT INTO gallery_images (gallery_id, image_path, caption, created_at)
			VALUES ($1, $2, $3, $4)`,
			galleryID, imagePath, caption, now); err != nil {
			return err
		}
		_, err := tx.Exec(ctx, `
			UPDATE galleries SET image_count = image_count + 1, updated_at = $1 WHERE id = $2`,
			now, galleryID)
		return err
	}})
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// RemoveImage deletes an image and decrements the count when the image
// existed.
func (r *GalleryRepo) RemoveImage(ctx context.Context, galleryID, imagePath string) (bool, error) {
	now := r.timeProvider.Now().UTC()
	removed := false
	err := pgxutil.WithPgxTx(ctx, r.DB, pgxutil.TxConfig{Fn: func(tx pgx.Tx) error {
		ct, err := tx.Exec(ctx, `
			DELETE FROM gallery_images WHERE gallery_id = $1 AND image_path = $2`,
			galleryID, imagePath)
		if err != nil {
			return err
		}
		if ct.RowsAffected() == 0 {
			return nil
		}
		removed = true
		_, err = tx.Exec(ctx, `
			UPDATE galleries
			SET image_count = GREATEST(image_count - 1, 0), updated_at = $1
			WHERE id = $2`,
			now, galleryID)
		return err
	}})
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return removed, nil
}

// Delete deletes a gallery by ID. Images go with it via FK cascade.
func (r *GalleryRepo) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := execRowsAffected(ctx, r.DB, `DELETE FROM galleries WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
