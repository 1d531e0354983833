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

// DocumentRepo provides database operations for document metadata.
type DocumentRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewDocumentRepo creates a new DocumentRepo with the real clock.
func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewDocumentRepoWithTimeProvider creates a DocumentRepo with a custom clock.
func NewDocumentRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *DocumentRepo {
	return &DocumentRepo{DB: db, timeProvider: tp}
}

const (
	documentColumnList = `id, title, category_id, file_name, content_type, size_bytes, storage_path, uploaded_by, created_at, updated_at`

	documentGetByIDQuery = `
		SELECT ` + documentColumnList + `
		FROM documents
		WHERE id = $1`
)

func documentColumns() []string {
	return []string{
		"id", "title", "category_id", "file_name", "content_type",
		"size_bytes", "storage_path", "uploaded_by", "created_at", "updated_at",
	}
}

// Create registers a document's metadata.
func (r *DocumentRepo) Create(ctx context.Context, req *model.CreateDocumentRequest) (*model.Document, error) {
	if req == nil {
		return nil, errors.New("create document request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	now := r.timeProvider.Now().UTC()
	out, err := queryOne[model.Document](ctx, r.DB, `
		INSERT INTO documents (
			title, category_id, file_name, content_type, size_bytes, storage_path, uploaded_by, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $8
		) RETURNING `+documentColumnList,
		strings.TrimSpace(req.Title),
		req.CategoryID,
		strings.TrimSpace(req.FileName),
		req.ContentType,
		req.SizeBytes,
		req.StoragePath,
		req.UploadedBy,
		now,
	)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// GetByID retrieves a document by ID.
func (r *DocumentRepo) GetByID(ctx context.Context, id string) (*model.Document, error) {
	out, err := queryOne[model.Document](ctx, r.DB, documentGetByIDQuery, id)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// List retrieves a page of documents plus the total matching count.
func (r *DocumentRepo) List(ctx context.Context, opts model.DocumentsListOptions) (model.Page[model.Document], error) {
	limit, offset := normalizeLimitOffset(opts.Limit, opts.Offset)

	queryOpts := []database.ListQueryOption{
		database.WithColumns(documentColumns()...),
		database.WithLimit(limit),
		database.WithOffset(offset),
	}

	if opts.Keyword != nil && strings.TrimSpace(*opts.Keyword) != "" {
		kw := "%" + strings.TrimSpace(*opts.Keyword) + "%"
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereRawCond("(title ILIKE $1 OR file_name ILIKE $1)", kw),
		))
	}
	if opts.CategoryID != nil && strings.TrimSpace(*opts.CategoryID) != "" {
		queryOpts = append(queryOpts, database.WithCondition(
			database.WhereCond("category_id", database.Equal, strings.TrimSpace(*opts.CategoryID)),
		))
	}

	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"title":      "title",
		"file_name":  "file_name",
		"size_bytes": "size_bytes",
		"created_at": "created_at",
	}, "created_at")
	queryOpts = append(queryOpts, database.WithOrderBy(sortCol, sortDir))

	page, err := listPage[model.Document](ctx, r.DB,
		database.NewListQueryOptions("documents", queryOpts...))
	if err != nil {
		return model.Page[model.Document]{}, apperrors.MapDBError(err)
	}
	return page, nil
}

// Update updates a document's metadata. Nil fields are left unchanged.
func (r *DocumentRepo) Update(
	ctx context.Context,
	id string,
	req model.UpdateDocumentRequest,
) (*model.Document, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setParts := make([]string, 0, 3)
	args := make([]any, 0, 3)
	nextIdx := func() int { return len(args) + 1 }

	if req.Title != nil {
		setParts = append(setParts, fmt.Sprintf("title = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Title))
	}
	if req.CategoryID != nil {
		if strings.TrimSpace(*req.CategoryID) == "" {
			setParts = append(setParts, "category_id = NULL")
		} else {
			setParts = append(setParts, fmt.Sprintf("category_id = $%d", nextIdx()))
			args = append(args, *req.CategoryID)
		}
	}

	if len(setParts) == 0 {
		return r.GetByID(ctx, id)
	}

	setParts = append(setParts, fmt.Sprintf("updated_at = $%d", nextIdx()))
	args = append(args, r.timeProvider.Now().UTC())

	args = append(args, id)
	query := "UPDATE documents SET " + strings.Join(setParts, ", ") +
		" WHERE id = $" + strconv.Itoa(len(args)) +
		" RETURNING " + documentColumnList

	out, err := queryOne[model.Document](ctx, r.DB, query, args...)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// Delete removes a document's metadata row. The stored file is cleaned
// up out of band.
func (r *DocumentRepo) Delete(ctx context.Context, id string) (bool, error) {
	affected, err := execRowsAffected(ctx, r.DB, `DELETE FROM documents WHERE id = $1`, id)
	if err != nil {
		return false, apperrors.MapDBError(err)
	}
	return affected > 0, nil
}
