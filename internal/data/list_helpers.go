package data

import (
	"context"
	"database/sql"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/corpintra/portal-ui-api/internal/data/database"
	"github.com/corpintra/portal-ui-api/internal/data/pgxutil"
	"github.com/corpintra/portal-ui-api/internal/domain/model"
)

const (
	sortDirAsc  = "ASC"
	sortDirDesc = "DESC"

	defaultListLimit = 50
)

// queryRows runs a query and collects every row into T by column name.
func queryRows[T any](ctx context.Context, db *sql.DB, query string, args ...any) ([]T, error) {
	var out []T
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectRows(rows, pgx.RowToStructByName[T])
		return err
	})
	return out, err
}

// queryOne runs a query expected to yield exactly one row.
func queryOne[T any](ctx context.Context, db *sql.DB, query string, args ...any) (T, error) {
	var out T
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		rows, err := conn.Query(ctx, query, args...)
		if err != nil {
			return err
		}
		defer rows.Close()
		out, err = pgx.CollectOneRow(rows, pgx.RowToStructByName[T])
		return err
	})
	return out, err
}

// queryCount runs a COUNT(*) query.
func queryCount(ctx context.Context, db *sql.DB, query string, args ...any) (int, error) {
	var count int
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		return conn.QueryRow(ctx, query, args...).Scan(&count)
	})
	return count, err
}

// listPage runs the list query and its matching COUNT(*) so items and
// total come from the same WHERE clause.
func listPage[T any](
	ctx context.Context,
	db *sql.DB,
	opts *database.ListQueryOptions,
) (model.Page[T], error) {
	query, args := database.BuildListQuery(opts)
	items, err := queryRows[T](ctx, db, query, args...)
	if err != nil {
		return model.Page[T]{}, err
	}

	countQuery, countArgs := database.BuildListQuery(database.CountOptions(opts))
	total, err := queryCount(ctx, db, countQuery, countArgs...)
	if err != nil {
		return model.Page[T]{}, err
	}

	return model.NewPage(items, total), nil
}

// execRowsAffected runs a statement and reports how many rows it touched.
func execRowsAffected(ctx context.Context, db *sql.DB, query string, args ...any) (int64, error) {
	var affected int64
	err := pgxutil.WithPgxConn(ctx, db, func(conn *pgx.Conn) error {
		ct, err := conn.Exec(ctx, query, args...)
		if err != nil {
			return err
		}
		affected = ct.RowsAffected()
		return nil
	})
	return affected, err
}

// validateSort returns a safe sort column and direction: the column is
// looked up in the allow-list, anything else falls back to def.
func validateSort(sort, dir string, allowed map[string]string, def string) (string, string) {
	sortCol := def
	sortDir := sortDirDesc

	if sort != "" {
		if col, ok := allowed[strings.ToLower(strings.TrimSpace(sort))]; ok {
			sortCol = col
		}
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		sortDir = sortDirAsc
	case "desc":
		sortDir = sortDirDesc
	}
	return sortCol, sortDir
}

// normalizeLimitOffset clamps paging values to usable bounds.
func normalizeLimitOffset(limit, offset int) (int, int) {
	if limit <= 0 {
		limit = defaultListLimit
	}
	return limit, max(offset, 0)
}
