package data

import (
	"context"
	"database/sql"

	"github.com/corpintra/portal-ui-api/internal/migrate"
)

// RunMigrations applies the portal schema by delegating to the migrate package.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	return migrate.Run(ctx, db)
}
