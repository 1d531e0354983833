package data

import (
	"context"
	"database/sql"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	"github.com/corpintra/portal-ui-api/internal/testutil"
)

func TestGalleryRepo_ImageCountTracksAddAndRemove(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewGalleryRepo(db)

		g, err := repo.Create(ctx, testutil.GalleryRequest(uuid.NewString()))
		require.NoError(t, err)
		assert.Zero(t, g.ImageCount)

		require.NoError(t, repo.AddImage(ctx, g.ID, "/media/a.jpg", "first"))
		require.NoError(t, repo.AddImage(ctx, g.ID, "/media/b.jpg", ""))

		got, err := repo.GetByID(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, got.ImageCount)

		removed, err := repo.RemoveImage(ctx, g.ID, "/media/a.jpg")
		require.NoError(t, err)
		assert.True(t, removed)

		// removing an unknown path reports false and leaves the count alone
		removed, err = repo.RemoveImage(ctx, g.ID, "/media/missing.jpg")
		require.NoError(t, err)
		assert.False(t, removed)

		got, err = repo.GetByID(ctx, g.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.ImageCount)
	})
}

func TestGalleryRepo_DeleteCascadesImages(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewGalleryRepo(db)

		g, err := repo.Create(ctx, testutil.GalleryRequest(uuid.NewString()))
		require.NoError(t, err)
		require.NoError(t, repo.AddImage(ctx, g.ID, "/media/a.jpg", ""))

		deleted, err := repo.Delete(ctx, g.ID)
		require.NoError(t, err)
		assert.True(t, deleted)

		var count int
		err = db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM gallery_images WHERE gallery_id = $1", g.ID).Scan(&count)
		require.NoError(t, err)
		assert.Zero(t, count)
	})
}

func TestGalleryRepo_ListSearch(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewGalleryRepo(db)
		creator := uuid.NewString()

		summer := testutil.GalleryRequest(creator)
		summer.Title = "Summer Offsite"
		_, err := repo.Create(ctx, summer)
		require.NoError(t, err)

		winter := testutil.GalleryRequest(creator)
		winter.Title = "Winter Party"
		_, err = repo.Create(ctx, winter)
		require.NoError(t, err)

		search := "summer"
		page, err := repo.List(ctx, model.GalleriesListOptions{Limit: 10, Search: &search})
		require.NoError(t, err)
		assert.Equal(t, 1, page.TotalItems)
		require.Len(t, page.Items, 1)
		assert.Equal(t, "Summer Offsite", page.Items[0].Title)
	})
}
