package data

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	apperrors "github.com/corpintra/portal-ui-api/internal/errors"
	"github.com/corpintra/portal-ui-api/internal/testutil"
)

func testAccount(userName string) model.Account {
	return model.Account{
		UserName:     userName,
		Email:        userName + "@example.com",
		PasswordHash: "$2a$10$notarealhashnotarealhashnotarealhashnotarealha",
		Roles:        []string{"user"},
	}
}

func TestAccountRepo_CreateAndFind(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)

		userName := fmt.Sprintf("user-%d", time.Now().UnixNano())
		created, err := repo.Create(ctx, testAccount(userName))
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.False(t, created.Disabled)
		assert.Nil(t, created.LastSignIn)

		// lookup is case-insensitive
		found, err := repo.FindByUserName(ctx, "USER-"+userName[len("user-"):])
		require.NoError(t, err)
		assert.Equal(t, created.ID, found.ID)
		assert.Equal(t, []string{"user"}, found.Roles)

		byID, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, userName, byID.UserName)

		_, err = repo.FindByUserName(ctx, "nobody-here")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestAccountRepo_DuplicateUserName(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)

		userName := fmt.Sprintf("dup-%d", time.Now().UnixNano())
		_, err := repo.Create(ctx, testAccount(userName))
		require.NoError(t, err)

		_, err = repo.Create(ctx, testAccount(userName))
		require.Error(t, err)
		assert.True(t, apperrors.IsConflict(err))
	})
}

func TestAccountRepo_UpdatePasswordAndDisable(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)

		created, err := repo.Create(ctx, testAccount(fmt.Sprintf("upd-%d", time.Now().UnixNano())))
		require.NoError(t, err)

		require.NoError(t, repo.UpdatePassword(ctx, created.ID, "$2a$10$replacementhashreplacementhashreplacementhashre"))
		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.NotEqual(t, created.PasswordHash, found.PasswordHash)

		require.NoError(t, repo.SetDisabled(ctx, created.ID, true))
		found, err = repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.True(t, found.Disabled)

		// unknown ids surface not found
		err = repo.UpdatePassword(ctx, uuid.NewString(), "hash")
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))

		err = repo.SetDisabled(ctx, uuid.NewString(), true)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestAccountRepo_TouchSignIn(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)

		created, err := repo.Create(ctx, testAccount(fmt.Sprintf("tsi-%d", time.Now().UnixNano())))
		require.NoError(t, err)

		require.NoError(t, repo.TouchSignIn(ctx, created.ID))

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		require.NotNil(t, found.LastSignIn)
		assert.WithinDuration(t, time.Now(), *found.LastSignIn, 5*time.Second)
	})
}

func TestAccountRepo_EmployeeLinkNullsOnDelete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewAccountRepo(db)
		employees := NewEmployeeRepo(db)

		emp := createTestEmployee(t, db, fmt.Sprintf("ACC-%d", time.Now().UnixNano()))
		acc := testAccount(fmt.Sprintf("link-%d", time.Now().UnixNano()))
		acc.EmployeeID = &emp.ID

		created, err := repo.Create(ctx, acc)
		require.NoError(t, err)
		require.NotNil(t, created.EmployeeID)

		deleted, err := employees.Delete(ctx, emp.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		found, err := repo.FindByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Nil(t, found.EmployeeID)
	})
}
