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

func TestViolationRepo_CreateAndOutstandingPoints(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewViolationRepo(db)
		emp := createTestEmployee(t, db, fmt.Sprintf("VIO-%d", time.Now().UnixNano()))
		reporter := uuid.NewString()

		first := testutil.ViolationRequest(emp.ID, reporter, time.Now().UTC().AddDate(0, 0, -7))
		created, err := repo.Create(ctx, first)
		require.NoError(t, err)
		require.NotEmpty(t, created.ID)
		assert.False(t, created.Resolved)

		second := testutil.ViolationRequest(emp.ID, reporter, time.Now().UTC().AddDate(0, 0, -1))
		second.Severity = string(model.SeverityMajor)
		second.Reason = "Unauthorized absence"
		second.Points = 3
		_, err = repo.Create(ctx, second)
		require.NoError(t, err)

		points, err := repo.OutstandingPoints(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, points)

		// resolving a violation removes its points from the sum
		resolved := true
		_, err = repo.Update(ctx, created.ID, model.UpdateViolationRequest{Resolved: &resolved})
		require.NoError(t, err)

		points, err = repo.OutstandingPoints(ctx, emp.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, points)

		// unknown employee sums to zero
		points, err = repo.OutstandingPoints(ctx, uuid.NewString())
		require.NoError(t, err)
		assert.Zero(t, points)
	})
}

func TestViolationRepo_ListFilters(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewViolationRepo(db)
		emp := createTestEmployee(t, db, fmt.Sprintf("VLF-%d", time.Now().UnixNano()))
		other := createTestEmployee(t, db, fmt.Sprintf("VLO-%d", time.Now().UnixNano()))
		reporter := uuid.NewString()

		old := testutil.ViolationRequest(emp.ID, reporter, time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC))
		_, err := repo.Create(ctx, old)
		require.NoError(t, err)

		recent := testutil.ViolationRequest(emp.ID, reporter, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC))
		recent.Severity = string(model.SeverityCritical)
		_, err = repo.Create(ctx, recent)
		require.NoError(t, err)

		_, err = repo.Create(ctx, testutil.ViolationRequest(other.ID, reporter, time.Date(2024, 6, 20, 0, 0, 0, 0, time.UTC)))
		require.NoError(t, err)

		// by employee
		page, err := repo.List(ctx, model.ViolationsListOptions{Limit: 10, EmployeeID: &emp.ID})
		require.NoError(t, err)
		assert.Equal(t, 2, page.TotalItems)

		// by severity
		sev := model.SeverityCritical
		page, err = repo.List(ctx, model.ViolationsListOptions{Limit: 10, Severity: &sev})
		require.NoError(t, err)
		assert.Equal(t, 1, page.TotalItems)

		// by date window
		from := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
		to := time.Date(2024, 6, 16, 0, 0, 0, 0, time.UTC)
		page, err = repo.List(ctx, model.ViolationsListOptions{Limit: 10, FromDate: &from, ToDate: &to})
		require.NoError(t, err)
		assert.Equal(t, 1, page.TotalItems)
	})
}

func TestViolationRepo_CascadeOnEmployeeDelete(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		ctx := context.Background()
		repo := NewViolationRepo(db)
		employees := NewEmployeeRepo(db)
		emp := createTestEmployee(t, db, fmt.Sprintf("VCD-%d", time.Now().UnixNano()))

		created, err := repo.Create(ctx, testutil.ViolationRequest(emp.ID, uuid.NewString(), time.Now().UTC()))
		require.NoError(t, err)

		deleted, err := employees.Delete(ctx, emp.ID)
		require.NoError(t, err)
		require.True(t, deleted)

		_, err = repo.GetByID(ctx, created.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsNotFound(err))
	})
}

func TestViolationRepo_InvalidSeverity(t *testing.T) {
	testutil.SkipIfNoTestDB(t)

	testutil.WithAutoDB(t, func(db *sql.DB) {
		repo := NewViolationRepo(db)
		req := testutil.ViolationRequest(uuid.NewString(), uuid.NewString(), time.Now().UTC())
		req.Severity = "catastrophic"
		_, err := repo.Create(context.Background(), req)
		require.Error(t, err)
		assert.True(t, apperrors.IsValidation(err))
	})
}
