package errors

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMapDBError_Nil(t *testing.T) {
	t.Parallel()
	assert.NoError(t, MapDBError(nil))
}

func TestMapDBError_NoRows(t *testing.T) {
	t.Parallel()
	err := MapDBError(pgx.ErrNoRows)
	assert.True(t, IsNotFound(err))
}

func TestMapDBError_ContextErrors(t *testing.T) {
	t.Parallel()
	assert.Equal(t, ErrCodeTimeout, GetCode(MapDBError(context.DeadlineExceeded)))
	assert.Equal(t, ErrCodeCanceled, GetCode(MapDBError(context.Canceled)))
}

func TestMapDBError_UniqueViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{
		Code:   pgerrcode.UniqueViolation,
		Detail: `Key (code)=(EMP-001) already exists.`,
	}
	err := MapDBError(pgErr)

	require.True(t, IsConflict(err))
	assert.Equal(t, "code", GetField(err))
}

func TestMapDBError_ForeignKeyStillReferenced(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{
		Code:   pgerrcode.ForeignKeyViolation,
		Detail: `Key (id)=(abc) is still referenced from table "violations".`,
	}
	err := MapDBError(pgErr)

	require.True(t, IsForeignKey(err))
	var appErr *AppError
	require.ErrorAs(t, err, &appErr)
	assert.Contains(t, appErr.Message, "a Violation")
}

func TestMapDBError_NotNullViolation(t *testing.T) {
	t.Parallel()

	pgErr := &pgconn.PgError{
		Code:       pgerrcode.NotNullViolation,
		ColumnName: "full_name",
	}
	err := MapDBError(pgErr)

	require.True(t, IsValidation(err))
	assert.Equal(t, "full_name", GetField(err))
}

func TestMapDBError_Passthrough(t *testing.T) {
	t.Parallel()

	plain := errors.New("not a db error")
	assert.Equal(t, plain, MapDBError(plain))
}
