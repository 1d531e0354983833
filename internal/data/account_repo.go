package data

import (
	"context"
	"database/sql"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
	apperrors "github.com/corpintra/portal-ui-api/internal/errors"
)

// AccountRepo provides database operations for sign-in accounts. It
// backs the credentials auth provider; nothing else reads the
// password hash.
type AccountRepo struct {
	DB           *sql.DB
	timeProvider TimeProvider
}

// NewAccountRepo creates a new AccountRepo with the real clock.
func NewAccountRepo(db *sql.DB) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: RealTimeProvider{}}
}

// NewAccountRepoWithTimeProvider creates an AccountRepo with a custom clock.
func NewAccountRepoWithTimeProvider(db *sql.DB, tp TimeProvider) *AccountRepo {
	return &AccountRepo{DB: db, timeProvider: tp}
}

const (
	accountColumnList = `id, user_name, email, password_hash, avatar, roles, employee_id, disabled, last_sign_in, created_at, updated_at`

	accountByUserNameQuery = `
		SELECT ` + accountColumnList + `
		FROM accounts
		WHERE lower(user_name) = lower($1)`

	accountByIDQuery = `
		SELECT ` + accountColumnList + `
		FROM accounts
		WHERE id = $1`
)

// FindByUserName retrieves an account by user name, case-insensitively.
func (r *AccountRepo) FindByUserName(ctx context.Context, userName string) (model.Account, error) {
	out, err := queryOne[model.Account](ctx, r.DB, accountByUserNameQuery, userName)
	if err != nil {
		return model.Account{}, apperrors.MapDBError(err)
	}
	return out, nil
}

// FindByID retrieves an account by ID.
func (r *AccountRepo) FindByID(ctx context.Context, id string) (model.Account, error) {
	out, err := queryOne[model.Account](ctx, r.DB, accountByIDQuery, id)
	if err != nil {
		return model.Account{}, apperrors.MapDBError(err)
	}
	return out, nil
}

// Create inserts an account. The password arrives already hashed.
func (r *AccountRepo) Create(ctx context.Context, acc model.Account) (model.Account, error) {
	now := r.timeProvider.Now().UTC()
	out, err := queryOne[model.Account](ctx, r.DB, `
		INSERT INTO accounts (
			user_name, email, password_hash, avatar, roles, employee_id, disabled, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $8
		) RETURNING `+accountColumnList,
		acc.UserName,
		acc.Email,
		acc.PasswordHash,
		acc.Avatar,
		acc.Roles,
		acc.EmployeeID,
		acc.Disabled,
		now,
	)
	if err != nil {
		return model.Account{}, apperrors.MapDBError(err)
	}
	return out, nil
}

// UpdatePassword replaces the stored password hash.
func (r *AccountRepo) UpdatePassword(ctx context.Context, id, passwordHash string) error {
	affected, err := execRowsAffected(ctx, r.DB, `
		UPDATE accounts SET password_hash = $1, updated_at = $2 WHERE id = $3`,
		passwordHash, r.timeProvider.Now().UTC(), id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if affected == 0 {
		return apperrors.NotFound("account not found")
	}
	return nil
}

// TouchSignIn records a successful sign-in.
func (r *AccountRepo) TouchSignIn(ctx context.Context, id string) error {
	_, err := execRowsAffected(ctx, r.DB, `
		UPDATE accounts SET last_sign_in = $1 WHERE id = $2`,
		r.timeProvider.Now().UTC(), id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	return nil
}

// SetDisabled flips an account's disabled flag.
func (r *AccountRepo) SetDisabled(ctx context.Context, id string, disabled bool) error {
	affected, err := execRowsAffected(ctx, r.DB, `
		UPDATE accounts SET disabled = $1, updated_at = $2 WHERE id = $3`,
		disabled, r.timeProvider.Now().UTC(), id)
	if err != nil {
		return apperrors.MapDBError(err)
	}
	if affected == 0 {
		return apperrors.NotFound("account not found")
	}
	return nil
}
