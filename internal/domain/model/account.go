//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import "time"

// Account is a portal sign-in account. PasswordHash is a bcrypt hash;
// the plain password never leaves the credentials adapter.
type Account struct {
	ID           string     `json:"id"        db:"id"`
	UserName     string     `json:"userName"  db:"user_name"`
	Email        string     `json:"email"     db:"email"`
	PasswordHash string     `json:"-"         db:"password_hash"`
	Avatar       *string    `json:"avatar,omitempty" db:"avatar"`
	Roles        []string   `json:"roles"     db:"roles"`
	EmployeeID   *string    `json:"employeeId,omitempty" db:"employee_id"`
	Disabled     bool       `json:"disabled"  db:"disabled"`
	LastSignIn   *time.Time `json:"lastSignIn,omitempty" db:"last_sign_in"`
	CreatedAt    time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt    time.Time  `json:"updatedAt" db:"updated_at"`
}
