//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const maxEmployeeNameLen = 255

// EmployeeStatus is the employment state of a directory entry.
type EmployeeStatus string

const (
	EmployeeStatusActive   EmployeeStatus = "active"
	EmployeeStatusOnLeave  EmployeeStatus = "on_leave"
	EmployeeStatusResigned EmployeeStatus = "resigned"
)

// Valid reports whether the status is supported.
func (s EmployeeStatus) Valid() bool {
	switch s {
	case EmployeeStatusActive, EmployeeStatusOnLeave, EmployeeStatusResigned:
		return true
	default:
		return false
	}
}

// ParseEmployeeStatus normalizes a status string and reports whether it is supported.
func ParseEmployeeStatus(value string) (EmployeeStatus, bool) {
	st := EmployeeStatus(strings.ToLower(strings.TrimSpace(value)))
	if st.Valid() {
		return st, true
	}
	return "", false
}

// Employee is a directory entry.
type Employee struct {
	ID           string         `json:"id"            db:"id"`
	Code         string         `json:"code"          db:"code"`
	FullName     string         `json:"fullName"      db:"full_name"`
	Email        string         `json:"email"         db:"email"`
	Phone        *string        `json:"phone,omitempty"    db:"phone"`
	Avatar       *string        `json:"avatar,omitempty"   db:"avatar"`
	DepartmentID *string        `json:"departmentId,omitempty" db:"department_id"`
	Position     *string        `json:"position,omitempty" db:"position"`
	Status       EmployeeStatus `json:"status"        db:"status"`
	JoinedAt     *time.Time     `json:"joinedAt,omitempty" db:"joined_at"`
	CreatedAt    time.Time      `json:"createdAt"     db:"created_at"`
	UpdatedAt    time.Time      `json:"updatedAt"     db:"updated_at"`
}

// EmployeesListOptions controls paging and filtering for the directory.
// The employees endpoint family is 1-based (PageNumber/PageSize).
// - Keyword matches full name or code via ILIKE substring.
// - DepartmentID and Status match exactly.
// - Sort supports "full_name", "code", "joined_at", "created_at".
type EmployeesListOptions struct {
	Limit        int
	Offset       int
	Keyword      *string
	DepartmentID *string
	Status       *EmployeeStatus
	Sort         string
	Dir          string
}

// CreateEmployeeRequest represents parameters to create an Employee.
type CreateEmployeeRequest struct {
	Code         string     `json:"code"`
	FullName     string     `json:"fullName"`
	Email        string     `json:"email"`
	Phone        *string    `json:"phone,omitempty"`
	Avatar       *string    `json:"avatar,omitempty"`
	DepartmentID *string    `json:"departmentId,omitempty"`
	Position     *string    `json:"position,omitempty"`
	Status       string     `json:"status,omitempty"`
	JoinedAt     *time.Time `json:"joinedAt,omitempty"`
}

// Validate checks a create request.
func (r CreateEmployeeRequest) Validate() error {
	if strings.TrimSpace(r.Code) == "" {
		return errors.New("employee code is required")
	}
	name := strings.TrimSpace(r.FullName)
	if name == "" {
		return errors.New("employee full name is required")
	}
	if utf8.RuneCountInString(name) > maxEmployeeNameLen {
		return errors.New("employee full name is too long")
	}
	if strings.TrimSpace(r.Email) == "" {
		return errors.New("employee email is required")
	}
	if r.Status != "" {
		if _, ok := ParseEmployeeStatus(r.Status); !ok {
			return errors.New("invalid employee status")
		}
	}
	return nil
}

// UpdateEmployeeRequest represents parameters to update an Employee.
// Nil fields are left unchanged.
type UpdateEmployeeRequest struct {
	FullName     *string    `json:"fullName,omitempty"`
	Email        *string    `json:"email,omitempty"`
	Phone        *string    `json:"phone,omitempty"`
	Avatar       *string    `json:"avatar,omitempty"`
	DepartmentID *string    `json:"departmentId,omitempty"`
	Position     *string    `json:"position,omitempty"`
	Status       *string    `json:"status,omitempty"`
	JoinedAt     *time.Time `json:"joinedAt,omitempty"`
}

// Validate checks an update request.
func (r UpdateEmployeeRequest) Validate() error {
	if r.FullName != nil {
		name := strings.TrimSpace(*r.FullName)
		if name == "" {
			return errors.New("employee full name cannot be empty")
		}
		if utf8.RuneCountInString(name) > maxEmployeeNameLen {
			return errors.New("employee full name is too long")
		}
	}
	if r.Email != nil && strings.TrimSpace(*r.Email) == "" {
		return errors.New("employee email cannot be empty")
	}
	if r.Status != nil {
		if _, ok := ParseEmployeeStatus(*r.Status); !ok {
			return errors.New("invalid employee status")
		}
	}
	return nil
}
