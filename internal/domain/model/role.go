//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// RoleRecord is an assignable portal role with its permission keys.
// The record name is normalized lower-case on write; authorization
// checks never see mixed casing.
type RoleRecord struct {
	ID          string    `json:"id"          db:"id"`
	Name        string    `json:"name"        db:"name"`
	Description *string   `json:"description,omitempty" db:"description"`
	Permissions []string  `json:"permissions" db:"permissions"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// RolesListOptions controls paging and filtering.
// The roles endpoint family is 0-based (pageIndex/pageSize).
// - Search matches name via ILIKE substring.
type RolesListOptions struct {
	Limit  int
	Offset int
	Search *string
	Sort   string
	Dir    string
}

// CreateRoleRequest represents parameters to create a RoleRecord.
type CreateRoleRequest struct {
	Name        string   `json:"name"`
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}

// Validate checks a create request.
func (r CreateRoleRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("role name is required")
	}
	return nil
}

// NormalizedName returns the role name as stored: trimmed, lower-cased.
func (r CreateRoleRequest) NormalizedName() string {
	return strings.ToLower(strings.TrimSpace(r.Name))
}

// UpdateRoleRequest represents parameters to update a RoleRecord.
type UpdateRoleRequest struct {
	Description *string  `json:"description,omitempty"`
	Permissions []string `json:"permissions,omitempty"`
}
