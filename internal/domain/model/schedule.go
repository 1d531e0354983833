//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Schedule is a work-schedule entry for one employee.
type Schedule struct {
	ID         string    `json:"id"         db:"id"`
	EmployeeID string    `json:"employeeId" db:"employee_id"`
	Title      string    `json:"title"      db:"title"`
	Location   *string   `json:"location,omitempty" db:"location"`
	StartsAt   time.Time `json:"startsAt"   db:"starts_at"`
	EndsAt     time.Time `json:"endsAt"     db:"ends_at"`
	Note       *string   `json:"note,omitempty" db:"note"`
	CreatedAt  time.Time `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time `json:"updatedAt"  db:"updated_at"`
}

// SchedulesListOptions controls paging and filtering.
// The schedules endpoint family is 0-based (pageIndex/pageSize).
// - EmployeeID matches exactly.
// - Week bounds the entries whose StartsAt falls inside [WeekStart, WeekStart+7d).
type SchedulesListOptions struct {
	Limit      int
	Offset     int
	EmployeeID *string
	WeekStart  *time.Time
	Sort       string
	Dir        string
}

// CreateScheduleRequest represents parameters to create a Schedule.
type CreateScheduleRequest struct {
	EmployeeID string    `json:"employeeId"`
	Title      string    `json:"title"`
	Location   *string   `json:"location,omitempty"`
	StartsAt   time.Time `json:"startsAt"`
	EndsAt     time.Time `json:"endsAt"`
	Note       *string   `json:"note,omitempty"`
}

// Validate checks a create request.
func (r CreateScheduleRequest) Validate() error {
	if strings.TrimSpace(r.EmployeeID) == "" {
		return errors.New("schedule employee is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("schedule title is required")
	}
	if r.StartsAt.IsZero() || r.EndsAt.IsZero() {
		return errors.New("schedule start and end are required")
	}
	if !r.EndsAt.After(r.StartsAt) {
		return errors.New("schedule end must be after start")
	}
	return nil
}

// UpdateScheduleRequest represents parameters to update a Schedule.
type UpdateScheduleRequest struct {
	Title    *string    `json:"title,omitempty"`
	Location *string    `json:"location,omitempty"`
	StartsAt *time.Time `json:"startsAt,omitempty"`
	EndsAt   *time.Time `json:"endsAt,omitempty"`
	Note     *string    `json:"note,omitempty"`
}

// Validate checks an update request.
func (r UpdateScheduleRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("schedule title cannot be empty")
	}
	if r.StartsAt != nil && r.EndsAt != nil && !r.EndsAt.After(*r.StartsAt) {
		return errors.New("schedule end must be after start")
	}
	return nil
}
