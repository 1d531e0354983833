//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// ViolationSeverity grades a recorded violation.
type ViolationSeverity string

const (
	SeverityMinor    ViolationSeverity = "minor"
	SeverityMajor    ViolationSeverity = "major"
	SeverityCritical ViolationSeverity = "critical"
)

// Valid reports whether the severity is supported.
func (s ViolationSeverity) Valid() bool {
	switch s {
	case SeverityMinor, SeverityMajor, SeverityCritical:
		return true
	default:
		return false
	}
}

// ParseViolationSeverity normalizes a severity string and reports whether it is supported.
func ParseViolationSeverity(value string) (ViolationSeverity, bool) {
	sev := ViolationSeverity(strings.ToLower(strings.TrimSpace(value)))
	if sev.Valid() {
		return sev, true
	}
	return "", false
}

// Violation is a tracked incident against an employee record.
type Violation struct {
	ID         string            `json:"id"         db:"id"`
	EmployeeID string            `json:"employeeId" db:"employee_id"`
	Severity   ViolationSeverity `json:"severity"   db:"severity"`
	Reason     string            `json:"reason"     db:"reason"`
	Points     int               `json:"points"     db:"points"`
	OccurredAt time.Time         `json:"occurredAt" db:"occurred_at"`
	ReportedBy string            `json:"reportedBy" db:"reported_by"`
	Resolved   bool              `json:"resolved"   db:"resolved"`
	CreatedAt  time.Time         `json:"createdAt"  db:"created_at"`
	UpdatedAt  time.Time         `json:"updatedAt"  db:"updated_at"`
}

// ViolationsListOptions controls paging and filtering.
// The violations endpoint family is 1-based (PageNumber/PageSize).
// - EmployeeID and Severity match exactly.
// - FromDate/ToDate bound OccurredAt inclusively.
type ViolationsListOptions struct {
	Limit      int
	Offset     int
	EmployeeID *string
	Severity   *ViolationSeverity
	FromDate   *time.Time
	ToDate     *time.Time
	Sort       string
	Dir        string
}

// CreateViolationRequest represents parameters to record a Violation.
type CreateViolationRequest struct {
	EmployeeID string    `json:"employeeId"`
	Severity   string    `json:"severity"`
	Reason     string    `json:"reason"`
	Points     int       `json:"points,omitempty"`
	OccurredAt time.Time `json:"occurredAt"`
	ReportedBy string    `json:"reportedBy"`
}

// Validate checks a create request.
func (r CreateViolationRequest) Validate() error {
	if strings.TrimSpace(r.EmployeeID) == "" {
		return errors.New("violation employee is required")
	}
	if _, ok := ParseViolationSeverity(r.Severity); !ok {
		return errors.New("invalid violation severity")
	}
	if strings.TrimSpace(r.Reason) == "" {
		return errors.New("violation reason is required")
	}
	if r.Points < 0 {
		return errors.New("violation points cannot be negative")
	}
	if r.OccurredAt.IsZero() {
		return errors.New("violation occurrence time is required")
	}
	return nil
}

// UpdateViolationRequest represents parameters to update a Violation.
type UpdateViolationRequest struct {
	Severity *string `json:"severity,omitempty"`
	Reason   *string `json:"reason,omitempty"`
	Points   *int    `json:"points,omitempty"`
	Resolved *bool   `json:"resolved,omitempty"`
}

// Validate checks an update request.
func (r UpdateViolationRequest) Validate() error {
	if r.Severity != nil {
		if _, ok := ParseViolationSeverity(*r.Severity); !ok {
			return errors.New("invalid violation severity")
		}
	}
	if r.Reason != nil && strings.TrimSpace(*r.Reason) == "" {
		return errors.New("violation reason cannot be empty")
	}
	if r.Points != nil && *r.Points < 0 {
		return errors.New("violation points cannot be negative")
	}
	return nil
}
