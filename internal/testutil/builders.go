// Package testutil provides testing utilities and helpers for the portal service.
package testutil

import (
	"fmt"
	"time"

	"github.com/corpintra/portal-ui-api/internal/domain/model"
)

// EmployeeRequestBuilder provides a fluent interface for building CreateEmployeeRequest objects for testing.
type EmployeeRequestBuilder struct {
	req *model.CreateEmployeeRequest
}

// NewEmployeeRequest creates a new EmployeeRequestBuilder with sensible defaults.
func NewEmployeeRequest() *EmployeeRequestBuilder {
	return &EmployeeRequestBuilder{
		req: &model.CreateEmployeeRequest{
			Code:     "EMP-0001",
			FullName: "Test Employee",
			Email:    "test.employee@example.com",
			Status:   string(model.EmployeeStatusActive),
		},
	}
}

// WithCode sets the employee code.
func (b *EmployeeRequestBuilder) WithCode(code string) *EmployeeRequestBuilder {
	b.req.Code = code
	return b
}

// WithFullName sets the full name.
func (b *EmployeeRequestBuilder) WithFullName(name string) *EmployeeRequestBuilder {
	b.req.FullName = name
	return b
}

// WithEmail sets the email.
func (b *EmployeeRequestBuilder) WithEmail(email string) *EmployeeRequestBuilder {
	b.req.Email = email
	return b
}

// WithDepartment sets the department ID.
func (b *EmployeeRequestBuilder) WithDepartment(departmentID string) *EmployeeRequestBuilder {
	b.req.DepartmentID = &departmentID
	return b
}

// WithPosition sets the position.
func (b *EmployeeRequestBuilder) WithPosition(position string) *EmployeeRequestBuilder {
	b.req.Position = &position
	return b
}

// WithStatus sets the employment status.
func (b *EmployeeRequestBuilder) WithStatus(status model.EmployeeStatus) *EmployeeRequestBuilder {
	b.req.Status = string(status)
	return b
}

// WithJoinedAt sets the joined date.
func (b *EmployeeRequestBuilder) WithJoinedAt(joinedAt time.Time) *EmployeeRequestBuilder {
	b.req.JoinedAt = &joinedAt
	return b
}

// Build returns the constructed CreateEmployeeRequest.
func (b *EmployeeRequestBuilder) Build() *model.CreateEmployeeRequest {
	return b.req
}

// SeqEmployeeRequest builds an employee request with a unique code and
// name from a sequence number, for list and pagination tests.
func SeqEmployeeRequest(n int) *model.CreateEmployeeRequest {
	return NewEmployeeRequest().
		WithCode(fmt.Sprintf("EMP-%04d", n)).
		WithFullName(fmt.Sprintf("Employee %04d", n)).
		WithEmail(fmt.Sprintf("employee%04d@example.com", n)).
		Build()
}

// AnnouncementRequest builds an announcement create request with defaults.
func AnnouncementRequest(authorID string) *model.CreateAnnouncementRequest {
	return &model.CreateAnnouncementRequest{
		Title:    "Test Announcement",
		Body:     "Announcement body",
		Audience: model.AudienceAll,
		AuthorID: authorID,
	}
}

// PinnedAnnouncementRequest builds a pinned announcement create request.
func PinnedAnnouncementRequest(authorID string) *model.CreateAnnouncementRequest {
	req := AnnouncementRequest(authorID)
	req.Title = "Pinned Announcement"
	req.Pinned = true
	return req
}

// ScheduleRequest builds a one-hour schedule entry starting at startsAt.
func ScheduleRequest(employeeID string, startsAt time.Time) *model.CreateScheduleRequest {
	return &model.CreateScheduleRequest{
		EmployeeID: employeeID,
		Title:      "Test Shift",
		StartsAt:   startsAt,
		EndsAt:     startsAt.Add(time.Hour),
	}
}

// ViolationRequest builds a minor violation create request.
func ViolationRequest(employeeID, reportedBy string, occurredAt time.Time) *model.CreateViolationRequest {
	return &model.CreateViolationRequest{
		EmployeeID: employeeID,
		Severity:   string(model.SeverityMinor),
		Reason:     "Late arrival",
		Points:     1,
		OccurredAt: occurredAt,
		ReportedBy: reportedBy,
	}
}

// DocumentRequest builds a document create request with defaults.
func DocumentRequest(uploadedBy string) *model.CreateDocumentRequest {
	return &model.CreateDocumentRequest{
		Title:       "Test Document",
		FileName:    "test.pdf",
		ContentType: "application/pdf",
		SizeBytes:   1024,
		StoragePath: "documents/test.pdf",
		UploadedBy:  uploadedBy,
	}
}

// NewsRequest builds an unpublished news article create request.
func NewsRequest(authorID, slug string) *model.CreateNewsRequest {
	return &model.CreateNewsRequest{
		Title:    "Test Article",
		Slug:     slug,
		Body:     "Article body",
		AuthorID: authorID,
	}
}

// GalleryRequest builds a gallery create request with defaults.
func GalleryRequest(createdBy string) *model.CreateGalleryRequest {
	return &model.CreateGalleryRequest{
		Title:     "Test Gallery",
		CreatedBy: createdBy,
	}
}
