//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// AnnouncementAudience scopes who an announcement is shown to.
type AnnouncementAudience string

const (
	AudienceAll        AnnouncementAudience = "all"
	AudienceEmployees  AnnouncementAudience = "employees"
	AudienceManagement AnnouncementAudience = "management"
)

// Valid reports whether the audience is supported.
func (a AnnouncementAudience) Valid() bool {
	switch a {
	case AudienceAll, AudienceEmployees, AudienceManagement:
		return true
	default:
		return false
	}
}

// Announcement is a portal-wide notice.
type Announcement struct {
	ID          string               `json:"id"          db:"id"`
	Title       string               `json:"title"       db:"title"`
	Body        string               `json:"body"        db:"body"`
	Audience    AnnouncementAudience `json:"audience"    db:"audience"`
	Pinned      bool                 `json:"pinned"      db:"pinned"`
	PublishedAt *time.Time           `json:"publishedAt,omitempty" db:"published_at"`
	AuthorID    string               `json:"authorId"    db:"author_id"`
	CreatedAt   time.Time            `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time            `json:"updatedAt"   db:"updated_at"`
}

// AnnouncementsListOptions controls paging and filtering.
// The announcements endpoint family is 0-based (pageIndex/pageSize).
// - Search matches title via ILIKE substring.
// - Audience matches exactly.
type AnnouncementsListOptions struct {
	Limit    int
	Offset   int
	Search   *string
	Audience *AnnouncementAudience
	Sort     string
	Dir      string
}

// CreateAnnouncementRequest represents parameters to create an Announcement.
type CreateAnnouncementRequest struct {
	Title    string               `json:"title"`
	Body     string               `json:"body"`
	Audience AnnouncementAudience `json:"audience,omitempty"`
	Pinned   bool                 `json:"pinned,omitempty"`
	AuthorID string               `json:"authorId"`
}

// Validate checks a create request.
func (r CreateAnnouncementRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("announcement title is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("announcement body is required")
	}
	if r.Audience != "" && !r.Audience.Valid() {
		return errors.New("invalid announcement audience")
	}
	return nil
}

// UpdateAnnouncementRequest represents parameters to update an Announcement.
type UpdateAnnouncementRequest struct {
	Title    *string               `json:"title,omitempty"`
	Body     *string               `json:"body,omitempty"`
	Audience *AnnouncementAudience `json:"audience,omitempty"`
	Pinned   *bool                 `json:"pinned,omitempty"`
}

// Validate checks an update request.
func (r UpdateAnnouncementRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("announcement title cannot be empty")
	}
	if r.Body != nil && strings.TrimSpace(*r.Body) == "" {
		return errors.New("announcement body cannot be empty")
	}
	if r.Audience != nil && !r.Audience.Valid() {
		return errors.New("invalid announcement audience")
	}
	return nil
}
