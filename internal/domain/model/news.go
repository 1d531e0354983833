//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// NewsArticle is a public-facing news post.
type NewsArticle struct {
	ID          string     `json:"id"          db:"id"`
	Title       string     `json:"title"       db:"title"`
	Slug        string     `json:"slug"        db:"slug"`
	Summary     *string    `json:"summary,omitempty" db:"summary"`
	Body        string     `json:"body"        db:"body"`
	CoverImage  *string    `json:"coverImage,omitempty" db:"cover_image"`
	Published   bool       `json:"published"   db:"published"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" db:"published_at"`
	AuthorID    string     `json:"authorId"    db:"author_id"`
	CreatedAt   time.Time  `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt"   db:"updated_at"`
}

// NewsListOptions controls paging and filtering.
// The news endpoint family is 0-based (pageIndex/pageSize).
// - Search matches title via ILIKE substring.
// - Published matches exactly.
type NewsListOptions struct {
	Limit     int
	Offset    int
	Search    *string
	Published *bool
	Sort      string
	Dir       string
}

// CreateNewsRequest represents parameters to create a NewsArticle.
type CreateNewsRequest struct {
	Title      string  `json:"title"`
	Slug       string  `json:"slug"`
	Summary    *string `json:"summary,omitempty"`
	Body       string  `json:"body"`
	CoverImage *string `json:"coverImage,omitempty"`
	Published  bool    `json:"published,omitempty"`
	AuthorID   string  `json:"authorId"`
}

// Validate checks a create request.
func (r CreateNewsRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("news title is required")
	}
	if strings.TrimSpace(r.Slug) == "" {
		return errors.New("news slug is required")
	}
	if strings.TrimSpace(r.Body) == "" {
		return errors.New("news body is required")
	}
	return nil
}

// UpdateNewsRequest represents parameters to update a NewsArticle.
type UpdateNewsRequest struct {
	Title      *string `json:"title,omitempty"`
	Summary    *string `json:"summary,omitempty"`
	Body       *string `json:"body,omitempty"`
	CoverImage *string `json:"coverImage,omitempty"`
	Published  *bool   `json:"published,omitempty"`
}

// Validate checks an update request.
func (r UpdateNewsRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("news title cannot be empty")
	}
	if r.Body != nil && strings.TrimSpace(*r.Body) == "" {
		return errors.New("news body cannot be empty")
	}
	return nil
}
