//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Gallery is a named photo collection shown on the public pages.
type Gallery struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	Description *string   `json:"description,omitempty" db:"description"`
	CoverImage  *string   `json:"coverImage,omitempty"  db:"cover_image"`
	ImageCount  int       `json:"imageCount"  db:"image_count"`
	CreatedBy   string    `json:"createdBy"   db:"created_by"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// GalleriesListOptions controls paging and filtering.
// The galleries endpoint family is 0-based (pageIndex/pageSize).
// - Search matches title via ILIKE substring.
type GalleriesListOptions struct {
	Limit  int
	Offset int
	Search *string
	Sort   string
	Dir    string
}

// CreateGalleryRequest represents parameters to create a Gallery.
type CreateGalleryRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description,omitempty"`
	CoverImage  *string `json:"coverImage,omitempty"`
	CreatedBy   string  `json:"createdBy"`
}

// Validate checks a create request.
func (r CreateGalleryRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("gallery title is required")
	}
	return nil
}

// UpdateGalleryRequest represents parameters to update a Gallery.
type UpdateGalleryRequest struct {
	Title       *string `json:"title,omitempty"`
	Description *string `json:"description,omitempty"`
	CoverImage  *string `json:"coverImage,omitempty"`
}

// Validate checks an update request.
func (r UpdateGalleryRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("gallery title cannot be empty")
	}
	return nil
}
