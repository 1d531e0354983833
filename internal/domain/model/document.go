//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
)

// Document is a stored file's metadata; the file body lives in object
// storage and is addressed by StoragePath.
type Document struct {
	ID          string    `json:"id"          db:"id"`
	Title       string    `json:"title"       db:"title"`
	CategoryID  *string   `json:"categoryId,omitempty" db:"category_id"`
	FileName    string    `json:"fileName"    db:"file_name"`
	ContentType string    `json:"contentType" db:"content_type"`
	SizeBytes   int64     `json:"sizeBytes"   db:"size_bytes"`
	StoragePath string    `json:"storagePath" db:"storage_path"`
	UploadedBy  string    `json:"uploadedBy"  db:"uploaded_by"`
	CreatedAt   time.Time `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt"   db:"updated_at"`
}

// DocumentsListOptions controls paging and filtering.
// The documents endpoint family is 1-based (PageNumber/PageSize).
// - Keyword matches title or file name via ILIKE substring.
// - CategoryID matches exactly.
type DocumentsListOptions struct {
	Limit      int
	Offset     int
	Keyword    *string
	CategoryID *string
	Sort       string
	Dir        string
}

// CreateDocumentRequest represents parameters to register a Document.
type CreateDocumentRequest struct {
	Title       string  `json:"title"`
	CategoryID  *string `json:"categoryId,omitempty"`
	FileName    string  `json:"fileName"`
	ContentType string  `json:"contentType"`
	SizeBytes   int64   `json:"sizeBytes"`
	StoragePath string  `json:"storagePath"`
	UploadedBy  string  `json:"uploadedBy"`
}

// Validate checks a create request.
func (r CreateDocumentRequest) Validate() error {
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("document title is required")
	}
	if strings.TrimSpace(r.FileName) == "" {
		return errors.New("document file name is required")
	}
	if r.SizeBytes < 0 {
		return errors.New("document size cannot be negative")
	}
	if strings.TrimSpace(r.StoragePath) == "" {
		return errors.New("document storage path is required")
	}
	return nil
}

// UpdateDocumentRequest represents parameters to update a Document's metadata.
type UpdateDocumentRequest struct {
	Title      *string `json:"title,omitempty"`
	CategoryID *string `json:"categoryId,omitempty"`
}

// Validate checks an update request.
func (r UpdateDocumentRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("document title cannot be empty")
	}
	return nil
}
